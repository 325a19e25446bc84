package format

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGUIDString(t *testing.T) {
	if got := LinkCLSID.String(); got != "00021401-0000-0000-C000-000000000046" {
		t.Fatalf("LinkCLSID = %s", got)
	}
	if got := PropertyNamedFormatID.String(); got != "D5CDD505-2E9C-101B-9397-08002B2CF9AE" {
		t.Fatalf("PropertyNamedFormatID = %s", got)
	}
}

func TestGUIDUUIDRoundTrip(t *testing.T) {
	u := uuid.MustParse("f4f8b1d3-0c57-11ef-9262-0242ac120002")
	if got := GUIDFromUUID(u).UUID(); got != u {
		t.Fatalf("round trip = %s, want %s", got, u)
	}
	if !(GUID{}).IsZero() || LinkCLSID.IsZero() {
		t.Fatal("IsZero")
	}
}

func TestFiletime(t *testing.T) {
	ft := Filetime(132223104000000000)
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ft.Time(); !got.Equal(want) {
		t.Fatalf("Time() = %s, want %s", got, want)
	}
	if FiletimeFromTime(want) != ft {
		t.Fatalf("FiletimeFromTime = %d", FiletimeFromTime(want))
	}

	old := time.Date(1900, 6, 1, 12, 0, 0, 500, time.UTC).Truncate(100 * time.Nanosecond)
	if got := FiletimeFromTime(old).Time(); !got.Equal(old) {
		t.Fatalf("pre-1970 round trip = %s, want %s", got, old)
	}

	if !Filetime(0).Time().IsZero() || !Filetime(0).IsZero() {
		t.Fatal("zero filetime should map to zero time")
	}
	text, _ := ft.MarshalText()
	if string(text) != "2020-01-01T00:00:00Z" {
		t.Fatalf("MarshalText = %s", text)
	}
}
