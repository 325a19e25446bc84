package format

import (
	"bytes"
	"errors"
	"testing"

	"github.com/joshuapare/lnkkit/pkg/types"
)

func TestParseHeader(t *testing.T) {
	b := validHeader(FlagHasLinkInfo | FlagIsUnicode | FlagHasName)
	le32(b, HeaderAttributesOffset, uint32(AttrArchive|AttrReadOnly))
	le32(b, HeaderFileSizeOffset, 0x1234)
	le32(b, HeaderIconIndexOffset, 0xFFFFFFFE)
	le32(b, HeaderShowCommandOffset, uint32(ShowMaximized))
	le16(b, HeaderHotKeyOffset, 0x0641) // Ctrl+Alt+A

	h, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !h.Flags.HasLinkInfo() || !h.Flags.IsUnicode() || !h.Flags.HasName() {
		t.Fatalf("flags = %v", h.Flags.Names())
	}
	if h.Flags.HasLinkTargetIDList() || h.Flags.HasArguments() {
		t.Fatalf("unexpected flags: %v", h.Flags.Names())
	}
	if !h.Attributes.Archive() || !h.Attributes.ReadOnly() || h.Attributes.Directory() {
		t.Fatalf("attributes = %v", h.Attributes.Names())
	}
	if h.FileSize != 0x1234 || h.IconIndex != -2 {
		t.Fatalf("size=%d icon=%d", h.FileSize, h.IconIndex)
	}
	if h.ShowCommand.String() != "SW_SHOWMAXIMIZED" {
		t.Fatalf("show command = %s", h.ShowCommand)
	}
	if h.HotKey.Key() != 'A' || !h.HotKey.Control() || !h.HotKey.Alt() || h.HotKey.Shift() {
		t.Fatalf("hotkey = %s", h.HotKey)
	}
	if got := h.HotKey.String(); got != "Ctrl+Alt+A" {
		t.Fatalf("hotkey string = %q", got)
	}
}

func TestParseHeaderRejects(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		_, err := ParseHeader(make([]byte, HeaderSize-1))
		if !errors.Is(err, types.ErrTruncated) {
			t.Fatalf("want truncated, got %v", err)
		}
	})
	t.Run("size", func(t *testing.T) {
		b := validHeader(0)
		le32(b, HeaderSizeOffset, 0x4D)
		_, err := ParseHeader(b)
		if !errors.Is(err, types.ErrFormat) {
			t.Fatalf("want format, got %v", err)
		}
	})
	t.Run("clsid", func(t *testing.T) {
		b := validHeader(0)
		b[HeaderCLSIDOffset] ^= 0xFF
		_, err := ParseHeader(b)
		if !errors.Is(err, types.ErrFormat) {
			t.Fatalf("want format, got %v", err)
		}
	})
	t.Run("zeros", func(t *testing.T) {
		_, err := ParseHeader(make([]byte, HeaderSize))
		if !errors.Is(err, types.ErrFormat) {
			t.Fatalf("want format, got %v", err)
		}
	})
}

func TestHeaderBytesRoundTrip(t *testing.T) {
	b := validHeader(0xFFFFFFFF)
	for i := HeaderAttributesOffset; i < HeaderSize; i++ {
		b[i] = byte(i * 7)
	}
	h, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if got := h.Bytes(); !bytes.Equal(got, b) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", got, b)
	}
}

func TestLinkFlagNames(t *testing.T) {
	f := FlagHasLinkTargetIDList | FlagKeepLocalIDListForUNCTarget | LinkFlags(1<<30)
	names := f.Names()
	want := []string{"HasLinkTargetIDList", "KeepLocalIDListForUNCTarget", "0x40000000"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestShowCommandUnknown(t *testing.T) {
	if got := ShowCommand(2).String(); got != "0x00000002" {
		t.Fatalf("got %q", got)
	}
}

func TestHotKeyString(t *testing.T) {
	cases := map[HotKey]string{
		0:      "none",
		0x0170: "Shift+F1",
		0x0290: "Ctrl+NumLock",
		0x0035: "5",
		0x0420: "Alt+0x20",
	}
	for hk, want := range cases {
		if got := hk.String(); got != want {
			t.Errorf("HotKey(0x%04x) = %q, want %q", uint16(hk), got, want)
		}
	}
}
