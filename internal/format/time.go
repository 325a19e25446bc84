package format

import "time"

// Filetime is a Windows FILETIME: 100-nanosecond intervals since 1601-01-01 UTC.
type Filetime uint64

// filetimeUnixDelta is the number of 100ns ticks between 1601 and 1970.
const filetimeUnixDelta = 116444736000000000

// IsZero reports whether the timestamp is unset.
func (f Filetime) IsZero() bool { return f == 0 }

// Time converts f to UTC. A zero FILETIME converts to the zero time.Time.
func (f Filetime) Time() time.Time {
	if f == 0 {
		return time.Time{}
	}
	// Wraps to a negative tick count for dates before 1970.
	ticks := int64(uint64(f) - filetimeUnixDelta)
	sec := ticks / 10_000_000
	nsec := (ticks % 10_000_000) * 100
	return time.Unix(sec, nsec).UTC()
}

// FiletimeFromTime is the inverse of Filetime.Time for times after 1601.
func FiletimeFromTime(t time.Time) Filetime {
	if t.IsZero() {
		return 0
	}
	return Filetime(uint64(t.Unix())*10_000_000 + uint64(t.Nanosecond()/100) + filetimeUnixDelta)
}

// MarshalText renders f as RFC 3339 with nanoseconds, or empty when unset.
func (f Filetime) MarshalText() ([]byte, error) {
	if f == 0 {
		return []byte{}, nil
	}
	return []byte(f.Time().Format(time.RFC3339Nano)), nil
}
