package buf

// CString returns the bytes of b up to, not including, the first NUL. ok is
// false when b holds no terminator.
func CString(b []byte) ([]byte, bool) {
	for i, c := range b {
		if c == 0 {
			return b[:i], true
		}
	}
	return b, false
}

// CString16 returns the bytes of b up to, not including, the first 16-bit
// NUL code unit. Code units are aligned to the start of b. ok is false when
// no terminator is present.
func CString16(b []byte) ([]byte, bool) {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i], true
		}
	}
	return b[:len(b)&^1], false
}

// TrimNUL drops everything from the first NUL onward. Fixed-width on-disk
// fields are padded with NULs and this yields the meaningful prefix.
func TrimNUL(b []byte) []byte {
	s, _ := CString(b)
	return s
}

// TrimNUL16 is TrimNUL for UTF-16LE code units.
func TrimNUL16(b []byte) []byte {
	s, _ := CString16(b)
	return s
}
