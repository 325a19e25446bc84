// Package buf contains endian-safe, bounds-checked helpers shared by the
// shortcut structure decoders.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// U16At reads a little-endian uint16 at off. Returns 0 when the field does
// not fit inside b.
func U16At(b []byte, off int) uint16 {
	if !Has(b, off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[off:])
}

// U32At reads a little-endian uint32 at off. Returns 0 when the field does
// not fit inside b.
func U32At(b []byte, off int) uint32 {
	if !Has(b, off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// U64At reads a little-endian uint64 at off. Returns 0 when the field does
// not fit inside b.
func U64At(b []byte, off int) uint64 {
	if !Has(b, off, 8) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[off:])
}
