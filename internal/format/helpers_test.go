package format

import "encoding/binary"

func le16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func le32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }

// validHeader returns a 76-byte header with the given flags.
func validHeader(flags LinkFlags) []byte {
	b := make([]byte, HeaderSize)
	le32(b, HeaderSizeOffset, HeaderSize)
	copy(b[HeaderCLSIDOffset:], LinkCLSID[:])
	le32(b, HeaderFlagsOffset, uint32(flags))
	return b
}
