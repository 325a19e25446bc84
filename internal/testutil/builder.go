// Package testutil synthesises shortcut files for tests. It encodes the
// on-disk layout independently of the decoders so fixtures do not inherit
// decoder bugs.
package testutil

import (
	"encoding/binary"
	"unicode/utf16"
)

// Header layout and flag bits used by the builder.
const (
	headerSize = 0x4C

	flagHasIDList     = 1 << 0
	flagHasLinkInfo   = 1 << 1
	flagIsUnicode     = 1 << 7
	stringFlagBitBase = 2 // HasName is bit 2; the other strings follow in order
)

var linkCLSID = [16]byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

type rawString struct {
	set   bool
	text  string
	count uint16
	raw   []byte // used instead of text when non-nil
}

// Builder assembles a shortcut file section by section. The zero value is
// not usable; call NewBuilder.
type Builder struct {
	header     [headerSize]byte
	idList     []byte
	idListSet  bool
	linkInfo   []byte
	strings    [5]rawString
	blocks     []byte
	terminated bool
	trailing   []byte
}

// NewBuilder returns a builder for a minimal valid shortcut: a header with
// no presence flags and a terminal extra block.
func NewBuilder() *Builder {
	b := &Builder{terminated: true}
	binary.LittleEndian.PutUint32(b.header[0:], headerSize)
	copy(b.header[4:], linkCLSID[:])
	binary.LittleEndian.PutUint32(b.header[0x3C:], 1) // SW_SHOWNORMAL
	return b
}

func (b *Builder) flags() uint32 { return binary.LittleEndian.Uint32(b.header[0x14:]) }

func (b *Builder) setFlags(f uint32) { binary.LittleEndian.PutUint32(b.header[0x14:], f) }

// Flags ORs f into the header LinkFlags.
func (b *Builder) Flags(f uint32) *Builder {
	b.setFlags(b.flags() | f)
	return b
}

// ClearFlags removes f from the header LinkFlags.
func (b *Builder) ClearFlags(f uint32) *Builder {
	b.setFlags(b.flags() &^ f)
	return b
}

// Unicode selects 16-bit string data.
func (b *Builder) Unicode() *Builder { return b.Flags(flagIsUnicode) }

// Header lets fn edit the raw 76 header bytes.
func (b *Builder) Header(fn func(h []byte)) *Builder {
	fn(b.header[:])
	return b
}

// IDList sets the target ID list to the given items followed by a
// terminator, and sets the presence flag.
func (b *Builder) IDList(items ...[]byte) *Builder {
	var body []byte
	for _, it := range items {
		body = binary.LittleEndian.AppendUint16(body, uint16(len(it)+2))
		body = append(body, it...)
	}
	body = append(body, 0, 0)
	return b.RawIDList(body)
}

// RawIDList sets the ID list body verbatim; the size prefix is derived.
func (b *Builder) RawIDList(body []byte) *Builder {
	b.idList = binary.LittleEndian.AppendUint16(nil, uint16(len(body)))
	b.idList = append(b.idList, body...)
	b.idListSet = true
	return b.Flags(flagHasIDList)
}

// LinkInfo sets the complete link info structure and its presence flag.
func (b *Builder) LinkInfo(raw []byte) *Builder {
	b.linkInfo = raw
	return b.Flags(flagHasLinkInfo)
}

// StringField sets string data field kind (0 = description … 4 = icon
// location) and its presence flag. The text is encoded at Build time using
// the width selected by the Unicode flag.
func (b *Builder) StringField(kind int, text string) *Builder {
	b.strings[kind] = rawString{set: true, text: text}
	return b.Flags(1 << (stringFlagBitBase + kind))
}

// RawStringField sets a string field with an explicit count and body, which
// need not agree.
func (b *Builder) RawStringField(kind int, count uint16, raw []byte) *Builder {
	b.strings[kind] = rawString{set: true, count: count, raw: raw}
	return b.Flags(1 << (stringFlagBitBase + kind))
}

// Block appends an extra data block with the given signature and payload.
func (b *Builder) Block(sig uint32, payload []byte) *Builder {
	b.blocks = append(b.blocks, Block(sig, payload)...)
	return b
}

// RawBlocks appends bytes verbatim to the extra data area.
func (b *Builder) RawBlocks(raw []byte) *Builder {
	b.blocks = append(b.blocks, raw...)
	return b
}

// Unterminated omits the terminal zero-size block.
func (b *Builder) Unterminated() *Builder {
	b.terminated = false
	return b
}

// Trailing appends bytes after the terminal block.
func (b *Builder) Trailing(raw []byte) *Builder {
	b.trailing = raw
	return b
}

// Build returns the encoded file.
func (b *Builder) Build() []byte {
	out := append([]byte(nil), b.header[:]...)
	if b.idListSet {
		out = append(out, b.idList...)
	}
	out = append(out, b.linkInfo...)
	unicode := b.flags()&flagIsUnicode != 0
	for _, s := range b.strings {
		if !s.set {
			continue
		}
		if s.raw != nil {
			out = binary.LittleEndian.AppendUint16(out, s.count)
			out = append(out, s.raw...)
			continue
		}
		if unicode {
			units := utf16.Encode([]rune(s.text))
			out = binary.LittleEndian.AppendUint16(out, uint16(len(units)))
			out = append(out, UTF16(s.text)...)
		} else {
			out = binary.LittleEndian.AppendUint16(out, uint16(len(s.text)))
			out = append(out, s.text...)
		}
	}
	out = append(out, b.blocks...)
	if b.terminated {
		out = append(out, 0, 0, 0, 0)
	}
	return append(out, b.trailing...)
}

// Block encodes one extra data block.
func Block(sig uint32, payload []byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(8+len(payload)))
	out = binary.LittleEndian.AppendUint32(out, sig)
	return append(out, payload...)
}

// UTF16 encodes s as UTF-16LE without a terminator.
func UTF16(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// UTF16Z encodes s as NUL-terminated UTF-16LE.
func UTF16Z(s string) []byte { return append(UTF16(s), 0, 0) }

// CString encodes s as a NUL-terminated byte string.
func CString(s string) []byte { return append([]byte(s), 0) }
