package format

import (
	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// SectionIDList names the link target ID list in errors and audit output.
const SectionIDList = "target id list"

// ItemID is one opaque shell item. Data excludes the 2-byte size prefix.
type ItemID struct {
	Offset int64 // absolute offset of the size prefix
	Data   []byte
}

// Size returns the on-disk size including the prefix.
func (it ItemID) Size() int { return len(it.Data) + ItemIDSizeFieldLen }

// IDList is a decoded sequence of shell items.
type IDList struct {
	Offset     int64 // absolute offset of the first item
	Items      []ItemID
	Terminated bool   // a zero-size item ended the list
	Trailing   []byte // bytes after the terminator, inside the declared list
}

// ParseIDList walks the item sequence in b, which starts at absolute offset
// base and is exactly as long as the declared list. A zero-size item ends
// the list; items may not cross the end of b.
func ParseIDList(b []byte, base int64, section string) (IDList, error) {
	l := IDList{Offset: base}
	pos := 0
	for pos < len(b) {
		off := base + int64(pos)
		if len(b)-pos < ItemIDSizeFieldLen {
			return IDList{}, types.OutOfBounds(section, "item size field", off, ItemIDSizeFieldLen, base+int64(len(b)))
		}
		size := int(buf.U16At(b, pos))
		if size == 0 {
			l.Terminated = true
			pos += ItemIDSizeFieldLen
			break
		}
		if size < ItemIDSizeFieldLen {
			return IDList{}, types.Formatf(section, off, "item size %d smaller than its own prefix", size)
		}
		if size > len(b)-pos {
			return IDList{}, types.OutOfBounds(section, "item", off, int64(size), base+int64(len(b)))
		}
		l.Items = append(l.Items, ItemID{Offset: off, Data: b[pos+ItemIDSizeFieldLen : pos+size]})
		pos += size
	}
	if pos < len(b) {
		l.Trailing = b[pos:]
	}
	return l, nil
}
