package format

import (
	"fmt"
	"math"

	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// SectionPropertyStore names property store payloads in errors.
const SectionPropertyStore = "property store"

// VarType is a PROPVARIANT type tag.
type VarType uint16

const (
	VTEmpty    VarType = 0x0000
	VTNull     VarType = 0x0001
	VTI2       VarType = 0x0002
	VTI4       VarType = 0x0003
	VTR4       VarType = 0x0004
	VTR8       VarType = 0x0005
	VTBool     VarType = 0x000B
	VTI1       VarType = 0x0010
	VTUI1      VarType = 0x0011
	VTUI2      VarType = 0x0012
	VTUI4      VarType = 0x0013
	VTI8       VarType = 0x0014
	VTUI8      VarType = 0x0015
	VTInt      VarType = 0x0016
	VTUInt     VarType = 0x0017
	VTLPStr    VarType = 0x001E
	VTLPWStr   VarType = 0x001F
	VTFiletime VarType = 0x0040
	VTCLSID    VarType = 0x0048
)

var varTypeNames = map[VarType]string{
	VTEmpty: "VT_EMPTY", VTNull: "VT_NULL", VTI2: "VT_I2", VTI4: "VT_I4",
	VTR4: "VT_R4", VTR8: "VT_R8", VTBool: "VT_BOOL", VTI1: "VT_I1",
	VTUI1: "VT_UI1", VTUI2: "VT_UI2", VTUI4: "VT_UI4", VTI8: "VT_I8",
	VTUI8: "VT_UI8", VTInt: "VT_INT", VTUInt: "VT_UINT", VTLPStr: "VT_LPSTR",
	VTLPWStr: "VT_LPWSTR", VTFiletime: "VT_FILETIME", VTCLSID: "VT_CLSID",
}

func (v VarType) String() string {
	if name, ok := varTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VT_0x%04x", uint16(v))
}

// PropertyValue is one serialized property. Integer-keyed storages set ID;
// the named storage sets Name instead. Value holds the decoded Go value for
// the supported types (int16, int32, float32, float64, bool, int8, uint8,
// uint16, uint32, int64, uint64, EncodedString, Filetime, GUID) or the raw
// bytes after the type tag otherwise.
type PropertyValue struct {
	Offset int64
	Size   uint32
	ID     uint32
	Name   *EncodedString
	Type   VarType
	Value  any
}

// PropertyStorage is one serialized property storage: a format identifier
// and its values.
type PropertyStorage struct {
	Offset   int64
	Size     uint32
	Version  uint32
	FormatID GUID
	Values   []PropertyValue
}

// Named reports whether values are keyed by name.
func (s *PropertyStorage) Named() bool { return s.FormatID == PropertyNamedFormatID }

// PropertyStoreBlock is the decoded property store extra data block.
type PropertyStoreBlock struct {
	Storages []PropertyStorage
}

func (*PropertyStoreBlock) BlockSignature() Signature { return SigPropertyStore }

// Lookup returns the value with the given format identifier and id.
func (p *PropertyStoreBlock) Lookup(formatID GUID, id uint32) (PropertyValue, bool) {
	for _, s := range p.Storages {
		if s.FormatID != formatID {
			continue
		}
		for _, v := range s.Values {
			if v.Name == nil && v.ID == id {
				return v, true
			}
		}
	}
	return PropertyValue{}, false
}

// ParsePropertyStore decodes a sequence of serialized property storages
// ended by a zero storage size. At most maxValues values are accepted.
func ParsePropertyStore(b []byte, base int64, maxValues int, cp types.Codepage) (*PropertyStoreBlock, error) {
	ps := &PropertyStoreBlock{}
	total := 0
	pos := 0
	for {
		off := base + int64(pos)
		if len(b)-pos < 4 {
			return nil, types.OutOfBounds(SectionPropertyStore, "storage size", off, 4, base+int64(len(b)))
		}
		size := int(buf.U32At(b, pos))
		if size == 0 {
			break
		}
		if size < PropertyStorageHeaderSize {
			return nil, types.Formatf(SectionPropertyStore, off, "storage size %d smaller than header %d", size, PropertyStorageHeaderSize)
		}
		s, ok := buf.Slice(b, pos, size)
		if !ok {
			return nil, types.OutOfBounds(SectionPropertyStore, "storage", off, int64(size), base+int64(len(b)))
		}
		st := PropertyStorage{
			Offset:   off,
			Size:     uint32(size),
			Version:  buf.U32At(s, 4),
			FormatID: GUIDAt(s, 8),
		}
		if st.Version != PropertyStorageVersion {
			return nil, types.Formatf(SectionPropertyStore, off+4, "storage version 0x%08x, want 0x%08x", st.Version, PropertyStorageVersion)
		}
		values, err := parsePropertyValues(s[PropertyStorageHeaderSize:], off+PropertyStorageHeaderSize, st.Named(), &total, maxValues, cp)
		if err != nil {
			return nil, err
		}
		st.Values = values
		ps.Storages = append(ps.Storages, st)
		pos += size
	}
	return ps, nil
}

func parsePropertyValues(b []byte, base int64, named bool, total *int, maxValues int, cp types.Codepage) ([]PropertyValue, error) {
	var out []PropertyValue
	limit := base + int64(len(b))
	pos := 0
	for {
		off := base + int64(pos)
		if len(b)-pos < 4 {
			return nil, types.OutOfBounds(SectionPropertyStore, "value size", off, 4, limit)
		}
		size := int(buf.U32At(b, pos))
		if size == 0 {
			return out, nil
		}
		if *total >= maxValues {
			return nil, types.ResourceLimit(SectionPropertyStore, off, maxValues)
		}
		*total++
		if size < PropertyIntValueHeaderSize {
			return nil, types.Formatf(SectionPropertyStore, off, "value size %d smaller than header %d", size, PropertyIntValueHeaderSize)
		}
		v, ok := buf.Slice(b, pos, size)
		if !ok {
			return nil, types.OutOfBounds(SectionPropertyStore, "value", off, int64(size), limit)
		}
		pv := PropertyValue{Offset: off, Size: uint32(size)}
		typed := PropertyIntValueHeaderSize
		if named {
			nameSize := int(buf.U32At(v, 4))
			name, ok := buf.Slice(v, PropertyNamedValueHeaderSize, nameSize)
			if !ok {
				return nil, types.OutOfBounds(SectionPropertyStore, "value name", off+PropertyNamedValueHeaderSize, int64(nameSize), off+int64(size))
			}
			pv.Name = &EncodedString{
				Section: SectionPropertyStore, Offset: off + PropertyNamedValueHeaderSize,
				Raw: buf.TrimNUL16(name), Wide: true,
			}
			typed = PropertyNamedValueHeaderSize + nameSize
		} else {
			pv.ID = buf.U32At(v, 4)
		}
		if err := decodeTypedValue(&pv, v[typed:], off+int64(typed), cp); err != nil {
			return nil, err
		}
		out = append(out, pv)
		pos += size
	}
}

func decodeTypedValue(pv *PropertyValue, b []byte, base int64, cp types.Codepage) error {
	limit := base + int64(len(b))
	if len(b) < TypedValueHeaderSize {
		return types.OutOfBounds(SectionPropertyStore, "typed value header", base, TypedValueHeaderSize, limit)
	}
	pv.Type = VarType(buf.U16LE(b))
	data := b[TypedValueHeaderSize:]
	dataOff := base + TypedValueHeaderSize
	need := func(n int) error {
		if len(data) < n {
			return types.OutOfBounds(SectionPropertyStore, pv.Type.String()+" value", dataOff, int64(n), limit)
		}
		return nil
	}

	switch pv.Type {
	case VTEmpty, VTNull:
		pv.Value = nil
	case VTI1, VTUI1:
		if err := need(1); err != nil {
			return err
		}
		if pv.Type == VTI1 {
			pv.Value = int8(data[0])
		} else {
			pv.Value = data[0]
		}
	case VTI2, VTUI2, VTBool:
		if err := need(2); err != nil {
			return err
		}
		u := buf.U16LE(data)
		switch pv.Type {
		case VTI2:
			pv.Value = int16(u)
		case VTUI2:
			pv.Value = u
		default:
			pv.Value = u != 0
		}
	case VTI4, VTInt, VTUI4, VTUInt, VTR4:
		if err := need(4); err != nil {
			return err
		}
		u := buf.U32LE(data)
		switch pv.Type {
		case VTI4, VTInt:
			pv.Value = int32(u)
		case VTR4:
			pv.Value = math.Float32frombits(u)
		default:
			pv.Value = u
		}
	case VTI8, VTUI8, VTR8, VTFiletime:
		if err := need(8); err != nil {
			return err
		}
		u := buf.U64LE(data)
		switch pv.Type {
		case VTI8:
			pv.Value = int64(u)
		case VTUI8:
			pv.Value = u
		case VTR8:
			pv.Value = math.Float64frombits(u)
		default:
			pv.Value = Filetime(u)
		}
	case VTCLSID:
		if err := need(GUIDSize); err != nil {
			return err
		}
		pv.Value = GUIDAt(data, 0)
	case VTLPStr, VTLPWStr:
		if err := need(4); err != nil {
			return err
		}
		n := int(buf.U32LE(data))
		wide := pv.Type == VTLPWStr
		if wide {
			var ok bool
			if n, ok = buf.MulOverflowSafe(n, 2); !ok {
				return types.OutOfBounds(SectionPropertyStore, "string value", dataOff+4, math.MaxInt32, limit)
			}
		}
		raw, ok := buf.Slice(data, 4, n)
		if !ok {
			return types.OutOfBounds(SectionPropertyStore, "string value", dataOff+4, int64(n), limit)
		}
		s := EncodedString{Section: SectionPropertyStore, Offset: dataOff + 4, Wide: wide, Codepage: cp}
		if wide {
			s.Raw = buf.TrimNUL16(raw)
		} else {
			s.Raw = buf.TrimNUL(raw)
		}
		pv.Value = s
	default:
		pv.Value = data
	}
	return nil
}
