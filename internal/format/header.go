package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// SectionHeader names the header in errors and audit output.
const SectionHeader = "header"

// LinkFlags is the raw LinkFlags bitfield of the header.
type LinkFlags uint32

// LinkFlags bits in on-disk order.
const (
	FlagHasLinkTargetIDList LinkFlags = 1 << iota
	FlagHasLinkInfo
	FlagHasName
	FlagHasRelativePath
	FlagHasWorkingDir
	FlagHasArguments
	FlagHasIconLocation
	FlagIsUnicode
	FlagForceNoLinkInfo
	FlagHasExpString
	FlagRunInSeparateProcess
	FlagUnused1
	FlagHasDarwinID
	FlagRunAsUser
	FlagHasExpIcon
	FlagNoPidlAlias
	FlagUnused2
	FlagRunWithShimLayer
	FlagForceNoLinkTrack
	FlagEnableTargetMetadata
	FlagDisableLinkPathTracking
	FlagDisableKnownFolderTracking
	FlagDisableKnownFolderAlias
	FlagAllowLinkToLink
	FlagUnaliasOnSave
	FlagPreferEnvironmentPath
	FlagKeepLocalIDListForUNCTarget
)

var linkFlagNames = [...]string{
	"HasLinkTargetIDList", "HasLinkInfo", "HasName", "HasRelativePath",
	"HasWorkingDir", "HasArguments", "HasIconLocation", "IsUnicode",
	"ForceNoLinkInfo", "HasExpString", "RunInSeparateProcess", "Unused1",
	"HasDarwinID", "RunAsUser", "HasExpIcon", "NoPidlAlias", "Unused2",
	"RunWithShimLayer", "ForceNoLinkTrack", "EnableTargetMetadata",
	"DisableLinkPathTracking", "DisableKnownFolderTracking",
	"DisableKnownFolderAlias", "AllowLinkToLink", "UnaliasOnSave",
	"PreferEnvironmentPath", "KeepLocalIDListForUNCTarget",
}

// Has reports whether every bit of mask is set.
func (f LinkFlags) Has(mask LinkFlags) bool { return f&mask == mask }

func (f LinkFlags) HasLinkTargetIDList() bool         { return f.Has(FlagHasLinkTargetIDList) }
func (f LinkFlags) HasLinkInfo() bool                 { return f.Has(FlagHasLinkInfo) }
func (f LinkFlags) HasName() bool                     { return f.Has(FlagHasName) }
func (f LinkFlags) HasRelativePath() bool             { return f.Has(FlagHasRelativePath) }
func (f LinkFlags) HasWorkingDir() bool               { return f.Has(FlagHasWorkingDir) }
func (f LinkFlags) HasArguments() bool                { return f.Has(FlagHasArguments) }
func (f LinkFlags) HasIconLocation() bool             { return f.Has(FlagHasIconLocation) }
func (f LinkFlags) IsUnicode() bool                   { return f.Has(FlagIsUnicode) }
func (f LinkFlags) ForceNoLinkInfo() bool             { return f.Has(FlagForceNoLinkInfo) }
func (f LinkFlags) HasExpString() bool                { return f.Has(FlagHasExpString) }
func (f LinkFlags) RunInSeparateProcess() bool        { return f.Has(FlagRunInSeparateProcess) }
func (f LinkFlags) HasDarwinID() bool                 { return f.Has(FlagHasDarwinID) }
func (f LinkFlags) RunAsUser() bool                   { return f.Has(FlagRunAsUser) }
func (f LinkFlags) HasExpIcon() bool                  { return f.Has(FlagHasExpIcon) }
func (f LinkFlags) NoPidlAlias() bool                 { return f.Has(FlagNoPidlAlias) }
func (f LinkFlags) RunWithShimLayer() bool            { return f.Has(FlagRunWithShimLayer) }
func (f LinkFlags) ForceNoLinkTrack() bool            { return f.Has(FlagForceNoLinkTrack) }
func (f LinkFlags) EnableTargetMetadata() bool        { return f.Has(FlagEnableTargetMetadata) }
func (f LinkFlags) DisableLinkPathTracking() bool     { return f.Has(FlagDisableLinkPathTracking) }
func (f LinkFlags) DisableKnownFolderTracking() bool  { return f.Has(FlagDisableKnownFolderTracking) }
func (f LinkFlags) DisableKnownFolderAlias() bool     { return f.Has(FlagDisableKnownFolderAlias) }
func (f LinkFlags) AllowLinkToLink() bool             { return f.Has(FlagAllowLinkToLink) }
func (f LinkFlags) UnaliasOnSave() bool               { return f.Has(FlagUnaliasOnSave) }
func (f LinkFlags) PreferEnvironmentPath() bool       { return f.Has(FlagPreferEnvironmentPath) }
func (f LinkFlags) KeepLocalIDListForUNCTarget() bool { return f.Has(FlagKeepLocalIDListForUNCTarget) }

// Names returns the names of the set bits in bit order. Bits above the
// documented range are reported as "0x%08x".
func (f LinkFlags) Names() []string {
	var out []string
	for i, name := range linkFlagNames {
		if f&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	if rest := uint32(f) &^ (1<<uint(len(linkFlagNames)) - 1); rest != 0 {
		out = append(out, fmt.Sprintf("0x%08x", rest))
	}
	return out
}

// FileAttributes is the raw FileAttributes bitfield of the link target.
type FileAttributes uint32

// FileAttributes bits.
const (
	AttrReadOnly          FileAttributes = 0x00000001
	AttrHidden            FileAttributes = 0x00000002
	AttrSystem            FileAttributes = 0x00000004
	AttrReserved1         FileAttributes = 0x00000008
	AttrDirectory         FileAttributes = 0x00000010
	AttrArchive           FileAttributes = 0x00000020
	AttrReserved2         FileAttributes = 0x00000040
	AttrNormal            FileAttributes = 0x00000080
	AttrTemporary         FileAttributes = 0x00000100
	AttrSparseFile        FileAttributes = 0x00000200
	AttrReparsePoint      FileAttributes = 0x00000400
	AttrCompressed        FileAttributes = 0x00000800
	AttrOffline           FileAttributes = 0x00001000
	AttrNotContentIndexed FileAttributes = 0x00002000
	AttrEncrypted         FileAttributes = 0x00004000
)

var fileAttributeNames = [...]string{
	"ReadOnly", "Hidden", "System", "Reserved1", "Directory", "Archive",
	"Reserved2", "Normal", "Temporary", "SparseFile", "ReparsePoint",
	"Compressed", "Offline", "NotContentIndexed", "Encrypted",
}

func (a FileAttributes) Has(mask FileAttributes) bool { return a&mask == mask }

func (a FileAttributes) ReadOnly() bool          { return a.Has(AttrReadOnly) }
func (a FileAttributes) Hidden() bool            { return a.Has(AttrHidden) }
func (a FileAttributes) System() bool            { return a.Has(AttrSystem) }
func (a FileAttributes) Directory() bool         { return a.Has(AttrDirectory) }
func (a FileAttributes) Archive() bool           { return a.Has(AttrArchive) }
func (a FileAttributes) Normal() bool            { return a.Has(AttrNormal) }
func (a FileAttributes) Temporary() bool         { return a.Has(AttrTemporary) }
func (a FileAttributes) SparseFile() bool        { return a.Has(AttrSparseFile) }
func (a FileAttributes) ReparsePoint() bool      { return a.Has(AttrReparsePoint) }
func (a FileAttributes) Compressed() bool        { return a.Has(AttrCompressed) }
func (a FileAttributes) Offline() bool           { return a.Has(AttrOffline) }
func (a FileAttributes) NotContentIndexed() bool { return a.Has(AttrNotContentIndexed) }
func (a FileAttributes) Encrypted() bool         { return a.Has(AttrEncrypted) }

// Names returns the names of the set attribute bits.
func (a FileAttributes) Names() []string {
	var out []string
	for i, name := range fileAttributeNames {
		if a&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	if rest := uint32(a) &^ (1<<uint(len(fileAttributeNames)) - 1); rest != 0 {
		out = append(out, fmt.Sprintf("0x%08x", rest))
	}
	return out
}

// ShowCommand is the window state requested when the target is launched.
type ShowCommand uint32

const (
	ShowNormal      ShowCommand = 0x1
	ShowMaximized   ShowCommand = 0x3
	ShowMinNoActive ShowCommand = 0x7
)

func (s ShowCommand) String() string {
	switch s {
	case ShowNormal:
		return "SW_SHOWNORMAL"
	case ShowMaximized:
		return "SW_SHOWMAXIMIZED"
	case ShowMinNoActive:
		return "SW_SHOWMINNOACTIVE"
	default:
		return fmt.Sprintf("0x%08x", uint32(s))
	}
}

// HotKey packs a virtual key code (low byte) and modifier mask (high byte).
type HotKey uint16

// HotKey modifier bits.
const (
	HotKeyShift   = 0x01
	HotKeyControl = 0x02
	HotKeyAlt     = 0x04
)

func (h HotKey) Key() uint8       { return uint8(h) }
func (h HotKey) Modifiers() uint8 { return uint8(h >> 8) }
func (h HotKey) Shift() bool      { return h.Modifiers()&HotKeyShift != 0 }
func (h HotKey) Control() bool    { return h.Modifiers()&HotKeyControl != 0 }
func (h HotKey) Alt() bool        { return h.Modifiers()&HotKeyAlt != 0 }

func (h HotKey) String() string {
	if h == 0 {
		return "none"
	}
	s := ""
	if h.Control() {
		s += "Ctrl+"
	}
	if h.Shift() {
		s += "Shift+"
	}
	if h.Alt() {
		s += "Alt+"
	}
	k := h.Key()
	switch {
	case k >= '0' && k <= '9', k >= 'A' && k <= 'Z':
		return s + string(rune(k))
	case k >= 0x70 && k <= 0x87:
		return fmt.Sprintf("%sF%d", s, k-0x70+1)
	case k == 0x90:
		return s + "NumLock"
	case k == 0x91:
		return s + "ScrollLock"
	default:
		return fmt.Sprintf("%s0x%02x", s, k)
	}
}

// Header is the decoded 76-byte shell link header. Every field is kept as
// stored so Bytes reproduces the input exactly.
type Header struct {
	Size        uint32
	CLSID       GUID
	Flags       LinkFlags
	Attributes  FileAttributes
	Creation    Filetime
	Access      Filetime
	Write       Filetime
	FileSize    uint32
	IconIndex   int32
	ShowCommand ShowCommand
	HotKey      HotKey
	Reserved1   uint16
	Reserved2   uint32
	Reserved3   uint32
}

// ParseHeader decodes the header from b, which must hold at least HeaderSize
// bytes. The size field and class identifier gate everything else.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, types.Truncated(SectionHeader, 0, HeaderSize, int64(len(b)))
	}
	var h Header
	h.Size = buf.U32At(b, HeaderSizeOffset)
	if h.Size != HeaderSize {
		e := types.Formatf(SectionHeader, HeaderSizeOffset, "header size 0x%x, want 0x%x", h.Size, HeaderSize)
		e.Expected, e.Actual = HeaderSize, int64(h.Size)
		return Header{}, e
	}
	copy(h.CLSID[:], b[HeaderCLSIDOffset:HeaderCLSIDOffset+GUIDSize])
	if h.CLSID != LinkCLSID {
		return Header{}, types.Formatf(SectionHeader, HeaderCLSIDOffset, "class identifier %s is not a shell link", h.CLSID)
	}
	h.Flags = LinkFlags(buf.U32At(b, HeaderFlagsOffset))
	h.Attributes = FileAttributes(buf.U32At(b, HeaderAttributesOffset))
	h.Creation = Filetime(buf.U64At(b, HeaderCreationOffset))
	h.Access = Filetime(buf.U64At(b, HeaderAccessOffset))
	h.Write = Filetime(buf.U64At(b, HeaderWriteOffset))
	h.FileSize = buf.U32At(b, HeaderFileSizeOffset)
	h.IconIndex = buf.I32LE(b[HeaderIconIndexOffset:])
	h.ShowCommand = ShowCommand(buf.U32At(b, HeaderShowCommandOffset))
	h.HotKey = HotKey(buf.U16At(b, HeaderHotKeyOffset))
	h.Reserved1 = buf.U16At(b, HeaderReserved1Offset)
	h.Reserved2 = buf.U32At(b, HeaderReserved2Offset)
	h.Reserved3 = buf.U32At(b, HeaderReserved3Offset)
	return h, nil
}

// AppendBytes appends the on-disk form of h to dst.
func (h Header) AppendBytes(dst []byte) []byte {
	var b [HeaderSize]byte
	binary.LittleEndian.PutUint32(b[HeaderSizeOffset:], h.Size)
	copy(b[HeaderCLSIDOffset:], h.CLSID[:])
	binary.LittleEndian.PutUint32(b[HeaderFlagsOffset:], uint32(h.Flags))
	binary.LittleEndian.PutUint32(b[HeaderAttributesOffset:], uint32(h.Attributes))
	binary.LittleEndian.PutUint64(b[HeaderCreationOffset:], uint64(h.Creation))
	binary.LittleEndian.PutUint64(b[HeaderAccessOffset:], uint64(h.Access))
	binary.LittleEndian.PutUint64(b[HeaderWriteOffset:], uint64(h.Write))
	binary.LittleEndian.PutUint32(b[HeaderFileSizeOffset:], h.FileSize)
	binary.LittleEndian.PutUint32(b[HeaderIconIndexOffset:], uint32(h.IconIndex))
	binary.LittleEndian.PutUint32(b[HeaderShowCommandOffset:], uint32(h.ShowCommand))
	binary.LittleEndian.PutUint16(b[HeaderHotKeyOffset:], uint16(h.HotKey))
	binary.LittleEndian.PutUint16(b[HeaderReserved1Offset:], h.Reserved1)
	binary.LittleEndian.PutUint32(b[HeaderReserved2Offset:], h.Reserved2)
	binary.LittleEndian.PutUint32(b[HeaderReserved3Offset:], h.Reserved3)
	return append(dst, b[:]...)
}

// Bytes returns the 76-byte on-disk form of h.
func (h Header) Bytes() []byte {
	return h.AppendBytes(make([]byte, 0, HeaderSize))
}
