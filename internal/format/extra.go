package format

import (
	"fmt"
	"time"

	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// SectionExtraData names the extra data block chain in errors and audit output.
const SectionExtraData = "extra data"

// Signature is the 4-byte tag identifying an extra data block.
type Signature uint32

// Documented block signatures.
const (
	SigEnvironmentVariables Signature = 0xA0000001
	SigConsole              Signature = 0xA0000002
	SigTracker              Signature = 0xA0000003
	SigConsoleFE            Signature = 0xA0000004
	SigSpecialFolder        Signature = 0xA0000005
	SigDarwin               Signature = 0xA0000006
	SigIconEnvironment      Signature = 0xA0000007
	SigShim                 Signature = 0xA0000008
	SigPropertyStore        Signature = 0xA0000009
	SigKnownFolder          Signature = 0xA000000B
	SigVistaIDList          Signature = 0xA000000C
)

var signatureNames = map[Signature]string{
	SigEnvironmentVariables: "EnvironmentVariableDataBlock",
	SigConsole:              "ConsoleDataBlock",
	SigTracker:              "TrackerDataBlock",
	SigConsoleFE:            "ConsoleFEDataBlock",
	SigSpecialFolder:        "SpecialFolderDataBlock",
	SigDarwin:               "DarwinDataBlock",
	SigIconEnvironment:      "IconEnvironmentDataBlock",
	SigShim:                 "ShimDataBlock",
	SigPropertyStore:        "PropertyStoreDataBlock",
	SigKnownFolder:          "KnownFolderDataBlock",
	SigVistaIDList:          "VistaAndAboveIDListDataBlock",
}

// Known reports whether s has a typed decoder.
func (s Signature) Known() bool {
	_, ok := signatureNames[s]
	return ok
}

func (s Signature) String() string {
	if name, ok := signatureNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", uint32(s))
}

// BlockData is the typed or opaque payload of one extra data block.
type BlockData interface {
	BlockSignature() Signature
}

// Block is one framed extra data block.
type Block struct {
	Offset    int64 // absolute offset of the size field
	Size      uint32
	Signature Signature
	Data      BlockData
}

// PayloadOffset returns the absolute offset of the payload.
func (b Block) PayloadOffset() int64 { return b.Offset + ExtraBlockHeaderSize }

// OpaqueBlock retains a block whose signature has no decoder.
type OpaqueBlock struct {
	Sig  Signature
	Data []byte
}

func (b *OpaqueBlock) BlockSignature() Signature { return b.Sig }

// TargetStrings is the ANSI/Unicode pair shared by the environment,
// darwin and icon environment blocks. Both are fixed-width NUL-padded fields.
type TargetStrings struct {
	ANSI    EncodedString
	Unicode EncodedString
}

// Text returns the Unicode target when set, otherwise the ANSI one.
func (t TargetStrings) Text() (string, error) {
	if len(t.Unicode.Raw) > 0 {
		return t.Unicode.Text()
	}
	return t.ANSI.Text()
}

type EnvironmentVariablesBlock struct{ TargetStrings }

func (*EnvironmentVariablesBlock) BlockSignature() Signature { return SigEnvironmentVariables }

// DarwinBlock carries a Windows Installer application descriptor.
type DarwinBlock struct{ TargetStrings }

func (*DarwinBlock) BlockSignature() Signature { return SigDarwin }

type IconEnvironmentBlock struct{ TargetStrings }

func (*IconEnvironmentBlock) BlockSignature() Signature { return SigIconEnvironment }

// ConsoleBlock holds the console window settings of a console application link.
type ConsoleBlock struct {
	FillAttributes         uint16
	PopupFillAttributes    uint16
	ScreenBufferSizeX      int16
	ScreenBufferSizeY      int16
	WindowSizeX            int16
	WindowSizeY            int16
	WindowOriginX          int16
	WindowOriginY          int16
	Unused1                uint32
	Unused2                uint32
	FontSize               uint32
	FontFamily             uint32
	FontWeight             uint32
	FaceName               EncodedString
	CursorSize             uint32
	FullScreen             uint32
	QuickEdit              uint32
	InsertMode             uint32
	AutoPosition           uint32
	HistoryBufferSize      uint32
	NumberOfHistoryBuffers uint32
	HistoryNoDup           uint32
	ColorTable             [16]uint32
}

func (*ConsoleBlock) BlockSignature() Signature { return SigConsole }

// TrackerBlock is the distributed link tracking data of the target.
type TrackerBlock struct {
	Length           uint32
	Version          uint32
	MachineID        EncodedString
	DroidVolume      GUID
	DroidFile        GUID
	BirthDroidVolume GUID
	BirthDroidFile   GUID
}

func (*TrackerBlock) BlockSignature() Signature { return SigTracker }

// FileTimestamp returns the creation time embedded in a version 1 droid
// file identifier. ok is false for other UUID versions.
func (t *TrackerBlock) FileTimestamp() (time.Time, bool) {
	u := t.DroidFile.UUID()
	if u.Version() != 1 {
		return time.Time{}, false
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec).UTC(), true
}

// MACAddress returns the node field of a version 1 droid file identifier,
// which records the network adapter of the machine that created the target.
func (t *TrackerBlock) MACAddress() (string, bool) {
	u := t.DroidFile.UUID()
	if u.Version() != 1 {
		return "", false
	}
	n := u.NodeID()
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", n[0], n[1], n[2], n[3], n[4], n[5]), true
}

type ConsoleFEBlock struct {
	CodePage uint32
}

func (*ConsoleFEBlock) BlockSignature() Signature { return SigConsoleFE }

// SpecialFolderBlock locates a CSIDL folder inside the target ID list.
type SpecialFolderBlock struct {
	FolderID uint32
	Offset   uint32
}

func (*SpecialFolderBlock) BlockSignature() Signature { return SigSpecialFolder }

// KnownFolderBlock locates a known folder inside the target ID list.
type KnownFolderBlock struct {
	FolderID GUID
	Offset   uint32
}

func (*KnownFolderBlock) BlockSignature() Signature { return SigKnownFolder }

type ShimBlock struct {
	LayerName EncodedString
}

func (*ShimBlock) BlockSignature() Signature { return SigShim }

type VistaIDListBlock struct {
	IDList IDList
}

func (*VistaIDListBlock) BlockSignature() Signature { return SigVistaIDList }

// DecodeBlock decodes the payload of a block with signature sig. payload
// excludes the 8-byte block header and base is its absolute offset.
// Unknown signatures yield an *OpaqueBlock. A known block whose payload is
// shorter than its fixed layout is ErrKindFormat.
func DecodeBlock(sig Signature, payload []byte, base int64, opts types.Options) (BlockData, error) {
	need := 0
	switch sig {
	case SigEnvironmentVariables, SigDarwin, SigIconEnvironment:
		need = EnvironmentPayloadSize
	case SigConsole:
		need = ConsolePayloadSize
	case SigTracker:
		need = TrackerPayloadSize
	case SigConsoleFE:
		need = ConsoleFEPayloadSize
	case SigSpecialFolder:
		need = SpecialFolderPayloadSize
	case SigKnownFolder:
		need = KnownFolderPayloadSize
	case SigShim:
		need = ShimMinPayloadSize
	case SigPropertyStore:
		need = PropertyStoreMinPayload
	case SigVistaIDList:
		need = VistaIDListMinPayloadSize
	default:
		return &OpaqueBlock{Sig: sig, Data: payload}, nil
	}
	if len(payload) < need {
		e := types.Formatf(SectionExtraData, base-ExtraBlockHeaderSize,
			"%s payload %d bytes, need %d", sig, len(payload), need)
		e.Expected, e.Actual = int64(need), int64(len(payload))
		return nil, e
	}

	switch sig {
	case SigEnvironmentVariables:
		return &EnvironmentVariablesBlock{decodeTargetStrings(payload, base, opts.Codepage)}, nil
	case SigDarwin:
		return &DarwinBlock{decodeTargetStrings(payload, base, opts.Codepage)}, nil
	case SigIconEnvironment:
		return &IconEnvironmentBlock{decodeTargetStrings(payload, base, opts.Codepage)}, nil
	case SigConsole:
		return decodeConsole(payload, base), nil
	case SigTracker:
		return decodeTracker(payload, base, opts.Codepage), nil
	case SigConsoleFE:
		return &ConsoleFEBlock{CodePage: buf.U32LE(payload)}, nil
	case SigSpecialFolder:
		return &SpecialFolderBlock{
			FolderID: buf.U32LE(payload),
			Offset:   buf.U32At(payload, 4),
		}, nil
	case SigKnownFolder:
		return &KnownFolderBlock{
			FolderID: GUIDAt(payload, 0),
			Offset:   buf.U32At(payload, GUIDSize),
		}, nil
	case SigShim:
		return &ShimBlock{LayerName: EncodedString{
			Section: SectionExtraData, Offset: base, Raw: buf.TrimNUL16(payload), Wide: true,
		}}, nil
	case SigPropertyStore:
		ps, err := ParsePropertyStore(payload, base, opts.MaxPropertyValues, opts.Codepage)
		if err != nil {
			return nil, err
		}
		return ps, nil
	default: // SigVistaIDList
		l, err := ParseIDList(payload, base, SectionExtraData)
		if err != nil {
			return nil, err
		}
		return &VistaIDListBlock{IDList: l}, nil
	}
}

func decodeTargetStrings(p []byte, base int64, cp types.Codepage) TargetStrings {
	return TargetStrings{
		ANSI: EncodedString{
			Section: SectionExtraData, Offset: base,
			Raw: buf.TrimNUL(p[:EnvironmentANSISize]), Codepage: cp,
		},
		Unicode: EncodedString{
			Section: SectionExtraData, Offset: base + EnvironmentANSISize,
			Raw: buf.TrimNUL16(p[EnvironmentANSISize : EnvironmentANSISize+EnvironmentUnicodeSize]), Wide: true,
		},
	}
}

// Console payload offsets.
const (
	consoleFaceNameOffset   = 36
	consoleCursorOffset     = consoleFaceNameOffset + ConsoleFaceNameSize
	consoleColorTableOffset = 132
)

func decodeConsole(p []byte, base int64) *ConsoleBlock {
	u16 := func(off int) uint16 { return buf.U16At(p, off) }
	u32 := func(off int) uint32 { return buf.U32At(p, off) }
	c := &ConsoleBlock{
		FillAttributes:      u16(0),
		PopupFillAttributes: u16(2),
		ScreenBufferSizeX:   int16(u16(4)),
		ScreenBufferSizeY:   int16(u16(6)),
		WindowSizeX:         int16(u16(8)),
		WindowSizeY:         int16(u16(10)),
		WindowOriginX:       int16(u16(12)),
		WindowOriginY:       int16(u16(14)),
		Unused1:             u32(16),
		Unused2:             u32(20),
		FontSize:            u32(24),
		FontFamily:          u32(28),
		FontWeight:          u32(32),
		FaceName: EncodedString{
			Section: SectionExtraData, Offset: base + consoleFaceNameOffset,
			Raw:  buf.TrimNUL16(p[consoleFaceNameOffset:consoleCursorOffset]),
			Wide: true,
		},
		CursorSize:             u32(consoleCursorOffset),
		FullScreen:             u32(consoleCursorOffset + 4),
		QuickEdit:              u32(consoleCursorOffset + 8),
		InsertMode:             u32(consoleCursorOffset + 12),
		AutoPosition:           u32(consoleCursorOffset + 16),
		HistoryBufferSize:      u32(consoleCursorOffset + 20),
		NumberOfHistoryBuffers: u32(consoleCursorOffset + 24),
		HistoryNoDup:           u32(consoleCursorOffset + 28),
	}
	for i := range c.ColorTable {
		c.ColorTable[i] = u32(consoleColorTableOffset + 4*i)
	}
	return c
}

func decodeTracker(p []byte, base int64, cp types.Codepage) *TrackerBlock {
	const machineOff = 8
	ids := machineOff + TrackerMachineIDSize
	return &TrackerBlock{
		Length:  buf.U32LE(p),
		Version: buf.U32At(p, 4),
		MachineID: EncodedString{
			Section: SectionExtraData, Offset: base + machineOff,
			Raw: buf.TrimNUL(p[machineOff:ids]), Codepage: cp,
		},
		DroidVolume:      GUIDAt(p, ids),
		DroidFile:        GUIDAt(p, ids+GUIDSize),
		BirthDroidVolume: GUIDAt(p, ids+2*GUIDSize),
		BirthDroidFile:   GUIDAt(p, ids+3*GUIDSize),
	}
}
