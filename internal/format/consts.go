// Package format houses low-level decoders for the Windows Shortcut (.lnk)
// file format. Every decoder works on a byte slice whose length has already
// been validated by the caller, never indexes outside that slice, and reports
// failures as *types.Error values carrying absolute file offsets.
package format

// ============================================================================
// Shell Link Header
// ============================================================================

// Header field offsets (little-endian).
const (
	HeaderSizeOffset        = 0x00 // DWORD, always 0x4C
	HeaderCLSIDOffset       = 0x04 // GUID 00021401-0000-0000-C000-000000000046
	HeaderFlagsOffset       = 0x14 // DWORD LinkFlags
	HeaderAttributesOffset  = 0x18 // DWORD FileAttributes
	HeaderCreationOffset    = 0x1C // FILETIME
	HeaderAccessOffset      = 0x24 // FILETIME
	HeaderWriteOffset       = 0x2C // FILETIME
	HeaderFileSizeOffset    = 0x34 // DWORD target size (low 32 bits)
	HeaderIconIndexOffset   = 0x38 // signed DWORD
	HeaderShowCommandOffset = 0x3C // DWORD SW_* value
	HeaderHotKeyOffset      = 0x40 // WORD, low byte key, high byte modifiers
	HeaderReserved1Offset   = 0x42 // WORD
	HeaderReserved2Offset   = 0x44 // DWORD
	HeaderReserved3Offset   = 0x48 // DWORD

	// HeaderSize is both the fixed header length and the value its first
	// field must hold.
	HeaderSize = 0x4C
)

// LinkCLSID is the on-disk byte sequence of the shell link class identifier.
var LinkCLSID = GUID{
	0x01, 0x14, 0x02, 0x00,
	0x00, 0x00,
	0x00, 0x00,
	0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
}

// ============================================================================
// Link Target ID List
// ============================================================================

const (
	// IDListSizeFieldLen is the length of the IDListSize prefix.
	IDListSizeFieldLen = 2

	// ItemIDSizeFieldLen is the length of each ItemIDSize prefix. The prefix
	// counts itself, so a non-terminal item is at least this long.
	ItemIDSizeFieldLen = 2
)

// ============================================================================
// Link Info
// ============================================================================

// LinkInfo field offsets relative to the start of the structure.
const (
	LinkInfoSizeOffset                    = 0x00
	LinkInfoHeaderSizeOffset              = 0x04
	LinkInfoFlagsOffset                   = 0x08
	LinkInfoVolumeIDOffset                = 0x0C
	LinkInfoLocalBasePathOffset           = 0x10
	LinkInfoNetworkLinkOffset             = 0x14
	LinkInfoCommonPathSuffixOffset        = 0x18
	LinkInfoLocalBasePathUnicodeOffset    = 0x1C // present when header size >= 0x24
	LinkInfoCommonPathSuffixUnicodeOffset = 0x20 // present when header size >= 0x24

	// LinkInfoSizeFieldLen is the length of the LinkInfoSize prefix.
	LinkInfoSizeFieldLen = 4

	// LinkInfoBaseHeaderSize is the header of the original format.
	LinkInfoBaseHeaderSize = 0x1C

	// LinkInfoExtendedHeaderSize is the smallest header carrying the two
	// Unicode offset fields.
	LinkInfoExtendedHeaderSize = 0x24
)

// LinkInfo flag bits.
const (
	LinkInfoVolumeIDAndLocalBasePath               = 0x00000001
	LinkInfoCommonNetworkRelativeLinkAndPathSuffix = 0x00000002
)

// VolumeID field offsets relative to the start of the VolumeID structure.
const (
	VolumeIDSizeOffset         = 0x00
	VolumeIDDriveTypeOffset    = 0x04
	VolumeIDSerialOffset       = 0x08
	VolumeIDLabelOffset        = 0x0C
	VolumeIDLabelUnicodeOffset = 0x10 // present when the label offset is 0x14

	// VolumeIDMinSize is the fixed part preceding the label data.
	VolumeIDMinSize = 0x10

	// VolumeIDUnicodeMarker is the label offset value announcing that a
	// Unicode label offset follows.
	VolumeIDUnicodeMarker = 0x14
)

// CommonNetworkRelativeLink field offsets relative to its own start.
const (
	NetworkLinkSizeOffset              = 0x00
	NetworkLinkFlagsOffset             = 0x04
	NetworkLinkNetNameOffset           = 0x08
	NetworkLinkDeviceNameOffset        = 0x0C
	NetworkLinkProviderTypeOffset      = 0x10
	NetworkLinkNetNameUnicodeOffset    = 0x14 // present when NetNameOffset > 0x14
	NetworkLinkDeviceNameUnicodeOffset = 0x18 // present when NetNameOffset > 0x14

	// NetworkLinkMinSize is the fixed part preceding the name data.
	NetworkLinkMinSize = 0x14

	// NetworkLinkUnicodeMinSize is the fixed part when Unicode offsets exist.
	NetworkLinkUnicodeMinSize = 0x1C
)

// CommonNetworkRelativeLink flag bits.
const (
	NetworkLinkValidDevice  = 0x00000001
	NetworkLinkValidNetType = 0x00000002
)

// ============================================================================
// String Data
// ============================================================================

// StringCountFieldLen is the length of the CountCharacters prefix.
const StringCountFieldLen = 2

// ============================================================================
// Extra Data
// ============================================================================

const (
	// ExtraBlockSizeFieldLen is the length of the BlockSize prefix.
	ExtraBlockSizeFieldLen = 4

	// ExtraBlockSignatureLen is the length of the BlockSignature field.
	ExtraBlockSignatureLen = 4

	// ExtraBlockHeaderSize is the smallest legal BlockSize: the size field
	// plus the signature.
	ExtraBlockHeaderSize = ExtraBlockSizeFieldLen + ExtraBlockSignatureLen
)

// Fixed payload sizes (BlockSize minus the 8-byte block header) of the
// documented blocks. Blocks with variable payloads list their minimum.
const (
	EnvironmentPayloadSize    = 0x314 - ExtraBlockHeaderSize // ANSI[260] + Unicode[520]
	ConsolePayloadSize        = 0xCC - ExtraBlockHeaderSize
	TrackerPayloadSize        = 0x60 - ExtraBlockHeaderSize
	ConsoleFEPayloadSize      = 0x0C - ExtraBlockHeaderSize
	SpecialFolderPayloadSize  = 0x10 - ExtraBlockHeaderSize
	KnownFolderPayloadSize    = 0x1C - ExtraBlockHeaderSize
	ShimMinPayloadSize        = 0x88 - ExtraBlockHeaderSize
	PropertyStoreMinPayload   = 0x0C - ExtraBlockHeaderSize
	VistaIDListMinPayloadSize = 0x0A - ExtraBlockHeaderSize

	// EnvironmentANSISize and EnvironmentUnicodeSize are the fixed widths of
	// the two target fields shared by the environment, darwin and icon blocks.
	EnvironmentANSISize    = 260
	EnvironmentUnicodeSize = 520

	// ConsoleFaceNameSize is the width of the Unicode face name field.
	ConsoleFaceNameSize = 64

	// TrackerMachineIDSize is the width of the NetBIOS machine name field.
	TrackerMachineIDSize = 16
)

// ============================================================================
// Property Store (MS-PROPSTORE)
// ============================================================================

const (
	// PropertyStorageVersion is the "1SPS" magic of a serialized property storage.
	PropertyStorageVersion = 0x53505331

	// PropertyStorageHeaderSize covers StorageSize, Version and FormatID.
	PropertyStorageHeaderSize = 4 + 4 + GUIDSize

	// PropertyIntValueHeaderSize covers ValueSize, Id and Reserved.
	PropertyIntValueHeaderSize = 4 + 4 + 1

	// PropertyNamedValueHeaderSize covers ValueSize, NameSize and Reserved.
	PropertyNamedValueHeaderSize = 4 + 4 + 1

	// TypedValueHeaderSize covers the VARTYPE and its padding.
	TypedValueHeaderSize = 4
)

// PropertyNamedFormatID is the on-disk form of D5CDD505-2E9C-101B-9397-08002B2CF9AE,
// the format identifier whose values are keyed by name instead of integer id.
var PropertyNamedFormatID = GUID{
	0x05, 0xD5, 0xCD, 0xD5,
	0x9C, 0x2E,
	0x1B, 0x10,
	0x93, 0x97, 0x08, 0x00, 0x2B, 0x2C, 0xF9, 0xAE,
}

// GUIDSize is the length of a GUID on disk.
const GUIDSize = 16
