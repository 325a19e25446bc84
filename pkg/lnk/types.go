package lnk

import (
	"github.com/google/uuid"

	"github.com/joshuapare/lnkkit/internal/format"
)

// Structure types produced by the decoder.
type (
	Header         = format.Header
	LinkFlags      = format.LinkFlags
	FileAttributes = format.FileAttributes
	ShowCommand    = format.ShowCommand
	HotKey         = format.HotKey
	Filetime       = format.Filetime
	GUID           = format.GUID

	IDList = format.IDList
	ItemID = format.ItemID

	LinkInfo        = format.LinkInfo
	LinkInfoKind    = format.LinkInfoKind
	VolumeID        = format.VolumeID
	DriveType       = format.DriveType
	NetworkLink     = format.NetworkLink
	NetworkProvider = format.NetworkProvider

	StringKind    = format.StringKind
	StringField   = format.StringField
	EncodedString = format.EncodedString

	Signature                 = format.Signature
	Block                     = format.Block
	BlockData                 = format.BlockData
	OpaqueBlock               = format.OpaqueBlock
	TargetStrings             = format.TargetStrings
	EnvironmentVariablesBlock = format.EnvironmentVariablesBlock
	ConsoleBlock              = format.ConsoleBlock
	TrackerBlock              = format.TrackerBlock
	ConsoleFEBlock            = format.ConsoleFEBlock
	SpecialFolderBlock        = format.SpecialFolderBlock
	DarwinBlock               = format.DarwinBlock
	IconEnvironmentBlock      = format.IconEnvironmentBlock
	ShimBlock                 = format.ShimBlock
	PropertyStoreBlock        = format.PropertyStoreBlock
	PropertyStorage           = format.PropertyStorage
	PropertyValue             = format.PropertyValue
	VarType                   = format.VarType
	KnownFolderBlock          = format.KnownFolderBlock
	VistaIDListBlock          = format.VistaIDListBlock
)

// LinkFlags bits.
const (
	FlagHasLinkTargetIDList         = format.FlagHasLinkTargetIDList
	FlagHasLinkInfo                 = format.FlagHasLinkInfo
	FlagHasName                     = format.FlagHasName
	FlagHasRelativePath             = format.FlagHasRelativePath
	FlagHasWorkingDir               = format.FlagHasWorkingDir
	FlagHasArguments                = format.FlagHasArguments
	FlagHasIconLocation             = format.FlagHasIconLocation
	FlagIsUnicode                   = format.FlagIsUnicode
	FlagForceNoLinkInfo             = format.FlagForceNoLinkInfo
	FlagHasExpString                = format.FlagHasExpString
	FlagRunInSeparateProcess        = format.FlagRunInSeparateProcess
	FlagHasDarwinID                 = format.FlagHasDarwinID
	FlagRunAsUser                   = format.FlagRunAsUser
	FlagHasExpIcon                  = format.FlagHasExpIcon
	FlagNoPidlAlias                 = format.FlagNoPidlAlias
	FlagRunWithShimLayer            = format.FlagRunWithShimLayer
	FlagForceNoLinkTrack            = format.FlagForceNoLinkTrack
	FlagEnableTargetMetadata        = format.FlagEnableTargetMetadata
	FlagDisableLinkPathTracking     = format.FlagDisableLinkPathTracking
	FlagDisableKnownFolderTracking  = format.FlagDisableKnownFolderTracking
	FlagDisableKnownFolderAlias     = format.FlagDisableKnownFolderAlias
	FlagAllowLinkToLink             = format.FlagAllowLinkToLink
	FlagUnaliasOnSave               = format.FlagUnaliasOnSave
	FlagPreferEnvironmentPath       = format.FlagPreferEnvironmentPath
	FlagKeepLocalIDListForUNCTarget = format.FlagKeepLocalIDListForUNCTarget
)

// String data kinds in file order.
const (
	Description          = format.StringDescription
	RelativePath         = format.StringRelativePath
	WorkingDirectory     = format.StringWorkingDirectory
	CommandLineArguments = format.StringCommandLineArguments
	IconLocation         = format.StringIconLocation
)

// Link info variants.
const (
	LinkInfoUnknown      = format.LinkInfoUnknown
	LinkInfoLocalVolume  = format.LinkInfoLocalVolume
	LinkInfoNetworkShare = format.LinkInfoNetworkShare
)

// Extra data block signatures with typed decoders.
const (
	SigEnvironmentVariables = format.SigEnvironmentVariables
	SigConsole              = format.SigConsole
	SigTracker              = format.SigTracker
	SigConsoleFE            = format.SigConsoleFE
	SigSpecialFolder        = format.SigSpecialFolder
	SigDarwin               = format.SigDarwin
	SigIconEnvironment      = format.SigIconEnvironment
	SigShim                 = format.SigShim
	SigPropertyStore        = format.SigPropertyStore
	SigKnownFolder          = format.SigKnownFolder
	SigVistaIDList          = format.SigVistaIDList
)

// HeaderSize is the fixed length of the shell link header.
const HeaderSize = format.HeaderSize

// EncodeHeader returns the 76-byte on-disk form of h. For a decoded header
// the result equals the input bytes.
func EncodeHeader(h Header) []byte { return h.Bytes() }

// GUIDFromUUID returns the on-disk byte order of u.
func GUIDFromUUID(u uuid.UUID) GUID { return format.GUIDFromUUID(u) }
