package format

import (
	"fmt"

	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// SectionLinkInfo names the link info structure in errors and audit output.
const SectionLinkInfo = "link info"

// LinkInfoKind is the location variant selected by the LinkInfo flags.
type LinkInfoKind int

const (
	LinkInfoUnknown LinkInfoKind = iota
	LinkInfoLocalVolume
	LinkInfoNetworkShare
)

func (k LinkInfoKind) String() string {
	switch k {
	case LinkInfoLocalVolume:
		return "local volume"
	case LinkInfoNetworkShare:
		return "network share"
	default:
		return "unknown"
	}
}

// DriveType is the VolumeID drive type.
type DriveType uint32

const (
	DriveUnknown DriveType = iota
	DriveNoRootDir
	DriveRemovable
	DriveFixed
	DriveRemote
	DriveCDROM
	DriveRAMDisk
)

var driveTypeNames = [...]string{
	"DRIVE_UNKNOWN", "DRIVE_NO_ROOT_DIR", "DRIVE_REMOVABLE", "DRIVE_FIXED",
	"DRIVE_REMOTE", "DRIVE_CDROM", "DRIVE_RAMDISK",
}

func (d DriveType) String() string {
	if int(d) < len(driveTypeNames) {
		return driveTypeNames[d]
	}
	return fmt.Sprintf("0x%08x", uint32(d))
}

// NetworkProvider is the WNNC_NET_* provider type of a network share.
type NetworkProvider uint32

var networkProviderNames = map[NetworkProvider]string{
	0x00020000: "WNNC_NET_LANMAN",
	0x001A0000: "WNNC_NET_AVID",
	0x001B0000: "WNNC_NET_DOCUSPACE",
	0x001C0000: "WNNC_NET_MANGOSOFT",
	0x001D0000: "WNNC_NET_SERNET",
	0x001E0000: "WNNC_NET_RIVERFRONT1",
	0x001F0000: "WNNC_NET_RIVERFRONT2",
	0x00200000: "WNNC_NET_DECORB",
	0x00210000: "WNNC_NET_PROTSTOR",
	0x00220000: "WNNC_NET_FJ_REDIR",
	0x00230000: "WNNC_NET_DISTINCT",
	0x00240000: "WNNC_NET_TWINS",
	0x00250000: "WNNC_NET_RDR2SAMPLE",
	0x00260000: "WNNC_NET_CSC",
	0x00270000: "WNNC_NET_3IN1",
	0x00290000: "WNNC_NET_EXTENDNET",
	0x002A0000: "WNNC_NET_STAC",
	0x002B0000: "WNNC_NET_FOXBAT",
	0x002C0000: "WNNC_NET_YAHOO",
	0x002D0000: "WNNC_NET_EXIFS",
	0x002E0000: "WNNC_NET_DAV",
	0x002F0000: "WNNC_NET_KNOWARE",
	0x00300000: "WNNC_NET_OBJECT_DIRE",
	0x00310000: "WNNC_NET_MASFAX",
	0x00320000: "WNNC_NET_HOB_NFS",
	0x00330000: "WNNC_NET_SHIVA",
	0x00340000: "WNNC_NET_IBMAL",
	0x00350000: "WNNC_NET_LOCK",
	0x00360000: "WNNC_NET_TERMSRV",
	0x00370000: "WNNC_NET_SRT",
	0x00380000: "WNNC_NET_QUINCY",
	0x00390000: "WNNC_NET_OPENAFS",
	0x003A0000: "WNNC_NET_AVID1",
	0x003B0000: "WNNC_NET_DFS",
	0x003C0000: "WNNC_NET_KWNP",
	0x003D0000: "WNNC_NET_ZENWORKS",
	0x003E0000: "WNNC_NET_DRIVEONWEB",
	0x003F0000: "WNNC_NET_VMWARE",
	0x00400000: "WNNC_NET_RSFX",
	0x00410000: "WNNC_NET_MFILES",
	0x00420000: "WNNC_NET_MS_NFS",
	0x00430000: "WNNC_NET_GOOGLE",
}

func (p NetworkProvider) String() string {
	if name, ok := networkProviderNames[p]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", uint32(p))
}

// VolumeID describes the volume holding a local target.
type VolumeID struct {
	Offset             int64
	Size               uint32
	DriveType          DriveType
	SerialNumber       uint32
	LabelOffset        uint32
	LabelUnicodeOffset uint32
	Label              EncodedString // Wide when the Unicode offset is used
}

// NetworkLink is the CommonNetworkRelativeLink structure.
type NetworkLink struct {
	Offset                  int64
	Size                    uint32
	Flags                   uint32
	NetNameOffset           uint32
	DeviceNameOffset        uint32
	ProviderType            NetworkProvider
	NetNameUnicodeOffset    uint32
	DeviceNameUnicodeOffset uint32
	NetName                 EncodedString
	DeviceName              *EncodedString
	NetNameUnicode          *EncodedString
	DeviceNameUnicode       *EncodedString
}

func (n *NetworkLink) ValidDevice() bool  { return n.Flags&NetworkLinkValidDevice != 0 }
func (n *NetworkLink) ValidNetType() bool { return n.Flags&NetworkLinkValidNetType != 0 }

// Name returns the share name, preferring the Unicode form.
func (n *NetworkLink) Name() (string, error) {
	if n.NetNameUnicode != nil {
		return n.NetNameUnicode.Text()
	}
	return n.NetName.Text()
}

// Device returns the mapped device name ("Z:"), or "" when none is valid.
func (n *NetworkLink) Device() (string, error) {
	switch {
	case n.DeviceNameUnicode != nil:
		return n.DeviceNameUnicode.Text()
	case n.DeviceName != nil:
		return n.DeviceName.Text()
	default:
		return "", nil
	}
}

// LinkInfo is the decoded link info structure. Offsets fields hold the raw
// relative offsets; the strings and substructures they locate are resolved.
type LinkInfo struct {
	Offset     int64 // absolute offset of the structure
	Size       uint32
	HeaderSize uint32
	Flags      uint32

	VolumeIDOffset                uint32
	LocalBasePathOffset           uint32
	NetworkLinkOffset             uint32
	CommonPathSuffixOffset        uint32
	LocalBasePathUnicodeOffset    uint32
	CommonPathSuffixUnicodeOffset uint32

	Volume                  *VolumeID
	Network                 *NetworkLink
	LocalBasePath           *EncodedString
	CommonPathSuffix        *EncodedString
	LocalBasePathUnicode    *EncodedString
	CommonPathSuffixUnicode *EncodedString
}

func (li *LinkInfo) HasVolume() bool {
	return li.Flags&LinkInfoVolumeIDAndLocalBasePath != 0
}

func (li *LinkInfo) HasNetwork() bool {
	return li.Flags&LinkInfoCommonNetworkRelativeLinkAndPathSuffix != 0
}

// Extended reports whether the header carries the Unicode offset fields.
func (li *LinkInfo) Extended() bool { return li.HeaderSize >= LinkInfoExtendedHeaderSize }

// Kind returns the location variant. A structure flagged for both a volume
// and a network share reports LinkInfoLocalVolume.
func (li *LinkInfo) Kind() LinkInfoKind {
	switch {
	case li.HasVolume():
		return LinkInfoLocalVolume
	case li.HasNetwork():
		return LinkInfoNetworkShare
	default:
		return LinkInfoUnknown
	}
}

// BasePath returns the local base path, preferring the Unicode form.
func (li *LinkInfo) BasePath() (string, error) {
	return preferWide(li.LocalBasePathUnicode, li.LocalBasePath)
}

// Suffix returns the common path suffix, preferring the Unicode form.
func (li *LinkInfo) Suffix() (string, error) {
	return preferWide(li.CommonPathSuffixUnicode, li.CommonPathSuffix)
}

// Path assembles the full target path for either variant.
func (li *LinkInfo) Path() (string, error) {
	suffix, err := li.Suffix()
	if err != nil {
		return "", err
	}
	var base string
	switch li.Kind() {
	case LinkInfoLocalVolume:
		base, err = li.BasePath()
	case LinkInfoNetworkShare:
		base, err = li.Network.Name()
	default:
		return suffix, nil
	}
	if err != nil {
		return "", err
	}
	return joinWindowsPath(base, suffix), nil
}

func joinWindowsPath(base, suffix string) string {
	switch {
	case suffix == "":
		return base
	case base == "":
		return suffix
	case base[len(base)-1] == '\\':
		return base + suffix
	default:
		return base + `\` + suffix
	}
}

func preferWide(wide, narrow *EncodedString) (string, error) {
	switch {
	case wide != nil:
		return wide.Text()
	case narrow != nil:
		return narrow.Text()
	default:
		return "", nil
	}
}

// linkInfoReader resolves offsets inside one structure. limit is the length
// of the structure; base its absolute offset.
type linkInfoReader struct {
	b       []byte
	base    int64
	section string
	cp      types.Codepage
}

func (r *linkInfoReader) oob(what string, off, n int) error {
	return types.OutOfBounds(r.section, what, r.base+int64(off), int64(n), r.base+int64(len(r.b)))
}

// narrow reads a NUL-terminated 8-bit string starting at off. The terminator
// must lie inside the structure.
func (r *linkInfoReader) narrow(what string, off int) (*EncodedString, error) {
	if off < 0 || off >= len(r.b) {
		return nil, r.oob(what, off, 1)
	}
	s, ok := buf.CString(r.b[off:])
	if !ok {
		return nil, r.oob(what, off, len(r.b)-off+1)
	}
	return &EncodedString{Section: r.section, Offset: r.base + int64(off), Raw: s, Codepage: r.cp}, nil
}

// wide reads a NUL-terminated UTF-16LE string starting at off.
func (r *linkInfoReader) wide(what string, off int) (*EncodedString, error) {
	if off < 0 || off >= len(r.b) {
		return nil, r.oob(what, off, 2)
	}
	s, ok := buf.CString16(r.b[off:])
	if !ok {
		return nil, r.oob(what, off, len(r.b)-off+2)
	}
	return &EncodedString{Section: r.section, Offset: r.base + int64(off), Raw: s, Wide: true}, nil
}

// ParseLinkInfo decodes a link info structure. b holds exactly the declared
// structure size, starting with the size field, and base is its absolute
// offset. Header sizes other than 0x1C or at least 0x24 are rejected, and
// every offset must resolve into [HeaderSize, Size).
func ParseLinkInfo(b []byte, base int64, cp types.Codepage) (*LinkInfo, error) {
	if len(b) < LinkInfoBaseHeaderSize {
		return nil, types.Formatf(SectionLinkInfo, base, "structure size %d smaller than minimum %d", len(b), LinkInfoBaseHeaderSize)
	}
	li := &LinkInfo{
		Offset:                 base,
		Size:                   buf.U32At(b, LinkInfoSizeOffset),
		HeaderSize:             buf.U32At(b, LinkInfoHeaderSizeOffset),
		Flags:                  buf.U32At(b, LinkInfoFlagsOffset),
		VolumeIDOffset:         buf.U32At(b, LinkInfoVolumeIDOffset),
		LocalBasePathOffset:    buf.U32At(b, LinkInfoLocalBasePathOffset),
		NetworkLinkOffset:      buf.U32At(b, LinkInfoNetworkLinkOffset),
		CommonPathSuffixOffset: buf.U32At(b, LinkInfoCommonPathSuffixOffset),
	}
	if int64(li.Size) != int64(len(b)) {
		return nil, types.Formatf(SectionLinkInfo, base, "declared size %d does not match structure length %d", li.Size, len(b))
	}

	hs := li.HeaderSize
	switch {
	case hs == LinkInfoBaseHeaderSize:
	case hs >= LinkInfoExtendedHeaderSize && hs <= li.Size:
		li.LocalBasePathUnicodeOffset = buf.U32At(b, LinkInfoLocalBasePathUnicodeOffset)
		li.CommonPathSuffixUnicodeOffset = buf.U32At(b, LinkInfoCommonPathSuffixUnicodeOffset)
	case hs > LinkInfoBaseHeaderSize && hs < LinkInfoExtendedHeaderSize:
		return nil, types.Formatf(SectionLinkInfo, base+LinkInfoHeaderSizeOffset,
			"header size 0x%x too small for the extended header (0x%x)", hs, LinkInfoExtendedHeaderSize)
	default:
		return nil, types.Formatf(SectionLinkInfo, base+LinkInfoHeaderSizeOffset,
			"header size 0x%x invalid for structure size 0x%x", hs, li.Size)
	}

	r := &linkInfoReader{b: b, base: base, section: SectionLinkInfo, cp: cp}
	inBody := func(what string, off uint32) error {
		if off < hs || off >= li.Size {
			return r.oob(what, int(off), 1)
		}
		return nil
	}

	var err error
	if li.HasVolume() {
		if err = inBody("volume id", li.VolumeIDOffset); err != nil {
			return nil, err
		}
		if li.Volume, err = parseVolumeID(r, int(li.VolumeIDOffset)); err != nil {
			return nil, err
		}
		if err = inBody("local base path", li.LocalBasePathOffset); err != nil {
			return nil, err
		}
		if li.LocalBasePath, err = r.narrow("local base path", int(li.LocalBasePathOffset)); err != nil {
			return nil, err
		}
		if li.Extended() && li.LocalBasePathUnicodeOffset != 0 {
			if err = inBody("unicode local base path", li.LocalBasePathUnicodeOffset); err != nil {
				return nil, err
			}
			if li.LocalBasePathUnicode, err = r.wide("unicode local base path", int(li.LocalBasePathUnicodeOffset)); err != nil {
				return nil, err
			}
		}
	}
	if li.HasNetwork() {
		if err = inBody("network link", li.NetworkLinkOffset); err != nil {
			return nil, err
		}
		if li.Network, err = parseNetworkLink(r, int(li.NetworkLinkOffset)); err != nil {
			return nil, err
		}
	}
	if li.CommonPathSuffixOffset != 0 {
		if err = inBody("common path suffix", li.CommonPathSuffixOffset); err != nil {
			return nil, err
		}
		if li.CommonPathSuffix, err = r.narrow("common path suffix", int(li.CommonPathSuffixOffset)); err != nil {
			return nil, err
		}
	}
	if li.Extended() && li.CommonPathSuffixUnicodeOffset != 0 {
		if err = inBody("unicode common path suffix", li.CommonPathSuffixUnicodeOffset); err != nil {
			return nil, err
		}
		if li.CommonPathSuffixUnicode, err = r.wide("unicode common path suffix", int(li.CommonPathSuffixUnicodeOffset)); err != nil {
			return nil, err
		}
	}
	return li, nil
}

func parseVolumeID(r *linkInfoReader, off int) (*VolumeID, error) {
	if !buf.Has(r.b, off, VolumeIDMinSize) {
		return nil, r.oob("volume id header", off, VolumeIDMinSize)
	}
	v := &VolumeID{
		Offset:       r.base + int64(off),
		Size:         buf.U32At(r.b, off+VolumeIDSizeOffset),
		DriveType:    DriveType(buf.U32At(r.b, off+VolumeIDDriveTypeOffset)),
		SerialNumber: buf.U32At(r.b, off+VolumeIDSerialOffset),
		LabelOffset:  buf.U32At(r.b, off+VolumeIDLabelOffset),
	}
	if v.Size < VolumeIDMinSize {
		return nil, types.Formatf(r.section, v.Offset, "volume id size %d smaller than minimum %d", v.Size, VolumeIDMinSize)
	}
	if !buf.Has(r.b, off, int(v.Size)) {
		return nil, r.oob("volume id", off, int(v.Size))
	}
	vr := &linkInfoReader{b: r.b[off : off+int(v.Size)], base: v.Offset, section: r.section, cp: r.cp}

	if v.LabelOffset == VolumeIDUnicodeMarker {
		if v.Size < VolumeIDUnicodeMarker+4 {
			return nil, types.Formatf(r.section, v.Offset, "volume id size %d too small for a unicode label offset", v.Size)
		}
		v.LabelUnicodeOffset = buf.U32At(vr.b, VolumeIDLabelUnicodeOffset)
		if v.LabelUnicodeOffset < VolumeIDUnicodeMarker+4 {
			return nil, vr.oob("unicode volume label", int(v.LabelUnicodeOffset), 2)
		}
		s, err := vr.wide("unicode volume label", int(v.LabelUnicodeOffset))
		if err != nil {
			return nil, err
		}
		v.Label = *s
		return v, nil
	}
	if v.LabelOffset < VolumeIDMinSize {
		return nil, vr.oob("volume label", int(v.LabelOffset), 1)
	}
	s, err := vr.narrow("volume label", int(v.LabelOffset))
	if err != nil {
		return nil, err
	}
	v.Label = *s
	return v, nil
}

func parseNetworkLink(r *linkInfoReader, off int) (*NetworkLink, error) {
	if !buf.Has(r.b, off, NetworkLinkMinSize) {
		return nil, r.oob("network link header", off, NetworkLinkMinSize)
	}
	n := &NetworkLink{
		Offset:           r.base + int64(off),
		Size:             buf.U32At(r.b, off+NetworkLinkSizeOffset),
		Flags:            buf.U32At(r.b, off+NetworkLinkFlagsOffset),
		NetNameOffset:    buf.U32At(r.b, off+NetworkLinkNetNameOffset),
		DeviceNameOffset: buf.U32At(r.b, off+NetworkLinkDeviceNameOffset),
		ProviderType:     NetworkProvider(buf.U32At(r.b, off+NetworkLinkProviderTypeOffset)),
	}
	if n.Size < NetworkLinkMinSize {
		return nil, types.Formatf(r.section, n.Offset, "network link size %d smaller than minimum %d", n.Size, NetworkLinkMinSize)
	}
	if !buf.Has(r.b, off, int(n.Size)) {
		return nil, r.oob("network link", off, int(n.Size))
	}
	nr := &linkInfoReader{b: r.b[off : off+int(n.Size)], base: n.Offset, section: r.section, cp: r.cp}

	fixed := uint32(NetworkLinkMinSize)
	unicode := n.NetNameOffset > NetworkLinkMinSize
	if unicode {
		if n.Size < NetworkLinkUnicodeMinSize {
			return nil, types.Formatf(r.section, n.Offset, "network link size %d too small for unicode name offsets", n.Size)
		}
		fixed = NetworkLinkUnicodeMinSize
		n.NetNameUnicodeOffset = buf.U32At(nr.b, NetworkLinkNetNameUnicodeOffset)
		n.DeviceNameUnicodeOffset = buf.U32At(nr.b, NetworkLinkDeviceNameUnicodeOffset)
	}
	inBody := func(what string, o uint32) error {
		if o < fixed || o >= n.Size {
			return nr.oob(what, int(o), 1)
		}
		return nil
	}

	if err := inBody("net name", n.NetNameOffset); err != nil {
		return nil, err
	}
	s, err := nr.narrow("net name", int(n.NetNameOffset))
	if err != nil {
		return nil, err
	}
	n.NetName = *s
	if n.ValidDevice() {
		if err = inBody("device name", n.DeviceNameOffset); err != nil {
			return nil, err
		}
		if n.DeviceName, err = nr.narrow("device name", int(n.DeviceNameOffset)); err != nil {
			return nil, err
		}
	}
	if unicode {
		if n.NetNameUnicodeOffset != 0 {
			if err = inBody("unicode net name", n.NetNameUnicodeOffset); err != nil {
				return nil, err
			}
			if n.NetNameUnicode, err = nr.wide("unicode net name", int(n.NetNameUnicodeOffset)); err != nil {
				return nil, err
			}
		}
		if n.ValidDevice() && n.DeviceNameUnicodeOffset != 0 {
			if err = inBody("unicode device name", n.DeviceNameUnicodeOffset); err != nil {
				return nil, err
			}
			if n.DeviceNameUnicode, err = nr.wide("unicode device name", int(n.DeviceNameUnicodeOffset)); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}
