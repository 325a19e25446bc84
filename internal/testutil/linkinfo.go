package testutil

import "encoding/binary"

func put32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }

// LocalLinkInfo encodes a local-volume link info structure with header
// size hs (0x1C or at least 0x24). Extended headers also get a Unicode
// copy of the base path.
func LocalLinkInfo(hs int, label, base, suffix string) []byte {
	vol := make([]byte, 0x10)
	put32(vol, 0x04, 3) // DRIVE_FIXED
	put32(vol, 0x08, 0xDEADBEEF)
	put32(vol, 0x0C, 0x10)
	vol = append(vol, CString(label)...)
	put32(vol, 0x00, uint32(len(vol)))

	out := make([]byte, hs)
	volOff := len(out)
	out = append(out, vol...)
	baseOff := len(out)
	out = append(out, CString(base)...)
	suffixOff := len(out)
	out = append(out, CString(suffix)...)
	if hs >= 0x24 {
		put32(out, 0x1C, uint32(len(out)))
		out = append(out, UTF16Z(base)...)
	}
	put32(out, 0x00, uint32(len(out)))
	put32(out, 0x04, uint32(hs))
	put32(out, 0x08, 0x1) // VolumeIDAndLocalBasePath
	put32(out, 0x0C, uint32(volOff))
	put32(out, 0x10, uint32(baseOff))
	put32(out, 0x18, uint32(suffixOff))
	return out
}

// NetworkLinkInfo encodes a network-share link info structure with a
// mapped device name.
func NetworkLinkInfo(share, device, suffix string) []byte {
	nl := make([]byte, 0x14)
	put32(nl, 0x04, 0x3) // ValidDevice | ValidNetType
	put32(nl, 0x10, 0x00020000)
	put32(nl, 0x08, uint32(len(nl)))
	nl = append(nl, CString(share)...)
	put32(nl, 0x0C, uint32(len(nl)))
	nl = append(nl, CString(device)...)
	put32(nl, 0x00, uint32(len(nl)))

	out := make([]byte, 0x1C)
	nlOff := len(out)
	out = append(out, nl...)
	suffixOff := len(out)
	out = append(out, CString(suffix)...)
	put32(out, 0x00, uint32(len(out)))
	put32(out, 0x04, 0x1C)
	put32(out, 0x08, 0x2) // CommonNetworkRelativeLinkAndPathSuffix
	put32(out, 0x14, uint32(nlOff))
	put32(out, 0x18, uint32(suffixOff))
	return out
}

// TrackerPayload encodes a distributed link tracker payload (88 bytes).
func TrackerPayload(machine string, droidVolume, droidFile [16]byte) []byte {
	p := make([]byte, 88)
	put32(p, 0, 0x58)
	copy(p[8:24], machine)
	copy(p[24:], droidVolume[:])
	copy(p[40:], droidFile[:])
	copy(p[56:], droidVolume[:])
	copy(p[72:], droidFile[:])
	return p
}

// EnvironmentPayload encodes the 780-byte ANSI/Unicode target payload shared
// by the environment, darwin and icon environment blocks.
func EnvironmentPayload(target string) []byte {
	p := make([]byte, 260+520)
	copy(p, target)
	copy(p[260:], UTF16(target))
	return p
}
