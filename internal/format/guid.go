package format

import (
	"strings"

	"github.com/google/uuid"
)

// GUID is a Windows GUID in its on-disk byte order: the first three fields
// are little-endian, the final eight bytes are stored as-is.
type GUID [GUIDSize]byte

// GUIDAt copies a GUID out of b at off. The caller guarantees the bounds.
func GUIDAt(b []byte, off int) GUID {
	var g GUID
	copy(g[:], b[off:off+GUIDSize])
	return g
}

// UUID returns the RFC 4122 form of g.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u
}

// GUIDFromUUID converts an RFC 4122 UUID to on-disk byte order.
func GUIDFromUUID(u uuid.UUID) GUID {
	var g GUID
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:], u[8:])
	return g
}

// IsZero reports whether every byte of g is zero.
func (g GUID) IsZero() bool { return g == GUID{} }

// String renders g as upper-case hex groups without braces.
func (g GUID) String() string {
	return strings.ToUpper(g.UUID().String())
}

// MarshalText renders g for JSON and YAML output.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
