package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat        ErrKind = iota // bad signature/magic, wrong fixed-size field, impossible size
	ErrKindTruncated                    // declared length exceeds the remaining bytes
	ErrKindOutOfBounds                  // an offset or computed range escapes its enclosing structure
	ErrKindEncoding                     // raw bytes could not be decoded to text
	ErrKindResourceLimit                // a configured iteration or count cap was exceeded
	ErrKindNotFound                     // the requested section is absent
	ErrKindState                        // operation invalid for the current decode state
	ErrKindIO                           // the byte stream failed to deliver bytes
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindTruncated:
		return "truncated"
	case ErrKindOutOfBounds:
		return "out-of-bounds"
	case ErrKindEncoding:
		return "encoding"
	case ErrKindResourceLimit:
		return "resource-limit"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindState:
		return "state"
	case ErrKindIO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed decode error. Offset is an absolute file offset (or -1
// when no position applies). Expected and Actual carry the sizes involved in
// a failed size check and are zero otherwise.
type Error struct {
	Kind     ErrKind
	Section  string
	Msg      string
	Offset   int64
	Expected int64
	Actual   int64
	Err      error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Section != "" {
		b.WriteString(e.Section)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset 0x%x", e.Offset)
		if e.Expected != 0 || e.Actual != 0 {
			fmt.Fprintf(&b, ", expected %d, actual %d", e.Expected, e.Actual)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is(err, ErrTruncated) matches any
// truncation error regardless of section or offset.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrFormat        = &Error{Kind: ErrKindFormat, Msg: "malformed shortcut structure", Offset: -1}
	ErrTruncated     = &Error{Kind: ErrKindTruncated, Msg: "truncated shortcut data", Offset: -1}
	ErrOutOfBounds   = &Error{Kind: ErrKindOutOfBounds, Msg: "range outside enclosing structure", Offset: -1}
	ErrEncoding      = &Error{Kind: ErrKindEncoding, Msg: "undecodable string data", Offset: -1}
	ErrResourceLimit = &Error{Kind: ErrKindResourceLimit, Msg: "resource limit exceeded", Offset: -1}
	ErrNotFound      = &Error{Kind: ErrKindNotFound, Msg: "section not present", Offset: -1}
	ErrState         = &Error{Kind: ErrKindState, Msg: "invalid decode state", Offset: -1}
	ErrIO            = &Error{Kind: ErrKindIO, Msg: "byte stream failure", Offset: -1}
)

// KindOf extracts the ErrKind from err. ok is false when err carries no *Error.
func KindOf(err error) (ErrKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// Formatf builds an ErrKindFormat error.
func Formatf(section string, off int64, format string, args ...any) *Error {
	return &Error{Kind: ErrKindFormat, Section: section, Msg: fmt.Sprintf(format, args...), Offset: off}
}

// Truncated reports that want bytes were required at off but only have remain.
func Truncated(section string, off, want, have int64) *Error {
	return &Error{
		Kind:     ErrKindTruncated,
		Section:  section,
		Msg:      "declared length exceeds remaining data",
		Offset:   off,
		Expected: want,
		Actual:   have,
	}
}

// OutOfBounds reports that what, occupying [off, off+length), escapes the
// enclosing region ending at limit.
func OutOfBounds(section, what string, off, length, limit int64) *Error {
	return &Error{
		Kind:     ErrKindOutOfBounds,
		Section:  section,
		Msg:      fmt.Sprintf("%s [%d, %d) exceeds bound %d", what, off, off+length, limit),
		Offset:   off,
		Expected: off + length,
		Actual:   limit,
	}
}

// Encoding wraps a text decoding failure for raw bytes located at off.
func Encoding(section string, off int64, cause error) *Error {
	return &Error{Kind: ErrKindEncoding, Section: section, Msg: "cannot decode string", Offset: off, Err: cause}
}

// ResourceLimit reports that more than limit items were encountered.
func ResourceLimit(section string, off int64, limit int) *Error {
	return &Error{
		Kind:     ErrKindResourceLimit,
		Section:  section,
		Msg:      fmt.Sprintf("more than %d items", limit),
		Offset:   off,
		Expected: int64(limit),
	}
}

// NotFound reports an absent section.
func NotFound(section string) *Error {
	return &Error{Kind: ErrKindNotFound, Section: section, Msg: "not present", Offset: -1}
}

// State reports an operation attempted in the wrong decode state.
func State(msg string) *Error {
	return &Error{Kind: ErrKindState, Msg: msg, Offset: -1}
}

// IO wraps a failure of the underlying byte stream.
func IO(section string, off int64, cause error) *Error {
	return &Error{Kind: ErrKindIO, Section: section, Msg: "read failed", Offset: off, Err: cause}
}
