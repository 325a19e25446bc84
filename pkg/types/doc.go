// Package types holds the vocabulary shared by the shortcut decoders and the
// public facade: typed errors with stable categories, decode options and
// limits, and the code page enumeration used for 8-bit strings.
//
// Design goals:
//   - Typed errors callers can branch on without parsing text.
//   - Every error carries the section it came from plus the file offset and
//     the expected vs. actual sizes that tripped the check.
//   - Options are plain values; no process-wide state.
package types
