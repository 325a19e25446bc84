// Package audit records the byte ranges consumed while decoding a shortcut.
//
// A Recorder is handed to the decoder for one decode call. Every read of the
// underlying stream adds one Range, in call order. After a successful decode
// the ranges can be checked with Verify (all ranges inside the file, no two
// overlapping) and rendered with WriteTo for the "Offsets read" debug table.
//
// Recording never fails and never influences decoding.
package audit
