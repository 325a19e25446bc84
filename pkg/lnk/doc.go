/*
Package lnk decodes Windows Shortcut (.lnk) files for forensic use.

# Quick Start

Decode a file from disk:

	f, err := lnk.Open("evidence/report.lnk", types.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	target, _ := f.Target()
	fmt.Println(target)

Decode bytes already in memory:

	f, err := lnk.Parse(data, types.Options{Codepage: types.CodepageShiftJIS})

# Sections

A shortcut is a fixed 76-byte header followed by optional sections whose
presence is announced by header flags: the target ID list, the link info
structure and five string data fields. An open-ended chain of extra data
blocks follows. Accessors for absent sections return an error of kind
types.ErrKindNotFound rather than an empty value:

	li, err := f.LinkInfo()
	if errors.Is(err, types.ErrNotFound) {
	    // no link info in this file
	}

Extra data blocks are yielded in file order with their typed payload.
Signatures without a decoder come back as *OpaqueBlock:

	for sig, data := range f.Blocks() {
	    if tr, ok := data.(*lnk.TrackerBlock); ok {
	        fmt.Println(sig, tr.MachineID)
	    }
	}

# Offset Audit

Every byte range read from the source is recorded. Offsets returns the
ranges in read order, and audit.Verify checks that they stay within the
file and never overlap.

# Errors

Structural failures abort the decode and are returned as *types.Error with
the section, absolute offset and, for size checks, expected and actual
lengths. String text that cannot be decoded is reported only by the text
accessor; the raw bytes stay available.

# Thread Safety

A File is not safe for concurrent use. Independent files may be decoded in
parallel; the decoder holds no package-level state.
*/
package lnk
