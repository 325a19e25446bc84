// Package stream provides the byte sources a shortcut is decoded from.
//
// A Source is random-access and read-only: the decoder asks for (offset,
// length) ranges and never writes. Any io.ReaderAt of known size can serve,
// and in-memory buffers and files have ready-made constructors.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/lnkkit/internal/buf"
	"github.com/joshuapare/lnkkit/internal/mmfile"
)

// ErrRange reports a request outside [0, Size()).
var ErrRange = errors.New("stream: range outside source")

// Source is the byte stream contract: ReadAt for (offset, length) reads and
// Size for the total length.
type Source interface {
	io.ReaderAt
	Size() int64
}

// FromBytes wraps an in-memory buffer.
func FromBytes(b []byte) Source {
	return bytes.NewReader(b)
}

// FromReaderAt wraps r, exposing the first size bytes.
func FromReaderAt(r io.ReaderAt, size int64) Source {
	return io.NewSectionReader(r, 0, size)
}

// File is a Source backed by a memory-mapped file.
type File struct {
	m *mmfile.Mapping
	r *bytes.Reader
}

// OpenFile maps the file at path. The caller must Close it.
func OpenFile(path string) (*File, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{m: m, r: bytes.NewReader(m.Data)}, nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) { return f.r.ReadAt(p, off) }

func (f *File) Size() int64 { return f.r.Size() }

// Close releases the mapping. Byte slices returned by ReadRange are copies
// and stay valid.
func (f *File) Close() error {
	f.r = bytes.NewReader(nil)
	return f.m.Close()
}

// ReadRange reads exactly n bytes at off into a new buffer. The range is
// checked against src.Size() before anything is allocated.
func ReadRange(src Source, off, n int64) ([]byte, error) {
	if !buf.Within(off, n, src.Size()) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrRange, off, off+n, src.Size())
	}
	if n == 0 {
		return []byte{}, nil
	}
	p := make([]byte, n)
	read, err := src.ReadAt(p, off)
	if read == len(p) {
		return p, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("stream: read %d of %d bytes at %d: %w", read, n, off, err)
}
