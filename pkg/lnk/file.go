package lnk

import (
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/joshuapare/lnkkit/internal/format"
	"github.com/joshuapare/lnkkit/pkg/audit"
	"github.com/joshuapare/lnkkit/pkg/stream"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// State is the decode lifecycle of a File.
type State int

const (
	StateUnopened State = iota
	StateDecoding
	StateDecoded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateDecoding:
		return "decoding"
	case StateDecoded:
		return "decoded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// File is a decoded shortcut. It is immutable once Decode succeeds.
//
// NOT thread-safe.
type File struct {
	opts  types.Options
	state State
	err   error
	size  int64

	header   Header
	idList   *IDList
	linkInfo *LinkInfo
	strings  [len(format.StringKinds)]*StringField
	blocks   []Block
	trailing int64
	rec      *audit.Recorder
}

// New returns an unopened File that will decode with opts.
func New(opts types.Options) *File {
	return &File{opts: opts.WithDefaults()}
}

// Decode decodes src into a new File.
func Decode(src stream.Source, opts types.Options) (*File, error) {
	f := New(opts)
	if err := f.Decode(src); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes an in-memory shortcut.
func Parse(data []byte, opts types.Options) (*File, error) {
	return Decode(stream.FromBytes(data), opts)
}

// Open maps the file at path, decodes it and releases the mapping. The
// returned File holds copies of everything it read.
func Open(path string, opts types.Options) (*File, error) {
	src, err := stream.OpenFile(path)
	if err != nil {
		return nil, types.IO("open", -1, err)
	}
	defer src.Close()
	return Decode(src, opts)
}

// Decode runs the single decode pass over src. It is valid only on an
// unopened File or one whose previous decode failed; a failed File is
// reset first.
func (f *File) Decode(src stream.Source) error {
	switch f.state {
	case StateUnopened, StateFailed:
	default:
		return types.State(fmt.Sprintf("decode on %s file", f.state))
	}
	f.opts = f.opts.WithDefaults()
	if err := f.opts.Validate(); err != nil {
		return err
	}

	*f = File{opts: f.opts, state: StateDecoding, size: src.Size(), rec: audit.NewRecorder()}
	d := &decoder{
		src:  src,
		size: f.size,
		rec:  f.rec,
		log:  f.opts.Logger,
		opts: f.opts,
	}
	if err := d.run(f); err != nil {
		f.opts.Logger.Debug("decode failed", zap.Error(err), zap.Int64("offset", d.pos))
		*f = File{opts: f.opts, state: StateFailed, err: err, size: f.size, rec: f.rec}
		return err
	}
	f.state = StateDecoded
	return nil
}

// State returns the lifecycle state.
func (f *File) State() State { return f.state }

// Err returns the error of a failed decode, or nil.
func (f *File) Err() error { return f.err }

func (f *File) ready() error {
	if f.state != StateDecoded {
		return types.State(fmt.Sprintf("file is %s", f.state))
	}
	return nil
}

// Size returns the length of the decoded source.
func (f *File) Size() int64 { return f.size }

// Header returns the decoded header.
func (f *File) Header() (Header, error) {
	if err := f.ready(); err != nil {
		return Header{}, err
	}
	return f.header, nil
}

// Flags returns the header link flags, or zero when not decoded.
func (f *File) Flags() LinkFlags {
	if f.state != StateDecoded {
		return 0
	}
	return f.header.Flags
}

// HasTargetIDList reports whether the header announces a target ID list.
func (f *File) HasTargetIDList() bool { return f.idList != nil }

// TargetIDList returns the target ID list.
func (f *File) TargetIDList() (*IDList, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if f.idList == nil {
		return nil, types.NotFound(format.SectionIDList)
	}
	return f.idList, nil
}

// HasLinkInfo reports whether the header announces a link info structure.
func (f *File) HasLinkInfo() bool { return f.linkInfo != nil }

// LinkInfo returns the link info structure.
func (f *File) LinkInfo() (*LinkInfo, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if f.linkInfo == nil {
		return nil, types.NotFound(format.SectionLinkInfo)
	}
	return f.linkInfo, nil
}

// StringData returns the string data field of the given kind.
func (f *File) StringData(kind StringKind) (*StringField, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if kind < 0 || int(kind) >= len(f.strings) || f.strings[kind] == nil {
		return nil, types.NotFound(kind.String())
	}
	return f.strings[kind], nil
}

// Text returns the decoded text of a string data field.
func (f *File) Text(kind StringKind) (string, error) {
	sf, err := f.StringData(kind)
	if err != nil {
		return "", err
	}
	return sf.Text()
}

// Strings returns the present string data fields in file order.
func (f *File) Strings() []StringField {
	if f.state != StateDecoded {
		return nil
	}
	var out []StringField
	for _, sf := range f.strings {
		if sf != nil {
			out = append(out, *sf)
		}
	}
	return out
}

// ExtraBlocks returns the decoded extra data blocks in file order.
func (f *File) ExtraBlocks() ([]Block, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	out := make([]Block, len(f.blocks))
	copy(out, f.blocks)
	return out, nil
}

// Blocks yields (signature, payload) for every extra data block. It yields
// nothing unless the File is decoded.
func (f *File) Blocks() iter.Seq2[Signature, BlockData] {
	return func(yield func(Signature, BlockData) bool) {
		if f.state != StateDecoded {
			return
		}
		for _, b := range f.blocks {
			if !yield(b.Signature, b.Data) {
				return
			}
		}
	}
}

// ExtraBlock returns the first block with signature sig.
func (f *File) ExtraBlock(sig Signature) (Block, error) {
	if err := f.ready(); err != nil {
		return Block{}, err
	}
	for _, b := range f.blocks {
		if b.Signature == sig {
			return b, nil
		}
	}
	return Block{}, types.NotFound(sig.String())
}

// Tracker returns the distributed link tracker block.
func (f *File) Tracker() (*TrackerBlock, error) {
	b, err := f.ExtraBlock(SigTracker)
	if err != nil {
		return nil, err
	}
	return b.Data.(*TrackerBlock), nil
}

// TrailingSize returns the number of bytes after the end of the block chain.
func (f *File) TrailingSize() int64 { return f.trailing }

// Offsets returns the ranges read during decode, in read order.
func (f *File) Offsets() ([]audit.Range, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	return f.rec.Ranges(), nil
}

// Coverage returns the recorded ranges merged into contiguous spans.
func (f *File) Coverage() ([]audit.Range, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	return f.rec.Coalesced(), nil
}

// WriteOffsets writes the "Offsets read" table.
func (f *File) WriteOffsets(w io.Writer) error {
	if err := f.ready(); err != nil {
		return err
	}
	_, err := f.rec.WriteTo(w)
	return err
}

// Target returns the best available description of the link target: the
// link info path, then the environment variables block, then the relative
// path string.
func (f *File) Target() (string, error) {
	if err := f.ready(); err != nil {
		return "", err
	}
	if f.linkInfo != nil {
		p, err := f.linkInfo.Path()
		if err != nil || p != "" {
			return p, err
		}
	}
	if b, err := f.ExtraBlock(SigEnvironmentVariables); err == nil {
		p, err := b.Data.(*EnvironmentVariablesBlock).Text()
		if err != nil || p != "" {
			return p, err
		}
	}
	if sf := f.strings[RelativePath]; sf != nil {
		return sf.Text()
	}
	return "", types.NotFound("target")
}
