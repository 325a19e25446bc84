package lnk

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/joshuapare/lnkkit/internal/format"
	"github.com/joshuapare/lnkkit/pkg/audit"
	"github.com/joshuapare/lnkkit/pkg/stream"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// decoder walks a source front to back. Every read goes through read, which
// checks the remaining length before allocating and records the range.
type decoder struct {
	src  stream.Source
	size int64
	pos  int64
	rec  audit.Sink
	log  *zap.Logger
	opts types.Options
}

func (d *decoder) remaining() int64 { return d.size - d.pos }

// read consumes n bytes. A request past the end of the source is a
// truncation of section.
func (d *decoder) read(section string, n int64) ([]byte, error) {
	if n > d.remaining() {
		return nil, types.Truncated(section, d.pos, n, d.remaining())
	}
	b, err := stream.ReadRange(d.src, d.pos, n)
	if err != nil {
		return nil, types.IO(section, d.pos, err)
	}
	d.rec.Add(d.pos, n)
	d.pos += n
	return b, nil
}

func (d *decoder) u16(section string) (uint16, error) {
	b, err := d.read(section, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *decoder) u32(section string) (uint32, error) {
	b, err := d.read(section, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) traced(section string, off int64) {
	d.log.Debug("decoded section",
		zap.String("section", section),
		zap.Int64("offset", off),
		zap.Int64("size", d.pos-off))
}

// run decodes every section into f in file order.
func (d *decoder) run(f *File) error {
	if d.size < format.HeaderSize {
		return types.Truncated(format.SectionHeader, 0, format.HeaderSize, d.size)
	}
	hb, err := d.read(format.SectionHeader, format.HeaderSize)
	if err != nil {
		return err
	}
	if f.header, err = format.ParseHeader(hb); err != nil {
		return err
	}
	d.traced(format.SectionHeader, 0)
	flags := f.header.Flags

	if flags.HasLinkTargetIDList() {
		if f.idList, err = d.idList(); err != nil {
			return err
		}
	}
	if flags.HasLinkInfo() {
		if f.linkInfo, err = d.linkInfo(); err != nil {
			return err
		}
	}
	for _, kind := range format.StringKinds {
		if !kind.Present(flags) {
			continue
		}
		sf, err := d.stringField(kind, flags.IsUnicode())
		if err != nil {
			return err
		}
		f.strings[kind] = sf
	}
	if f.blocks, err = d.extraBlocks(); err != nil {
		return err
	}
	f.trailing = d.remaining()
	return nil
}

func (d *decoder) idList() (*format.IDList, error) {
	start := d.pos
	size, err := d.u16(format.SectionIDList)
	if err != nil {
		return nil, err
	}
	body, err := d.read(format.SectionIDList, int64(size))
	if err != nil {
		return nil, err
	}
	l, err := format.ParseIDList(body, start+format.IDListSizeFieldLen, format.SectionIDList)
	if err != nil {
		return nil, err
	}
	d.traced(format.SectionIDList, start)
	return &l, nil
}

// linkInfo reads the size field and the body as two ranges, then decodes
// the reassembled structure so offsets stay relative to its start.
func (d *decoder) linkInfo() (*format.LinkInfo, error) {
	start := d.pos
	size, err := d.u32(format.SectionLinkInfo)
	if err != nil {
		return nil, err
	}
	if size < format.LinkInfoBaseHeaderSize {
		e := types.Formatf(format.SectionLinkInfo, start, "structure size %d smaller than minimum %d", size, format.LinkInfoBaseHeaderSize)
		e.Expected, e.Actual = format.LinkInfoBaseHeaderSize, int64(size)
		return nil, e
	}
	rest, err := d.read(format.SectionLinkInfo, int64(size)-format.LinkInfoSizeFieldLen)
	if err != nil {
		return nil, err
	}
	full := make([]byte, 0, size)
	full = binary.LittleEndian.AppendUint32(full, size)
	full = append(full, rest...)
	li, err := format.ParseLinkInfo(full, start, d.opts.Codepage)
	if err != nil {
		return nil, err
	}
	d.traced(format.SectionLinkInfo, start)
	return li, nil
}

func (d *decoder) stringField(kind format.StringKind, unicode bool) (*format.StringField, error) {
	section := kind.String()
	start := d.pos
	count, err := d.u16(section)
	if err != nil {
		return nil, err
	}
	raw, err := d.read(section, int64(format.StringByteLen(count, unicode)))
	if err != nil {
		return nil, err
	}
	d.traced(section, start)
	return &format.StringField{
		Kind:  kind,
		Count: count,
		EncodedString: format.EncodedString{
			Section:  section,
			Offset:   start + format.StringCountFieldLen,
			Raw:      raw,
			Wide:     unicode,
			Codepage: d.opts.Codepage,
		},
	}, nil
}

// extraBlocks decodes the block chain. Fewer than four remaining bytes or
// a zero size ends the chain normally. The declared size alone decides
// where the next block starts.
func (d *decoder) extraBlocks() ([]format.Block, error) {
	var blocks []format.Block
	for d.remaining() >= format.ExtraBlockSizeFieldLen {
		start := d.pos
		size, err := d.u32(format.SectionExtraData)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			d.log.Debug("extra data terminated", zap.Int64("offset", start))
			return blocks, nil
		}
		if size < format.ExtraBlockHeaderSize {
			e := types.Formatf(format.SectionExtraData, start, "block size %d smaller than minimum %d", size, format.ExtraBlockHeaderSize)
			e.Expected, e.Actual = format.ExtraBlockHeaderSize, int64(size)
			return nil, e
		}
		if int64(size) > d.size-start {
			return nil, types.OutOfBounds(format.SectionExtraData, "block", start, int64(size), d.size)
		}
		if len(blocks) >= d.opts.MaxExtraBlocks {
			return nil, types.ResourceLimit(format.SectionExtraData, start, d.opts.MaxExtraBlocks)
		}
		body, err := d.read(format.SectionExtraData, int64(size)-format.ExtraBlockSizeFieldLen)
		if err != nil {
			return nil, err
		}
		blk := format.Block{Offset: start, Size: size, Signature: format.Signature(binary.LittleEndian.Uint32(body))}
		blk.Data, err = format.DecodeBlock(blk.Signature, body[format.ExtraBlockSignatureLen:], blk.PayloadOffset(), d.opts)
		if err != nil {
			return nil, err
		}
		d.log.Debug("decoded extra block",
			zap.Stringer("signature", blk.Signature),
			zap.Int64("offset", start),
			zap.Uint32("size", size))
		blocks = append(blocks, blk)
	}
	return blocks, nil
}
