package audit

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// defaultRangeCapacity covers a typical shortcut: header, id list, link
// info, a few strings and a handful of extra blocks.
const defaultRangeCapacity = 32

var (
	// ErrOutside reports a range that does not lie within [0, size).
	ErrOutside = errors.New("audit: range outside file")

	// ErrOverlap reports two recorded ranges sharing at least one byte.
	ErrOverlap = errors.New("audit: overlapping ranges")
)

// Range is one consumed region (absolute file offsets).
type Range struct {
	Off int64 `json:"offset" yaml:"offset"`
	Len int64 `json:"size" yaml:"size"`
}

// End returns the exclusive end offset.
func (r Range) End() int64 { return r.Off + r.Len }

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Len > 0 && o.Len > 0 && r.Off < o.End() && o.Off < r.End()
}

// String renders r in the "Offsets read" table format.
func (r Range) String() string {
	end := r.End()
	return fmt.Sprintf("%08d ( 0x%08x ) - %08d ( 0x%08x ) size: %d", r.Off, r.Off, end, end, r.Len)
}

// Recorder accumulates ranges in call order.
//
// NOT thread-safe. A Recorder belongs to a single decode call.
type Recorder struct {
	ranges []Range
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{ranges: make([]Range, 0, defaultRangeCapacity)}
}

// Add records a range. Zero-length reads are not recorded.
func (r *Recorder) Add(off, length int64) {
	if length <= 0 {
		return
	}
	r.ranges = append(r.ranges, Range{Off: off, Len: length})
}

// Len returns the number of recorded ranges.
func (r *Recorder) Len() int { return len(r.ranges) }

// Reset clears all recorded ranges.
func (r *Recorder) Reset() { r.ranges = r.ranges[:0] }

// Ranges returns a copy of the recorded ranges in call order.
func (r *Recorder) Ranges() []Range {
	out := make([]Range, len(r.ranges))
	copy(out, r.ranges)
	return out
}

// Total returns the number of bytes recorded.
func (r *Recorder) Total() int64 {
	var n int64
	for _, rg := range r.ranges {
		n += rg.Len
	}
	return n
}

// Coalesced returns the recorded ranges sorted and with adjacent or
// overlapping ranges merged.
func (r *Recorder) Coalesced() []Range {
	return Coalesce(r.ranges)
}

// WriteTo writes the "Offsets read" table.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("Offsets read:\n")
	for _, rg := range r.ranges {
		b.WriteString(rg.String())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Coalesce sorts a copy of ranges by offset and merges ranges that overlap
// or touch. Empty ranges are dropped.
func Coalesce(ranges []Range) []Range {
	sorted := make([]Range, 0, len(ranges))
	for _, rg := range ranges {
		if rg.Len > 0 {
			sorted = append(sorted, rg)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Off < sorted[j].Off })

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Verify checks that every range lies within [0, size) and that no two
// ranges overlap.
func Verify(ranges []Range, size int64) error {
	sorted := make([]Range, 0, len(ranges))
	for _, rg := range ranges {
		if rg.Off < 0 || rg.Len < 0 || rg.Off > size || rg.Len > size-rg.Off {
			return fmt.Errorf("%w: %s exceeds file size %d", ErrOutside, rg, size)
		}
		if rg.Len > 0 {
			sorted = append(sorted, rg)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Off < sorted[j].Off })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, sorted[i-1], sorted[i])
		}
	}
	return nil
}
