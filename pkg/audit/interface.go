package audit

// Sink is the minimal interface decoders use to report a consumed range.
// off is the absolute file offset, length the number of bytes read.
type Sink interface {
	Add(off, length int64)
}

// Discard is a Sink that drops every range.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(int64, int64) {}
