// Package mmfile exposes a file's bytes read-only, memory-mapped where the
// platform supports it.
package mmfile

import "sync"

// Mapping is a read-only view of a whole file. Data must not be used after
// Close.
type Mapping struct {
	Data []byte

	once    sync.Once
	release func() error
	err     error
}

// Close releases the view. It is safe to call more than once.
func (m *Mapping) Close() error {
	if m == nil {
		return nil
	}
	m.once.Do(func() {
		if m.release != nil {
			m.err = m.release()
		}
		m.Data = nil
	})
	return m.err
}

// Size returns the number of mapped bytes.
func (m *Mapping) Size() int64 { return int64(len(m.Data)) }
