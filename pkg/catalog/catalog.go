// Package catalog records decode summaries of shortcut files in an
// on-disk evidence store. Records are keyed by KSUID so iteration follows
// decode time.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/joshuapare/lnkkit/pkg/lnk"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("catalog: record not found")

// Summary is what the catalog keeps about one decoded file.
type Summary struct {
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	SHA256    string    `json:"sha256" yaml:"sha256"`
	DecodedAt time.Time `json:"decoded_at" yaml:"decoded_at"`
	Target    string    `json:"target,omitempty" yaml:"target,omitempty"`
	Arguments string    `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	MachineID string    `json:"machine_id,omitempty" yaml:"machine_id,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

// NewSummary describes the decode of data read from path. f may be nil when
// decodeErr is set.
func NewSummary(path string, data []byte, f *lnk.File, decodeErr error) Summary {
	sum := sha256.Sum256(data)
	s := Summary{
		Path:      path,
		Size:      int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
		DecodedAt: time.Now().UTC(),
	}
	if decodeErr != nil {
		s.Error = decodeErr.Error()
		if kind, ok := types.KindOf(decodeErr); ok {
			s.ErrorKind = kind.String()
		}
		return s
	}
	if f == nil {
		return s
	}
	if target, err := f.Target(); err == nil {
		s.Target = target
	}
	if args, err := f.Text(lnk.CommandLineArguments); err == nil {
		s.Arguments = args
	}
	if tr, err := f.Tracker(); err == nil {
		s.MachineID = tr.MachineID.String()
	}
	return s
}

// Failed reports whether the decode failed.
func (s Summary) Failed() bool { return s.Error != "" }

// Catalog is a pebble-backed summary store. Safe for concurrent use.
type Catalog struct {
	db *pebble.DB
}

// Open opens or creates the catalog in dir.
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dir, err)
	}
	return &Catalog{db: db}, nil
}

// Put stores s under a new id derived from its decode time.
func (c *Catalog) Put(s Summary) (ksuid.KSUID, error) {
	if s.DecodedAt.IsZero() {
		s.DecodedAt = time.Now().UTC()
	}
	id, err := ksuid.NewRandomWithTime(s.DecodedAt)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("encode summary: %w", err)
	}
	if err := c.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("store summary: %w", err)
	}
	return id, nil
}

// Get returns the summary stored under id.
func (c *Catalog) Get(id ksuid.KSUID) (Summary, error) {
	data, closer, err := c.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("load %s: %w", id, err)
	}
	defer closer.Close()

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("decode %s: %w", id, err)
	}
	return s, nil
}

// List calls fn for every record in id order. Returning false from fn
// stops the walk.
func (c *Catalog) List(fn func(id ksuid.KSUID, s Summary) bool) error {
	it, err := c.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("iterate catalog: %w", err)
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		id, err := ksuid.FromBytes(it.Key())
		if err != nil {
			return fmt.Errorf("bad key %x: %w", it.Key(), err)
		}
		var s Summary
		if err := json.Unmarshal(it.Value(), &s); err != nil {
			return fmt.Errorf("decode %s: %w", id, err)
		}
		if !fn(id, s) {
			break
		}
	}
	return it.Error()
}

// Delete removes the record stored under id.
func (c *Catalog) Delete(id ksuid.KSUID) error {
	return c.db.Delete(id.Bytes(), pebble.Sync)
}

// Close flushes and closes the store.
func (c *Catalog) Close() error {
	return c.db.Close()
}
