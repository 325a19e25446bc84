package catalog_test

import (
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/catalog"
	"github.com/joshuapare/lnkkit/pkg/lnk"
	"github.com/joshuapare/lnkkit/pkg/types"
)

func openCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// TestNewSummary tests summaries of successful and failed decodes.
func TestNewSummary(t *testing.T) {
	var droid [16]byte
	data := testutil.NewBuilder().
		LinkInfo(testutil.LocalLinkInfo(0x1C, "", `C:\Tools\run.exe`, "")).
		StringField(int(lnk.CommandLineArguments), "-silent").
		Block(uint32(lnk.SigTracker), testutil.TrackerPayload("dc01", droid, droid)).
		Build()

	f, err := lnk.Parse(data, types.Options{})
	require.NoError(t, err)

	s := catalog.NewSummary("evidence/run.lnk", data, f, nil)
	assert.Equal(t, "evidence/run.lnk", s.Path)
	assert.Equal(t, int64(len(data)), s.Size)
	assert.Len(t, s.SHA256, 64)
	assert.Equal(t, `C:\Tools\run.exe`, s.Target)
	assert.Equal(t, "-silent", s.Arguments)
	assert.Equal(t, "dc01", s.MachineID)
	assert.False(t, s.Failed())

	_, err = lnk.Parse(data[:40], types.Options{})
	require.Error(t, err)
	bad := catalog.NewSummary("evidence/cut.lnk", data[:40], nil, err)
	assert.True(t, bad.Failed())
	assert.Equal(t, "truncated", bad.ErrorKind)
	assert.Empty(t, bad.Target)
}

// TestCatalog_PutGet tests storing and loading one summary.
func TestCatalog_PutGet(t *testing.T) {
	c := openCatalog(t)

	in := catalog.Summary{
		Path:      "a.lnk",
		Size:      120,
		SHA256:    "00",
		DecodedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Target:    `C:\a.exe`,
	}
	id, err := c.Put(in)
	require.NoError(t, err)
	assert.True(t, in.DecodedAt.Equal(id.Time()))

	out, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, c.Delete(id))
	_, err = c.Get(id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

// TestCatalog_ListOrder tests that records come back in decode time order.
func TestCatalog_ListOrder(t *testing.T) {
	c := openCatalog(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, n := range []int{3, 1, 2} {
		_, err := c.Put(catalog.Summary{
			Path:      string(rune('a'+n)) + ".lnk",
			DecodedAt: base.Add(time.Duration(n) * time.Minute),
		})
		require.NoError(t, err)
	}

	var paths []string
	require.NoError(t, c.List(func(_ ksuid.KSUID, s catalog.Summary) bool {
		paths = append(paths, s.Path)
		return true
	}))
	assert.Equal(t, []string{"b.lnk", "c.lnk", "d.lnk"}, paths)

	paths = nil
	require.NoError(t, c.List(func(_ ksuid.KSUID, s catalog.Summary) bool {
		paths = append(paths, s.Path)
		return false
	}))
	assert.Equal(t, []string{"b.lnk"}, paths)
}

// TestCatalog_Reopen tests that records survive a close.
func TestCatalog_Reopen(t *testing.T) {
	dir := t.TempDir()
	c, err := catalog.Open(dir)
	require.NoError(t, err)
	id, err := c.Put(catalog.Summary{Path: "persist.lnk"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = catalog.Open(dir)
	require.NoError(t, err)
	defer c.Close()
	s, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "persist.lnk", s.Path)
	assert.False(t, s.DecodedAt.IsZero())
}
