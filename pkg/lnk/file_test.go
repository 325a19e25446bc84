package lnk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/lnk"
	"github.com/joshuapare/lnkkit/pkg/stream"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// TestFile_StateMachine tests the unopened, failed and decoded transitions.
func TestFile_StateMachine(t *testing.T) {
	f := lnk.New(types.Options{})
	assert.Equal(t, lnk.StateUnopened, f.State())
	assert.Equal(t, "unopened", f.State().String())

	_, err := f.Header()
	assert.ErrorIs(t, err, types.ErrState)
	_, err = f.ExtraBlocks()
	assert.ErrorIs(t, err, types.ErrState)
	_, err = f.Offsets()
	assert.ErrorIs(t, err, types.ErrState)
	_, err = f.Coverage()
	assert.ErrorIs(t, err, types.ErrState)

	err = f.Decode(stream.FromBytes([]byte("not a shortcut")))
	require.ErrorIs(t, err, types.ErrTruncated)
	assert.Equal(t, lnk.StateFailed, f.State())
	assert.ErrorIs(t, f.Err(), types.ErrTruncated)
	_, err = f.LinkInfo()
	assert.ErrorIs(t, err, types.ErrState)

	// A failed file may be decoded again.
	require.NoError(t, f.Decode(stream.FromBytes(fullShortcut())))
	assert.Equal(t, lnk.StateDecoded, f.State())
	assert.NoError(t, f.Err())

	err = f.Decode(stream.FromBytes(fullShortcut()))
	assert.ErrorIs(t, err, types.ErrState)
	assert.Equal(t, lnk.StateDecoded, f.State())
}

// TestFile_FailedDecodeDropsSections tests that nothing from a failed
// decode is reachable.
func TestFile_FailedDecodeDropsSections(t *testing.T) {
	data := testutil.NewBuilder().
		StringField(int(lnk.Description), "ok").
		RawBlocks([]byte{0x04, 0, 0, 0, 0, 0, 0, 0}).
		Build()

	f := lnk.New(types.Options{})
	require.ErrorIs(t, f.Decode(stream.FromBytes(data)), types.ErrFormat)
	assert.Empty(t, f.Strings())
	assert.False(t, f.HasLinkInfo())
	assert.Zero(t, f.Flags())

	n := 0
	for range f.Blocks() {
		n++
	}
	assert.Zero(t, n)
}

// TestFile_InvalidOptions tests that an unsupported code page is rejected
// before any byte is read.
func TestFile_InvalidOptions(t *testing.T) {
	f := lnk.New(types.Options{Codepage: 65001})
	err := f.Decode(stream.FromBytes(fullShortcut()))
	assert.ErrorIs(t, err, types.ErrFormat)
	assert.Equal(t, lnk.StateUnopened, f.State())
}

// TestFile_NegativeLimits tests that negative caps are rejected instead of
// being replaced by defaults.
func TestFile_NegativeLimits(t *testing.T) {
	for _, opts := range []types.Options{
		{MaxExtraBlocks: -1},
		{MaxPropertyValues: -1},
	} {
		f := lnk.New(opts)
		err := f.Decode(stream.FromBytes(fullShortcut()))
		assert.ErrorIs(t, err, types.ErrFormat)
		assert.Equal(t, lnk.StateUnopened, f.State())
	}
}

// TestFile_ZeroValue tests that a File declared without New decodes with
// default options.
func TestFile_ZeroValue(t *testing.T) {
	var f lnk.File
	assert.Equal(t, lnk.StateUnopened, f.State())

	require.NoError(t, f.Decode(stream.FromBytes(fullShortcut())))
	assert.Equal(t, lnk.StateDecoded, f.State())

	blocks, err := f.ExtraBlocks()
	require.NoError(t, err)
	assert.Len(t, blocks, 2)

	var g lnk.File
	require.NoError(t, g.Decode(stream.FromBytes(testutil.NewBuilder().Build())))
	assert.False(t, g.HasLinkInfo())
}

// TestFile_Blocks tests iteration order and early exit.
func TestFile_Blocks(t *testing.T) {
	f, err := lnk.Parse(fullShortcut(), types.Options{})
	require.NoError(t, err)

	var sigs []lnk.Signature
	for sig, data := range f.Blocks() {
		sigs = append(sigs, sig)
		assert.Equal(t, sig, data.BlockSignature())
	}
	assert.Equal(t, []lnk.Signature{lnk.SigEnvironmentVariables, lnk.SigTracker}, sigs)

	n := 0
	for range f.Blocks() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

// TestOpen tests decoding from a path and that the result outlives the
// mapping.
func TestOpen(t *testing.T) {
	path := testutil.WriteFile(t, "notepad.lnk", fullShortcut())

	f, err := lnk.Open(path, types.Options{})
	require.NoError(t, err)

	desc, err := f.Text(lnk.Description)
	require.NoError(t, err)
	assert.Equal(t, "Notepad", desc)

	_, err = lnk.Open(path+".missing", types.Options{})
	assert.ErrorIs(t, err, types.ErrIO)
}

// TestDecode_ReaderAt tests decoding through a section reader.
func TestDecode_ReaderAt(t *testing.T) {
	data := fullShortcut()
	padded := append([]byte("PADDING!"), data...)
	src := stream.FromReaderAt(bytesReaderAt(padded[8:]), int64(len(data)))

	f, err := lnk.Decode(src, types.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), f.Size())
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return stream.FromBytes(b).ReadAt(p, off)
}

// TestDecode_Logging tests that sections and blocks are logged at debug
// level.
func TestDecode_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := lnk.Parse(fullShortcut(), types.Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("decoded extra block").Len())
	sections := logs.FilterMessage("decoded section").All()
	require.NotEmpty(t, sections)
	assert.Equal(t, "header", sections[0].ContextMap()["section"])

	core, logs = observer.New(zap.DebugLevel)
	_, err = lnk.Parse([]byte{1}, types.Options{Logger: zap.New(core)})
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("decode failed").Len())
}
