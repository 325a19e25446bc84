package lnk_test

import (
	"io"
	"testing"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/lnk"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// Benchmark decoding a typical shortcut with every section present
func BenchmarkParse_Full(b *testing.B) {
	benchmarkParse(b, fullShortcut(), types.Options{})
}

// Benchmark the worst case the default block cap allows
func BenchmarkParse_MaxBlocks(b *testing.B) {
	data := testutil.NewBuilder().RawBlocks(minimalBlocks(types.DefaultMaxExtraBlocks)).Build()
	benchmarkParse(b, data, types.Options{})
}

func benchmarkParse(b *testing.B, data []byte, opts types.Options) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := lnk.Parse(data, opts)
		if err != nil {
			b.Fatalf("parse failed: %v", err)
		}
		if err := f.WriteOffsets(io.Discard); err != nil {
			b.Fatalf("write offsets failed: %v", err)
		}
	}
}
