package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joshuapare/lnkkit/pkg/catalog"
	"github.com/joshuapare/lnkkit/pkg/lnk"
	"github.com/joshuapare/lnkkit/pkg/types"
)

var (
	catalogDir  string
	scanWorkers int
)

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Decode every shortcut under a directory",
		Long: `The scan command walks a directory tree, decodes every *.lnk file
concurrently and prints one summary line per file. With --catalog the
summaries are also recorded in an evidence catalog.

Example:
  lnkinfo scan ./evidence
  lnkinfo scan ./evidence --catalog ./case-42.db --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
	cmd.Flags().StringVar(&catalogDir, "catalog", "", "Record summaries in the catalog at this directory")
	cmd.Flags().IntVar(&scanWorkers, "workers", runtime.NumCPU(), "Number of concurrent decoders")
	return cmd
}

// findShortcuts returns every *.lnk under root in lexical order.
func findShortcuts(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".lnk") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// scanFile decodes one file into a catalog summary. Decode failures are
// part of the summary, not an error.
func scanFile(path string, opts types.Options) catalog.Summary {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.NewSummary(path, nil, nil, types.IO("open", -1, err))
	}
	f, err := lnk.Parse(data, opts)
	return catalog.NewSummary(path, data, f, err)
}

// scanAll decodes paths on a bounded worker pool. Results keep the order
// of paths.
func scanAll(paths []string, workers int, opts types.Options) []catalog.Summary {
	if workers < 1 {
		workers = 1
	}
	results := make([]catalog.Summary, len(paths))
	tasks := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				results[idx] = scanFile(paths[idx], opts)
			}
		}()
	}
	for i := range paths {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	return results
}

func runScan(args []string) error {
	root := args[0]

	opts, err := decodeOptions()
	if err != nil {
		return err
	}
	paths, err := findShortcuts(root)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	logger.Debug("scan started", zap.String("root", root), zap.Int("files", len(paths)), zap.Int("workers", scanWorkers))

	summaries := scanAll(paths, scanWorkers, opts)

	var cat *catalog.Catalog
	if catalogDir != "" {
		if cat, err = catalog.Open(catalogDir); err != nil {
			return err
		}
		defer cat.Close()
	}

	failed := 0
	for _, s := range summaries {
		if s.Failed() {
			failed++
		}
		if cat != nil {
			if _, err := cat.Put(s); err != nil {
				return fmt.Errorf("failed to record %s: %w", s.Path, err)
			}
		}
	}

	if structured, err := printStructured(summaries); structured {
		if err != nil {
			return err
		}
	} else {
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].Path < summaries[j].Path })
		for _, s := range summaries {
			printInfo("%s\n", summaryLine(s))
		}
		printInfo("\n%d file(s), %d failed\n", len(summaries), failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to decode", failed, len(summaries))
	}
	return nil
}

func summaryLine(s catalog.Summary) string {
	if s.Failed() {
		return fmt.Sprintf("ERR %s [%s] %s", s.Path, s.ErrorKind, s.Error)
	}
	line := fmt.Sprintf("OK  %s -> %s", s.Path, s.Target)
	if s.Arguments != "" {
		line += " " + s.Arguments
	}
	if s.MachineID != "" {
		line += fmt.Sprintf(" (machine %s)", s.MachineID)
	}
	return line
}
