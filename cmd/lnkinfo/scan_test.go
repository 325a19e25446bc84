package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/catalog"
)

func writeEvidence(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string][]byte{
		"Desktop/cmd.lnk":         sampleShortcut(),
		"Recent/empty.LNK":        testutil.NewBuilder().Build(),
		"Recent/broken.lnk":       sampleShortcut()[:90],
		"Recent/notes.txt":        []byte("not scanned"),
		"Startup/nested/tool.lnk": sampleShortcut(),
	})
	return dir
}

func TestFindShortcuts(t *testing.T) {
	resetFlags()
	dir := writeEvidence(t)

	paths, err := findShortcuts(dir)
	if err != nil {
		t.Fatalf("findShortcuts: %v", err)
	}
	var rel []string
	for _, p := range paths {
		r, _ := filepath.Rel(dir, p)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"Desktop/cmd.lnk", "Recent/broken.lnk", "Recent/empty.LNK", "Startup/nested/tool.lnk"}
	if strings.Join(rel, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", rel, want)
	}

	if _, err := findShortcuts(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestScanAll_KeepsOrder(t *testing.T) {
	resetFlags()
	dir := writeEvidence(t)
	paths, err := findShortcuts(dir)
	if err != nil {
		t.Fatalf("findShortcuts: %v", err)
	}
	opts, err := decodeOptions()
	if err != nil {
		t.Fatalf("decodeOptions: %v", err)
	}

	for _, workers := range []int{0, 1, 3, 16} {
		summaries := scanAll(paths, workers, opts)
		if len(summaries) != len(paths) {
			t.Fatalf("workers=%d: %d summaries for %d paths", workers, len(summaries), len(paths))
		}
		for i, s := range summaries {
			if s.Path != paths[i] {
				t.Errorf("workers=%d: summary %d is %s, want %s", workers, i, s.Path, paths[i])
			}
		}
	}
}

func TestScanCommand(t *testing.T) {
	resetFlags()
	dir := writeEvidence(t)
	catalogDir = filepath.Join(t.TempDir(), "case.db")

	output, err := captureOutput(t, func() error {
		return runScan([]string{dir})
	})
	if err == nil || !strings.Contains(err.Error(), "1 of 4") {
		t.Fatalf("runScan error = %v, want one failure", err)
	}
	assertContains(t, output, []string{
		`-> C:\Windows\System32\cmd.exe /c whoami (machine host-7)`,
		"ERR ",
		"[truncated]",
		"4 file(s), 1 failed",
	})
	assertNotContains(t, output, []string{"notes.txt"})

	cat, err := catalog.Open(catalogDir)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	n, failed := 0, 0
	err = cat.List(func(_ ksuid.KSUID, s catalog.Summary) bool {
		n++
		if s.Failed() {
			failed++
		}
		return true
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if n != 4 || failed != 1 {
		t.Errorf("catalog has %d records, %d failed", n, failed)
	}
}

func TestScanCommand_JSON(t *testing.T) {
	resetFlags()
	outputFormat = "json"
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string][]byte{"a.lnk": sampleShortcut()})

	output, err := captureOutput(t, func() error {
		return runScan([]string{dir})
	})
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"machine_id": "host-7"`, `"sha256"`})
}

func TestCatalogListCommand(t *testing.T) {
	resetFlags()
	dir := writeEvidence(t)
	catalogDir = filepath.Join(t.TempDir(), "case.db")
	captureOutput(t, func() error { return runScan([]string{dir}) })

	store := catalogDir
	resetFlags()
	output, err := captureOutput(t, func() error {
		return runCatalogList([]string{store})
	})
	if err != nil {
		t.Fatalf("runCatalogList: %v", err)
	}
	assertContains(t, output, []string{"4 record(s)", "tool.lnk", "[truncated]"})

	outputFormat = "yaml"
	output, err = captureOutput(t, func() error {
		return runCatalogList([]string{store})
	})
	if err != nil {
		t.Fatalf("runCatalogList yaml: %v", err)
	}
	assertContains(t, output, []string{"id: ", "sha256: ", "machine_id: host-7"})
}
