package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("lnkinfo", pflag.ContinueOnError)
	fs.StringVar(&outputFormat, "output", "text", "")
	fs.StringVar(&codepageName, "codepage", "windows-1252", "")
	fs.IntVar(&maxExtraBlocks, "max-extra-blocks", 65536, "")
	fs.StringVar(&catalogDir, "catalog", "", "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lnkinfo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	resetFlags()
	configFile = writeConfig(t, "output: json\ncodepage: shift_jis\nmax_extra_blocks: 10\ncatalog_dir: /cases/42\n")

	fs := testFlags(t, "--codepage", "cp437")
	if err := loadConfig(fs); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if outputFormat != "json" {
		t.Errorf("output = %q, want json from config", outputFormat)
	}
	if codepageName != "cp437" {
		t.Errorf("codepage = %q, want cp437 from flag", codepageName)
	}
	if maxExtraBlocks != 10 {
		t.Errorf("max_extra_blocks = %d, want 10", maxExtraBlocks)
	}
	if catalogDir != "/cases/42" {
		t.Errorf("catalog_dir = %q", catalogDir)
	}

	opts, err := decodeOptions()
	if err != nil {
		t.Fatalf("decodeOptions: %v", err)
	}
	if opts.Codepage != 437 || opts.MaxExtraBlocks != 10 {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	resetFlags()
	configFile = writeConfig(t, "max_extra_blocks: 10\n")
	t.Setenv("LNKINFO_MAX_EXTRA_BLOCKS", "7")

	if err := loadConfig(testFlags(t)); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if maxExtraBlocks != 7 {
		t.Errorf("max_extra_blocks = %d, want 7 from environment", maxExtraBlocks)
	}
	if outputFormat != "text" {
		t.Errorf("output = %q, want default", outputFormat)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	resetFlags()
	configFile = filepath.Join(t.TempDir(), "absent.yaml")
	if err := loadConfig(testFlags(t)); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDecodeOptions_Invalid(t *testing.T) {
	resetFlags()
	codepageName = "utf-8"
	if _, err := decodeOptions(); err == nil {
		t.Error("expected error for unsupported codepage")
	}

	resetFlags()
	maxExtraBlocks = -1
	if _, err := decodeOptions(); err == nil {
		t.Error("expected error for negative block cap")
	}
}

func TestNewLogger(t *testing.T) {
	for _, v := range []bool{false, true} {
		l, err := newLogger(v)
		if err != nil {
			t.Fatalf("newLogger(%v): %v", v, err)
		}
		if got := l.Core().Enabled(-1); got != v {
			t.Errorf("newLogger(%v): debug enabled = %v", v, got)
		}
	}
}
