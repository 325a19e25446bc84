package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/types"
)

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose = false
	quiet = false
	outputFormat = "text"
	codepageName = types.DefaultCodepage.String()
	maxExtraBlocks = 0
	configFile = ""
	catalogDir = ""
	scanWorkers = 2
	logger = zap.NewNop()
}

// sampleShortcut returns a shortcut with link info, strings and a tracker
// block.
func sampleShortcut() []byte {
	var droid [16]byte
	return testutil.NewBuilder().
		Unicode().
		LinkInfo(testutil.LocalLinkInfo(0x1C, "OS", `C:\Windows\System32\cmd.exe`, "")).
		StringField(1, `..\..\Windows\System32\cmd.exe`).
		StringField(3, `/c whoami`).
		Block(0xA0000003, testutil.TrackerPayload("host-7", droid, droid)).
		Build()
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureStream(t, &os.Stdout, fn)
}

// captureStderr runs fn and returns everything it wrote to stderr
func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureStream(t, &os.Stderr, fn)
}

func captureStream(t *testing.T, target **os.File, fn func() error) (string, error) {
	t.Helper()

	// Save original stream
	orig := *target

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stream to pipe
	*target = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stream
	w.Close()
	*target = orig
	<-done

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
