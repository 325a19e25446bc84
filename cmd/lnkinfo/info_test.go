package main

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/lnkkit/internal/testutil"
	"github.com/joshuapare/lnkkit/pkg/types"
)

func TestInfoCommand(t *testing.T) {
	path := testutil.WriteFile(t, "cmd.lnk", sampleShortcut())

	tests := []struct {
		name           string
		output         string
		verbose        bool
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name:   "text",
			output: "text",
			wantContain: []string{
				"Link info (local volume)",
				"Drive type: DRIVE_FIXED",
				"Serial number: DEAD-BEEF",
				`Path: C:\Windows\System32\cmd.exe`,
				"command line arguments: /c whoami",
				"TrackerDataBlock",
				"machine_id: host-7",
				`Target: C:\Windows\System32\cmd.exe`,
				"Show command: SW_SHOWNORMAL",
			},
			wantNotContain: []string{"Offsets read:"},
		},
		{
			name:    "verbose adds offsets table",
			output:  "text",
			verbose: true,
			wantContain: []string{
				"Offsets read:",
				"00000000 ( 0x00000000 ) - 00000076 ( 0x0000004c ) size: 76",
			},
		},
		{
			name:        "json",
			output:      "json",
			wantJSON:    true,
			wantContain: []string{`"kind": "local volume"`, `"signature": "TrackerDataBlock"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			outputFormat = tt.output
			verbose = tt.verbose

			output, err := captureOutput(t, func() error {
				return runInfo([]string{path})
			})
			if err != nil {
				t.Fatalf("runInfo: %v", err)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestInfoCommand_YAML(t *testing.T) {
	resetFlags()
	outputFormat = "yaml"
	path := testutil.WriteFile(t, "cmd.lnk", sampleShortcut())

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}

	var r struct {
		Target   string `yaml:"target"`
		LinkInfo struct {
			DriveType string `yaml:"drive_type"`
		} `yaml:"link_info"`
		Strings []struct {
			Kind string `yaml:"kind"`
			Text string `yaml:"text"`
		} `yaml:"strings"`
	}
	if err := yaml.Unmarshal([]byte(output), &r); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, output)
	}
	if r.Target != `C:\Windows\System32\cmd.exe` || r.LinkInfo.DriveType != "DRIVE_FIXED" {
		t.Errorf("report = %+v", r)
	}
	if len(r.Strings) != 2 || r.Strings[1].Text != "/c whoami" {
		t.Errorf("strings = %+v", r.Strings)
	}
}

func TestInfoCommand_JSONHeader(t *testing.T) {
	resetFlags()
	outputFormat = "json"
	path := testutil.WriteFile(t, "cmd.lnk", sampleShortcut())

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	var loose map[string]any
	if err := json.Unmarshal([]byte(output), &loose); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	header := loose["header"].(map[string]any)
	if header["creation_time"] != "" {
		t.Errorf("creation_time = %v", header["creation_time"])
	}
	flags := header["flags"].([]any)
	if len(flags) == 0 || flags[0] != "HasLinkInfo" {
		t.Errorf("flags = %v", flags)
	}
}

func TestInfoCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		codepage string
		output   string
		wantKind error
	}{
		{name: "not a shortcut", data: []byte("plain text, definitely not a link file, padded well past the header size......."), wantKind: types.ErrFormat},
		{name: "truncated", data: sampleShortcut()[:100], wantKind: types.ErrTruncated},
		{name: "bad codepage", data: sampleShortcut(), codepage: "klingon"},
		{name: "bad output", data: sampleShortcut(), output: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			if tt.codepage != "" {
				codepageName = tt.codepage
			}
			if tt.output != "" {
				outputFormat = tt.output
			}
			path := testutil.WriteFile(t, "bad.lnk", tt.data)

			_, err := captureOutput(t, func() error {
				return runInfo([]string{path})
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	resetFlags()
	path := testutil.WriteFile(t, "truncated.lnk", sampleShortcut()[:100])

	stderr, _ := captureStderr(t, func() error {
		err := runInfo([]string{path})
		if err == nil {
			t.Fatal("expected error")
		}
		printError("%v\n", err)
		return nil
	})
	assertContains(t, stderr, []string{"Error: failed to decode", "truncated.lnk"})
}
