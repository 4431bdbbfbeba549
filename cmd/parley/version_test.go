package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = "1.2.3", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	info := buildInfo()
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.BuildDate != "2026-01-02" {
		t.Errorf("buildInfo() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		output string
		check  func(t *testing.T, out string)
	}{
		{"text", func(t *testing.T, out string) {
			if !strings.HasPrefix(out, "Parley "+Version) {
				t.Errorf("output = %q", out)
			}
		}},
		{"json", func(t *testing.T, out string) {
			var got map[string]string
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if got["version"] != Version {
				t.Errorf("version = %q", got["version"])
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			prev := versionOutput
			versionOutput = tt.output
			t.Cleanup(func() { versionOutput = prev })

			var buf bytes.Buffer
			versionCmd.SetOut(&buf)
			defer versionCmd.SetOut(nil)

			if err := versionCmd.RunE(versionCmd, nil); err != nil {
				t.Fatal(err)
			}
			tt.check(t, buf.String())
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "validate", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}
