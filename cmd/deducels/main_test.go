package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deducels/internal/version"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }
	for _, tt := range []struct {
		value    string
		terminal func() bool
		want     bool
	}{
		{"on", no, true},
		{"always", no, true},
		{"off", yes, false},
		{"auto", yes, true},
		{"auto", no, false},
		{"", yes, true},
	} {
		got, err := colorEnabled(tt.value, tt.terminal)
		if err != nil || got != tt.want {
			t.Errorf("colorEnabled(%q) = %v, %v", tt.value, got, err)
		}
	}
	if _, err := colorEnabled("rainbow", yes); err == nil {
		t.Errorf("expected error for invalid value")
	}
}

func TestTokenizeJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.pf", "define a = 1\n")
	out, _, err := execute(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(toks) != 5 {
		t.Fatalf("tokens = %+v", toks)
	}
	if toks[0].Text != "define" || toks[1].Text != "a" || toks[4].Kind != "EOF" {
		t.Errorf("tokens = %+v", toks)
	}
}

func TestTokenizeUnknownFormat(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.pf", "define a = 1\n")
	if _, _, err := execute(t, "tokenize", "--format", "xml", path); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseTreeVerify(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.pf", "define a = 1\n")
	out, errOut, err := execute(t, "parse", "--verify", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(out, "Module ") || !strings.Contains(out, "Define ") {
		t.Errorf("tree:\n%s", out)
	}
	if !strings.Contains(errOut, "invariants hold") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestDiagnoseReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "good.pf", "define a = 1\n")
	writeSource(t, dir, "bad.pf", "define = 1\n")

	out, errOut, err := execute(t, "diagnose", "--ui", "off", "--color", "off", dir)
	if !errors.Is(err, errDiagnosticsFound) {
		t.Fatalf("expected errDiagnosticsFound, got %v", err)
	}
	if !strings.Contains(out, "bad.pf:1:") || !strings.Contains(out, "ERROR SYN") {
		t.Errorf("pretty output:\n%s", out)
	}
	if strings.Contains(out, "good.pf") {
		t.Errorf("clean file must not be printed:\n%s", out)
	}
	if !strings.Contains(errOut, "2 file(s) checked") {
		t.Errorf("summary = %q", errOut)
	}
}

func TestDiagnoseJSONClean(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "good.pf", "define a = 1\n")
	out, _, err := execute(t, "diagnose", "--ui", "off", "--format", "json", path)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	var got struct {
		Count int `json:"count"`
		Files int `json:"files"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Count != 0 || got.Files != 1 {
		t.Errorf("output = %+v", got)
	}
}

func TestDiagnoseRejectsBadUIMode(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.pf", "")
	if _, _, err := execute(t, "diagnose", "--ui", "maybe", path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Version != version.Version || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
}
