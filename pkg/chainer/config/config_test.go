package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/chainer/pkg/chainer/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "settings.yaml", `verbose: 2
db: /tmp/kb.db
kb_files:
  - a.kb
  - b.kb
explain_format: html
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if s.Verbose != 2 {
		t.Errorf("Verbose = %d, want 2", s.Verbose)
	}
	if s.DBPath != "/tmp/kb.db" {
		t.Errorf("DBPath = %q", s.DBPath)
	}
	if len(s.KBFiles) != 2 || s.KBFiles[1] != "b.kb" {
		t.Errorf("KBFiles = %v", s.KBFiles)
	}
	if s.ExplainFormat != "html" {
		t.Errorf("ExplainFormat = %q", s.ExplainFormat)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"negative verbose": "verbose: -1\n",
		"unknown format":   "explain_format: pdf\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, "settings.yaml", content)
			if _, err := LoadSettings(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "settings.yaml", "verbose: [\n")
	if _, err := LoadSettings(path); err == nil {
		t.Error("Expected YAML error")
	}
}

func TestLoaderReadsKBFiles(t *testing.T) {
	dir := t.TempDir()
	fromSettings := writeFile(t, dir, "base.kb", "fact: (isa cube block)\n")
	extra := writeFile(t, dir, "extra.kb", "fact: (on cube table)\n")
	settings := writeFile(t, dir, "settings.yaml", "verbose: 1\nkb_files:\n  - "+fromSettings+"\n")

	loader := Loader{SettingsPath: settings, KBPaths: []string{extra}}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if comp.Settings.Verbose != 1 {
		t.Errorf("Verbose = %d", comp.Settings.Verbose)
	}
	if len(comp.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(comp.Sources))
	}
	if comp.Sources[0].Path != fromSettings || comp.Sources[1].Path != extra {
		t.Errorf("Unexpected source order: %v", comp.Sources)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := Loader{KBPaths: []string{filepath.Join(t.TempDir(), "nonexistent.kb")}}
	if _, err := loader.Load(); err == nil {
		t.Error("Load should fail with a missing kb file")
	}
}

func TestLoaderEmpty(t *testing.T) {
	comp, err := (&Loader{}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(comp.Sources) != 0 || comp.Settings.Verbose != 0 {
		t.Errorf("Expected zero components, got %+v", comp)
	}
}
