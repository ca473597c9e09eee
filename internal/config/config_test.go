package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Owner != DefaultOwner {
		t.Errorf("Owner: got %q, want %q", cfg.Owner, DefaultOwner)
	}
	if cfg.MinTitleLength != DefaultMinTitleLength {
		t.Errorf("MinTitleLength: got %d, want %d", cfg.MinTitleLength, DefaultMinTitleLength)
	}
	if cfg.Theme != DefaultTheme || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Theme/LogLevel: got %q/%q", cfg.Theme, cfg.LogLevel)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `owner = "James"
seed = "todos.json"
theme = "neon"
min_title_length = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_THEME", "mono")
	t.Setenv("TODO_GROUP", "yes")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Owner != "James" || cfg.Seed != "todos.json" || cfg.MinTitleLength != 5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Theme != "mono" {
		t.Errorf("Theme: got %q, want env override mono", cfg.Theme)
	}
	if !cfg.Group {
		t.Error("Group: env override not applied")
	}
}

func TestLoadImplicitFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(`owner = "Ada"`), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Owner != "Ada" {
		t.Errorf("Owner: got %q, want Ada", cfg.Owner)
	}
}

func TestLoadErrors(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := Load("missing.toml"); err == nil {
		t.Error("expected error for a missing explicit file")
	}

	t.Setenv("TODO_MIN_TITLE_LENGTH", "abc")
	if _, err := Load(""); err == nil {
		t.Error("expected error for a non-numeric env value")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Owner = " "
	cfg.Theme = "rainbow"
	cfg.MinTitleLength = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"owner", "theme", "min_title_length", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
