package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "golox.toml", `
stack-size = 128
trace = true
print-code = true
color = "never"
verbosity = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{StackSize: 128, Trace: true, PrintCode: true, Color: ColorNever, Verbosity: 2}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "golox.yml", "color: always\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Color != ColorAlways {
		t.Fatalf("expected color always, got %q", cfg.Color)
	}
	if cfg.StackSize != Default().StackSize {
		t.Fatalf("unset fields should keep defaults, got stack size %d", cfg.StackSize)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
		data string
		want string
	}{
		{"unknown extension", "golox.json", "{}", "unsupported format"},
		{"bad toml", "golox.toml", "stack-size = ", "parse error"},
		{"bad yaml", "golox.yaml", "stack_size: [", "parsing"},
		{"bad color", "golox.toml", `color = "purple"`, "color must be"},
		{"zero stack", "golox.yaml", "stack_size: 0", "stack size"},
		{"verbosity", "golox.toml", "verbosity = 9", "verbosity"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.data), tc.path)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
