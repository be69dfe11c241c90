package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/florastat/internal/config"
	"github.com/nao1215/florastat/internal/dataset"
)

func TestInitCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	if cmd.Use != "init" {
		t.Errorf("expected use 'init', got %q", cmd.Use)
	}

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"output", "o", config.DefaultConfigFile},
		{"force", "f", "false"},
		{"global", "g", "false"},
		{"stdout", "", "false"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("expected %s flag", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand || flag.DefValue != tt.defValue {
			t.Errorf("%s: got -%s default %q", tt.name, flag.Shorthand, flag.DefValue)
		}
	}
}

// runInit executes init with args and returns its output.
func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewInitCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInitWritesTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string // written before init when non-empty
		rel      string
		force    bool
		wantErr  string
	}{
		{name: "new file", rel: config.DefaultConfigFile},
		{name: "nested directories", rel: filepath.Join("a", "b", "florastat.yaml")},
		{name: "existing file is kept", rel: config.DefaultConfigFile, existing: "head: 1\n", wantErr: "already exists"},
		{name: "force replaces", rel: config.DefaultConfigFile, existing: "head: 1\n", force: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.rel)
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0600); err != nil {
					t.Fatal(err)
				}
			}

			args := []string{"-o", path}
			if tt.force {
				args = append(args, "-f")
			}
			out, err := runInit(t, args...)

			content, readErr := os.ReadFile(path)
			if readErr != nil {
				t.Fatalf("config file missing: %v", readErr)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if string(content) != tt.existing {
					t.Error("existing file was modified")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(content, configTemplate) {
				t.Error("expected the template to be written")
			}
			if !strings.Contains(out, path) {
				t.Errorf("expected output to name %s, got %q", path, out)
			}
			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				if err != nil {
					t.Fatal(err)
				}
				if perm := info.Mode().Perm(); perm != 0600 {
					t.Errorf("expected mode 0600, got %o", perm)
				}
			}
		})
	}
}

func TestInitOtherDestinations(t *testing.T) {
	t.Parallel()

	t.Run("stdout prints the template", func(t *testing.T) {
		t.Parallel()

		out, err := runInit(t, "--stdout")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != string(configTemplate) {
			t.Errorf("expected the template on stdout, got %q", out)
		}
	})

	t.Run("output and global are exclusive", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
		if _, err := runInit(t, "-o", path, "--global"); err == nil {
			t.Error("expected error for --output with --global")
		}
		if _, err := os.Stat(path); err == nil {
			t.Error("expected no file to be written")
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := runInit(t, "extra"); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

// TestConfigTemplate checks that the embedded template loads and matches
// the built-in defaults.
func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := os.WriteFile(path, configTemplate, 0600); err != nil {
		t.Fatal(err)
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Inputs = []string{"iris.csv"}
	file.ApplyTo(cfg, nil)

	if err := cfg.Validate(); err != nil {
		t.Errorf("template yields invalid config: %v", err)
	}
	if cfg.LabelPrefix != dataset.DefaultLabelPrefix {
		t.Errorf("expected prefix %q, got %q", dataset.DefaultLabelPrefix, cfg.LabelPrefix)
	}
	if got := cfg.Aggregations[dataset.ColumnPetalLength]; len(got) != 1 || got[0] != "max" {
		t.Errorf("expected petal_length: [max], got %v", got)
	}
	if cfg.Head != config.DefaultHead || cfg.BatchSize != config.DefaultBatchSize {
		t.Errorf("expected default head and batch size, got %d and %d", cfg.Head, cfg.BatchSize)
	}
	if cfg.PlotFile != "" {
		t.Errorf("expected plotting to be off, got %q", cfg.PlotFile)
	}
}
