package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/plot"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default schema is the flower dataset", func(t *testing.T) {
		t.Parallel()
		want := []string{"sepal_length", "sepal_width", "petal_length", "petal_width", "species"}
		if got := cfg.Schema.Columns(); !slices.Equal(got, want) {
			t.Errorf("expected columns %v, got %v", want, got)
		}
	})

	t.Run("default LabelPrefix is Iris-", func(t *testing.T) {
		t.Parallel()
		if cfg.LabelPrefix != "Iris-" {
			t.Errorf("expected LabelPrefix to be 'Iris-', got '%s'", cfg.LabelPrefix)
		}
	})

	t.Run("default aggregation override is petal_length max", func(t *testing.T) {
		t.Parallel()
		if !slices.Equal(cfg.Aggregations["petal_length"], []string{"max"}) {
			t.Errorf("expected petal_length: [max], got %v", cfg.Aggregations)
		}
	})

	t.Run("default plot is 6x4 inches with the dark palette", func(t *testing.T) {
		t.Parallel()
		if cfg.PlotWidth != 6 || cfg.PlotHeight != 4 {
			t.Errorf("expected 6x4, got %vx%v", cfg.PlotWidth, cfg.PlotHeight)
		}
		if cfg.PlotPalette != "dark" {
			t.Errorf("expected palette 'dark', got %q", cfg.PlotPalette)
		}
		if cfg.PlotFile != "" {
			t.Errorf("expected plotting to be off by default, got %q", cfg.PlotFile)
		}
	})

	t.Run("default Head and BatchSize", func(t *testing.T) {
		t.Parallel()
		if cfg.Head != 5 {
			t.Errorf("expected Head to be 5, got %d", cfg.Head)
		}
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default config is valid once an input is set", func(t *testing.T) {
		t.Parallel()
		c := NewConfig()
		c.Inputs = []string{"data/Iris_Data.csv"}
		if err := c.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		c := NewConfig()
		c.Inputs = []string{"iris.csv"}
		return c
	}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config returns nil",
			modify: func(*Config) {},
		},
		{
			name:   "several inputs are valid",
			modify: func(c *Config) { c.Inputs = []string{"a.csv", "b.csv"} },
		},
		{
			name: "sqlite input is valid",
			modify: func(c *Config) {
				c.Inputs = nil
				c.SQLitePath = "iris.db"
			},
		},
		{
			name:    "no input",
			modify:  func(c *Config) { c.Inputs = nil },
			wantErr: ErrNoInput,
		},
		{
			name:    "csv and sqlite together",
			modify:  func(c *Config) { c.SQLitePath = "iris.db" },
			wantErr: ErrConflictingInputs,
		},
		{
			name: "sqlite without table",
			modify: func(c *Config) {
				c.Inputs = nil
				c.SQLitePath = "iris.db"
				c.Table = ""
			},
			wantErr: ErrNoTable,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative head",
			modify:  func(c *Config) { c.Head = -1 },
			wantErr: ErrInvalidHead,
		},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "markdown and html together",
			modify: func(c *Config) {
				c.MarkdownReport = true
				c.HTMLReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "schema without label",
			modify:  func(c *Config) { c.Schema.Label = "" },
			wantErr: ErrInvalidSchema,
		},
		{
			name:    "schema with duplicate column",
			modify:  func(c *Config) { c.Schema.Measurements = []string{"a", "a"} },
			wantErr: ErrInvalidSchema,
		},
		{
			name:    "unknown aggregation",
			modify:  func(c *Config) { c.Aggregations = map[string][]string{"petal_length": {"mode"}} },
			wantErr: dataset.ErrUnknownAggregation,
		},
		{
			name:    "aggregation of unknown column",
			modify:  func(c *Config) { c.Aggregations = map[string][]string{"stem": {"max"}} },
			wantErr: dataset.ErrUnknownColumn,
		},
		{
			name:    "empty aggregation list",
			modify:  func(c *Config) { c.Aggregations = map[string][]string{"petal_length": {}} },
			wantErr: dataset.ErrNoAggregation,
		},
		{
			name:    "plot with unsupported extension",
			modify:  func(c *Config) { c.PlotFile = "box.bmp" },
			wantErr: plot.ErrUnsupportedFormat,
		},
		{
			name: "plot with zero width",
			modify: func(c *Config) {
				c.PlotFile = "box.png"
				c.PlotWidth = 0
			},
			wantErr: ErrInvalidPlotSize,
		},
		{
			name: "plot with unknown palette",
			modify: func(c *Config) {
				c.PlotFile = "box.svg"
				c.PlotPalette = "neon"
			},
			wantErr: plot.ErrUnknownPalette,
		},
		{
			name: "plot size is ignored without plot file",
			modify: func(c *Config) {
				c.PlotWidth = 0
				c.PlotPalette = "neon"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigSources(t *testing.T) {
	t.Parallel()

	t.Run("csv inputs", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Inputs = []string{"a.csv", "b.csv"}
		if got := c.Sources(); !slices.Equal(got, c.Inputs) {
			t.Errorf("expected %v, got %v", c.Inputs, got)
		}
	})

	t.Run("sqlite input", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.SQLitePath = "data/iris.db"
		if got := c.Sources(); !slices.Equal(got, []string{"data/iris.db#iris"}) {
			t.Errorf("expected data/iris.db#iris, got %v", got)
		}
	})
}

func TestConfigPlotFileFor(t *testing.T) {
	t.Parallel()

	t.Run("single input uses the plot file as is", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Inputs = []string{"data/Iris_Data.csv"}
		c.PlotFile = "out/box.png"
		if got := c.PlotFileFor("data/Iris_Data.csv"); got != "out/box.png" {
			t.Errorf("expected out/box.png, got %q", got)
		}
	})

	t.Run("several inputs get their own file", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Inputs = []string{"data/a.csv", "data/b.csv"}
		c.PlotFile = "out/box.png"
		if got := c.PlotFileFor("data/b.csv"); got != filepath.Join("out", "box-b.png") {
			t.Errorf("expected out/box-b.png, got %q", got)
		}
	})

	t.Run("no plot file", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Inputs = []string{"a.csv", "b.csv"}
		if got := c.PlotFileFor("a.csv"); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	prefix := ""
	head := 10
	file := &File{
		Schema:       &dataset.Schema{Label: "kind"},
		LabelPrefix:  &prefix,
		Aggregations: map[string][]string{"sepal_width": {"min", "max"}},
		Head:         &head,
		BatchSize:    2,
		Plot: PlotSettings{
			File:    "box.svg",
			Width:   8,
			Palette: "muted",
			Title:   "Iris",
		},
	}

	t.Run("file values replace defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		file.ApplyTo(c, nil)

		if c.Schema.Label != "kind" {
			t.Errorf("expected label 'kind', got %q", c.Schema.Label)
		}
		if len(c.Schema.Measurements) != 4 {
			t.Errorf("expected default measurements to be kept, got %v", c.Schema.Measurements)
		}
		if c.LabelPrefix != "" {
			t.Errorf("expected empty prefix, got %q", c.LabelPrefix)
		}
		if _, ok := c.Aggregations["petal_length"]; ok {
			t.Error("expected file aggregations to replace the default override")
		}
		if c.Head != 10 || c.BatchSize != 2 {
			t.Errorf("expected head 10 and batch 2, got %d and %d", c.Head, c.BatchSize)
		}
		if c.PlotFile != "box.svg" || c.PlotWidth != 8 || c.PlotHeight != 4 {
			t.Errorf("unexpected plot settings: %s %vx%v", c.PlotFile, c.PlotWidth, c.PlotHeight)
		}
		if c.PlotPalette != "muted" || c.PlotTitle != "Iris" {
			t.Errorf("unexpected plot style: %s %q", c.PlotPalette, c.PlotTitle)
		}
	})

	t.Run("flags win over the file", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.PlotFile = "cli.png"
		c.Head = 3
		c.Aggregations = map[string][]string{"petal_width": {"std"}}

		set := map[string]bool{FlagPlot: true, FlagHead: true, FlagAgg: true}
		file.ApplyTo(c, func(name string) bool { return set[name] })

		if c.PlotFile != "cli.png" {
			t.Errorf("expected plot file from flag, got %q", c.PlotFile)
		}
		if c.Head != 3 {
			t.Errorf("expected head from flag, got %d", c.Head)
		}
		if len(c.Aggregations) != 2 {
			t.Errorf("expected file and flag aggregations to merge, got %v", c.Aggregations)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.florastat")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".florastat")
		content := `labelPrefix: "Iris-"
head: 10
batchSize: 2
schema:
  measurements: [sepal_length, sepal_width, petal_length, petal_width]
  label: species
aggregations:
  petal_length: [max]
  sepal_length: [mean, std]
plot:
  file: out/box.png
  width: 8
  height: 5
  palette: deep
  title: Iris measurements
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.LabelPrefix == nil || *cfg.LabelPrefix != "Iris-" {
			t.Errorf("expected label prefix 'Iris-', got %v", cfg.LabelPrefix)
		}
		if cfg.Head == nil || *cfg.Head != 10 {
			t.Errorf("expected head 10, got %v", cfg.Head)
		}
		if cfg.Schema == nil || cfg.Schema.Label != "species" || len(cfg.Schema.Measurements) != 4 {
			t.Errorf("unexpected schema: %+v", cfg.Schema)
		}
		if !slices.Equal(cfg.Aggregations["sepal_length"], []string{"mean", "std"}) {
			t.Errorf("unexpected aggregations: %v", cfg.Aggregations)
		}
		if cfg.Plot.File != "out/box.png" || cfg.Plot.Width != 8 || cfg.Plot.Height != 5 {
			t.Errorf("unexpected plot settings: %+v", cfg.Plot)
		}
		if cfg.Plot.Palette != "deep" || cfg.Plot.Title != "Iris measurements" {
			t.Errorf("unexpected plot style: %+v", cfg.Plot)
		}
	})

	t.Run("empty file sets nothing", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".florastat")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.LabelPrefix != nil || cfg.Head != nil || cfg.Schema != nil {
			t.Errorf("expected empty file, got %+v", cfg)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".florastat")
		if err := os.WriteFile(configPath, []byte("labelprefix: \"\"\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "labelprefix") {
			t.Errorf("expected error naming the unknown key, got %v", err)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".florastat")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("head: 3\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("directory is not a config file", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile(t.TempDir()); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("search paths end in the home directory", func(t *testing.T) {
		t.Parallel()

		paths := SearchPaths()
		if !slices.Contains(paths, GlobalConfigPath()) {
			t.Errorf("expected %s in %v", GlobalConfigPath(), paths)
		}
		if _, err := os.UserHomeDir(); err != nil {
			return
		}
		if last := paths[len(paths)-1]; filepath.Base(last) != DefaultConfigFile {
			t.Errorf("expected %s last, got %s", DefaultConfigFile, last)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGConfigDir() == "" {
		t.Error("expected non-empty XDG config dir")
	}
	if XDGDataDir() == "" {
		t.Error("expected non-empty XDG data dir")
	}
	if filepath.Base(DefaultDatabasePath()) != "florastat.db" {
		t.Errorf("expected florastat.db, got %s", DefaultDatabasePath())
	}
}
