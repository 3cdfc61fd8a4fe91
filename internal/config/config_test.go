package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/funcloc/internal/locator"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .funcloc/config.yml when present
// - LoadConfig() loads from .funcloc/config.yaml when present
// - LoadConfig() merges config file with defaults
// - NewFileLoader() reads an explicit file and fails when it is missing
// - Environment variables override config file values
// - LoadConfig() returns error for malformed YAML
// - LoadConfig() returns error for invalid configuration values
// - Validate() rejects negative windows, non-positive depth/workers/cache size
// - Validate() rejects invalid glob patterns and empty column names
// - Validate() returns multiple errors, each reachable with errors.Is
// - ResolverOptions() maps the resolver section onto locator.Options
// - Columns() maps the dataset section onto dataset.Columns

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	configDir := filepath.Join(dir, ".funcloc")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NotNil(t, cfg)

	// Verify resolver defaults
	assert.Equal(t, 14, cfg.Resolver.Front)
	assert.Equal(t, 6, cfg.Resolver.Back)
	assert.False(t, cfg.Resolver.ExtendToClosingBrace)
	assert.Equal(t, locator.DefaultMaxDepth, cfg.Resolver.MaxDepth)

	// Verify batch defaults
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.Equal(t, 256, cfg.Batch.CacheSize)
	assert.Equal(t, "projects", cfg.Batch.ProjectsDir)

	// Verify dataset defaults match the historical spreadsheet columns
	assert.Equal(t, "Project", cfg.Dataset.ProjectColumn)
	assert.Equal(t, "Bug File", cfg.Dataset.FileColumn)
	assert.Equal(t, "Location", cfg.Dataset.LineColumn)
	assert.Equal(t, "Function", cfg.Dataset.FunctionColumn)
	assert.Equal(t, "Code_function", cfg.Dataset.CodeColumn)

	assert.Contains(t, cfg.Languages.CPP, "**/*.cpp")
	assert.Empty(t, cfg.Storage.Database)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()

	require.NoError(t, err)
	expected := Default()
	assert.Equal(t, expected.Resolver, cfg.Resolver)
	assert.Equal(t, expected.Dataset, cfg.Dataset)
	assert.Equal(t, expected.Languages.CPP, cfg.Languages.CPP)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
resolver:
  front: 20
  back: 10
  extend_to_closing_brace: true

languages:
  cpp:
    - "**/*.cpp"

batch:
  workers: 3
  cache_size: 64
  projects_dir: /data/projects

dataset:
  project_column: repo
  file_column: path
  line_column: line

storage:
  database: results.db
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Resolver.Front)
	assert.Equal(t, 10, cfg.Resolver.Back)
	assert.True(t, cfg.Resolver.ExtendToClosingBrace)
	assert.Equal(t, []string{"**/*.cpp"}, cfg.Languages.CPP)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 64, cfg.Batch.CacheSize)
	assert.Equal(t, "/data/projects", cfg.Batch.ProjectsDir)
	assert.Equal(t, "repo", cfg.Dataset.ProjectColumn)
	assert.Equal(t, "path", cfg.Dataset.FileColumn)
	assert.Equal(t, "line", cfg.Dataset.LineColumn)
	assert.Equal(t, "results.db", cfg.Storage.Database)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
resolver:
  front: 5
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Resolver.Front)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
batch:
  workers: 2
`)

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 256, cfg.Batch.CacheSize)
	assert.Equal(t, 14, cfg.Resolver.Front)
	assert.Equal(t, "Bug File", cfg.Dataset.FileColumn)
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("resolver:\n  back: 9\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Resolver.Back)

	_, err = NewFileLoader(filepath.Join(dir, "missing.yml")).Load()
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
resolver:
  front: 20
batch:
  workers: 3
`)

	t.Setenv("FUNCLOC_RESOLVER_FRONT", "7")
	t.Setenv("FUNCLOC_BATCH_WORKERS", "12")
	t.Setenv("FUNCLOC_STORAGE_DATABASE", "/tmp/env.db")

	cfg, err := NewLoader(tempDir).Load()

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Resolver.Front)
	assert.Equal(t, 12, cfg.Batch.Workers)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.Database)
	assert.Equal(t, 6, cfg.Resolver.Back)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "resolver: [front: 1\n")

	_, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
batch:
  workers: 0
`)

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative front", func(c *Config) { c.Resolver.Front = -1 }, ErrInvalidWindow},
		{"negative back", func(c *Config) { c.Resolver.Back = -1 }, ErrInvalidWindow},
		{"zero depth", func(c *Config) { c.Resolver.MaxDepth = 0 }, ErrInvalidDepth},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, ErrInvalidWorkers},
		{"zero cache", func(c *Config) { c.Batch.CacheSize = 0 }, ErrInvalidCacheSize},
		{"bad glob", func(c *Config) { c.Languages.CPP = []string{"[a-"} }, ErrInvalidPattern},
		{"empty column", func(c *Config) { c.Dataset.LineColumn = " " }, ErrEmptyColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Resolver.Front = -1
	cfg.Batch.Workers = -2
	cfg.Dataset.ProjectColumn = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
	assert.True(t, errors.Is(err, ErrInvalidWorkers))
	assert.True(t, errors.Is(err, ErrEmptyColumn))
	assert.Contains(t, err.Error(), "validation failed")
}

func TestResolverOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Resolver.Front = 3
	cfg.Resolver.ExtendToClosingBrace = true

	opts := cfg.ResolverOptions()
	assert.Equal(t, locator.Options{
		Front:                3,
		Back:                 6,
		ExtendToClosingBrace: true,
		MaxDepth:             locator.DefaultMaxDepth,
	}, opts)
}

func TestColumns(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Dataset.FileColumn = "path"

	cols := cfg.Columns()
	assert.Equal(t, "Project", cols.Project)
	assert.Equal(t, "path", cols.File)
	assert.Equal(t, "Location", cols.Line)
	assert.Equal(t, "Function", cols.Function)
	assert.Equal(t, "Code_function", cols.Code)
}
