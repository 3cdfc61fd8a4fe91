package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (FUNCLOC_*)
// 2. Config file (.funcloc/config.yml or .funcloc/config.yaml, or the explicit file)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".funcloc"))
	}

	// Replace . with _ in env var names (e.g., FUNCLOC_RESOLVER_FRONT)
	v.SetEnvPrefix("FUNCLOC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Resolver configuration
	v.BindEnv("resolver.front")
	v.BindEnv("resolver.back")
	v.BindEnv("resolver.extend_to_closing_brace")
	v.BindEnv("resolver.max_depth")

	// Batch configuration
	v.BindEnv("batch.workers")
	v.BindEnv("batch.cache_size")
	v.BindEnv("batch.projects_dir")

	// Storage configuration
	v.BindEnv("storage.database")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Resolver defaults
	v.SetDefault("resolver.front", defaults.Resolver.Front)
	v.SetDefault("resolver.back", defaults.Resolver.Back)
	v.SetDefault("resolver.extend_to_closing_brace", defaults.Resolver.ExtendToClosingBrace)
	v.SetDefault("resolver.max_depth", defaults.Resolver.MaxDepth)

	// Language defaults
	v.SetDefault("languages.cpp", defaults.Languages.CPP)

	// Batch defaults
	v.SetDefault("batch.workers", defaults.Batch.Workers)
	v.SetDefault("batch.cache_size", defaults.Batch.CacheSize)
	v.SetDefault("batch.projects_dir", defaults.Batch.ProjectsDir)

	// Dataset defaults
	v.SetDefault("dataset.project_column", defaults.Dataset.ProjectColumn)
	v.SetDefault("dataset.file_column", defaults.Dataset.FileColumn)
	v.SetDefault("dataset.line_column", defaults.Dataset.LineColumn)
	v.SetDefault("dataset.function_column", defaults.Dataset.FunctionColumn)
	v.SetDefault("dataset.code_column", defaults.Dataset.CodeColumn)

	// Storage defaults
	v.SetDefault("storage.database", defaults.Storage.Database)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
