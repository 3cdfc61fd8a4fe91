package config

import (
	"runtime"

	"github.com/mvp-joe/funcloc/internal/dataset"
	"github.com/mvp-joe/funcloc/internal/locator"
)

// Config represents the complete funcloc configuration.
// It can be loaded from .funcloc/config.yml with environment variable overrides.
type Config struct {
	Resolver  ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Languages LanguagesConfig `yaml:"languages" mapstructure:"languages"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
}

// ResolverConfig tunes the line-to-function resolver.
type ResolverConfig struct {
	Front                int  `yaml:"front" mapstructure:"front"`                                     // fallback window lines before the target
	Back                 int  `yaml:"back" mapstructure:"back"`                                       // fallback window lines after the target
	ExtendToClosingBrace bool `yaml:"extend_to_closing_brace" mapstructure:"extend_to_closing_brace"` // extend spans to the next bare "}"
	MaxDepth             int  `yaml:"max_depth" mapstructure:"max_depth"`                             // tree walk depth bound
}

// LanguagesConfig selects a grammar per file. Files matching no C++ pattern
// are parsed as C.
type LanguagesConfig struct {
	CPP []string `yaml:"cpp" mapstructure:"cpp"` // glob patterns for C++ files
}

// BatchConfig configures dataset processing.
type BatchConfig struct {
	Workers     int    `yaml:"workers" mapstructure:"workers"`           // concurrent rows
	CacheSize   int    `yaml:"cache_size" mapstructure:"cache_size"`     // parsed files kept in memory
	ProjectsDir string `yaml:"projects_dir" mapstructure:"projects_dir"` // root holding one directory per project
}

// DatasetConfig names the dataset columns.
type DatasetConfig struct {
	ProjectColumn  string `yaml:"project_column" mapstructure:"project_column"`
	FileColumn     string `yaml:"file_column" mapstructure:"file_column"`
	LineColumn     string `yaml:"line_column" mapstructure:"line_column"`
	FunctionColumn string `yaml:"function_column" mapstructure:"function_column"` // link mode only
	CodeColumn     string `yaml:"code_column" mapstructure:"code_column"`         // link mode only
}

// StorageConfig configures the optional results database.
type StorageConfig struct {
	Database string `yaml:"database" mapstructure:"database"` // SQLite path, empty disables persistence
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Front:                locator.DefaultFront,
			Back:                 locator.DefaultBack,
			ExtendToClosingBrace: false,
			MaxDepth:             locator.DefaultMaxDepth,
		},
		Languages: LanguagesConfig{
			CPP: []string{
				"**/*.cpp",
				"**/*.cc",
				"**/*.cxx",
				"**/*.hpp",
				"**/*.hh",
				"**/*.hxx",
			},
		},
		Batch: BatchConfig{
			Workers:     runtime.NumCPU(),
			CacheSize:   256,
			ProjectsDir: "projects",
		},
		Dataset: DatasetConfig{
			ProjectColumn:  "Project",
			FileColumn:     "Bug File",
			LineColumn:     "Location",
			FunctionColumn: "Function",
			CodeColumn:     "Code_function",
		},
		Storage: StorageConfig{
			Database: "",
		},
	}
}

// ResolverOptions converts the resolver section into locator options.
func (c *Config) ResolverOptions() locator.Options {
	return locator.Options{
		Front:                c.Resolver.Front,
		Back:                 c.Resolver.Back,
		ExtendToClosingBrace: c.Resolver.ExtendToClosingBrace,
		MaxDepth:             c.Resolver.MaxDepth,
	}
}

// Columns returns the dataset column names.
func (c *Config) Columns() dataset.Columns {
	return dataset.Columns{
		Project:  c.Dataset.ProjectColumn,
		File:     c.Dataset.FileColumn,
		Line:     c.Dataset.LineColumn,
		Function: c.Dataset.FunctionColumn,
		Code:     c.Dataset.CodeColumn,
	}
}
