package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/funcloc/internal/cache"
	"github.com/mvp-joe/funcloc/internal/config"
	"github.com/mvp-joe/funcloc/internal/locator"
	"github.com/mvp-joe/funcloc/internal/parsers"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "funcloc",
	Short: "Funcloc - map source lines to their enclosing C/C++ functions",
	Long: `Funcloc resolves a (file, line) location in C or C++ source to the
function that encloses it, returning the function's name, line span and text.

Locations inside a well-formed function definition are resolved exactly.
Functions the parser could not recognize (macro-qualified signatures, for
example) are recovered from their declarator and body. When neither applies,
a fixed window of lines around the target is returned instead.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .funcloc/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the --config file when given, otherwise .funcloc/config.yml
// in the working directory. Environment variables override both.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// engine bundles the parsing and resolving components built from config.
type engine struct {
	registry *parsers.Registry
	docs     *cache.Cache
	resolver *locator.Resolver
}

func newEngine(cfg *config.Config, logger *slog.Logger) (*engine, error) {
	registry, err := parsers.NewRegistry(cfg.Languages.CPP)
	if err != nil {
		return nil, fmt.Errorf("failed to create parsers: %w", err)
	}

	docs, err := cache.New(registry, cfg.Batch.CacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}

	return &engine{
		registry: registry,
		docs:     docs,
		resolver: locator.NewResolver(cfg.ResolverOptions()),
	}, nil
}

func (e *engine) Close() {
	e.docs.Close()
}
