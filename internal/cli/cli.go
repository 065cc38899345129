// Package cli implements the pagefit command-line interface.
//
// Commands:
//   - layout: compute a layout from image lists and print or save it as JSON
//   - export: render a layout to PDF and optionally an xlsx report
//   - strategies: list the strategy catalog
//   - serve: run the JSON HTTP API
//
// Image lists are CSV, Excel, YAML/JSON manifests, DXF outlines or saved
// projects. Configuration comes from ~/.pagefit/config.json, PAGEFIT_*
// environment variables (a .env file is honored) and command flags, in
// increasing priority.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/model"
	"github.com/piwi3910/PageFit/internal/project"
)

const appName = "pagefit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// version is set at build time with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	envFile    string
	config     model.AppConfig
}

// New creates a CLI whose log output goes to w. Command results go to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		config: model.DefaultAppConfig(),
	}
}

// SetOutput redirects command results.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "PageFit packs images onto A4 print pages",
		Long: `PageFit arranges images of fixed physical size onto as few A4 pages as
possible, trying a catalog of sort rules and placement heuristics and keeping
the most compact result.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "configuration file")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with PAGEFIT_* overrides (optional)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.strategiesCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// loadConfig reads the config file and applies environment overrides.
func (c *CLI) loadConfig() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err = project.ApplyEnv(cfg)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "oversize", cfg.OversizePolicy,
		"algorithm", cfg.Algorithm, "workers", cfg.Workers, "strategy_set", cfg.StrategySet)
	return nil
}

// engineFlags are shared by commands that compute layouts.
type engineFlags struct {
	oversize  string
	algorithm string
	workers   int
	extended  bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.oversize, "oversize", "", "oversize policy: force (default), reject")
	cmd.Flags().StringVar(&f.algorithm, "algorithm", "", "search algorithm: catalog (default), genetic")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "strategies evaluated in parallel")
	cmd.Flags().BoolVar(&f.extended, "extended", false, "add best-area-fit strategies to the catalog")
}

// apply layers changed flags over the loaded configuration.
func (f *engineFlags) apply(cmd *cobra.Command, cfg model.AppConfig) (engine.Options, error) {
	flags := cmd.Flags()
	if flags.Changed("oversize") {
		cfg.OversizePolicy = model.OversizePolicy(f.oversize)
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = model.Algorithm(f.algorithm)
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.extended {
		cfg.StrategySet = model.StrategySetExtended
	}

	switch cfg.OversizePolicy {
	case model.OversizeForce, model.OversizeReject:
	default:
		return engine.Options{}, fmt.Errorf("unknown oversize policy %q", cfg.OversizePolicy)
	}
	switch cfg.Algorithm {
	case model.AlgorithmCatalog, model.AlgorithmGenetic:
	default:
		return engine.Options{}, fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
	if cfg.Workers < 1 {
		return engine.Options{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return engine.OptionsFromConfig(cfg)
}
