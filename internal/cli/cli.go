// Package cli implements the readability command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/readability/pkg/config"
	"github.com/matzehuels/readability/pkg/observability"
	"github.com/matzehuels/readability/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output (tables, JSON). Status lines and logs go
	// to stderr through Logger.
	Out io.Writer

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also routes pipeline,
// cache and HTTP hook events to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// loadConfig reads the config file named by --config or found at the
// default locations.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.config.NewCache(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(cache, c.config.Keyer(), c.Logger), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveOptions fills flag values left unset from the config file.
func (c *CLI) resolveOptions(opts *pipeline.Options) error {
	c.config.ApplyTo(opts)
	opts.Logger = c.Logger
	return opts.Validate()
}
