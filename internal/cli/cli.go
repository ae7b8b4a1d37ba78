package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/source"
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

	// Config is loaded before any command runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner and Source Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// openSource selects a loader for locator. Database sources are wrapped
// with the record cache unless noCache is set.
func (c *CLI) openSource(locator string, noCache bool) (source.Loader, error) {
	loader, err := source.Open(locator, source.Options{
		MongoDatabase:   c.Config.Source.MongoDatabase,
		MongoCollection: c.Config.Source.MongoCollection,
	})
	if err != nil {
		return nil, err
	}
	if _, ok := loader.(*source.File); ok || noCache {
		return loader, nil
	}
	cc, err := newCache(false)
	if err != nil {
		return nil, err
	}
	return source.NewCached(loader, cc, nil, c.Logger), nil
}

// loadRecord opens locator and fetches its tree. Database sources show a
// spinner while the query runs.
func (c *CLI) loadRecord(ctx context.Context, locator string, noCache bool) (*family.Record, source.Loader, error) {
	loader, err := c.openSource(locator, noCache)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := loader.(*source.File); ok {
		rec, err := loader.Load(ctx)
		return rec, loader, err
	}

	spinner := newSpinnerWithContext(ctx, "Loading "+loader.Locator())
	spinner.Start()
	rec, err := loader.Load(ctx)
	spinner.Stop()
	if err != nil {
		return nil, nil, err
	}
	return rec, loader, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/lineage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
