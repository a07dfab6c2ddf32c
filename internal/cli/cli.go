// Package cli implements the starneighbours command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/benjaminlong/mergify-algos/pkg/cache"
	"github.com/benjaminlong/mergify-algos/pkg/config"
	"github.com/benjaminlong/mergify-algos/pkg/integrations/github"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
	"github.com/benjaminlong/mergify-algos/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer // command results
	status     io.Writer // progress and confirmation lines
	configFile string
	envFile    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		status: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableHookLogging reports HTTP requests, cache activity and search stages
// to the logger at debug level.
func (c *CLI) EnableHookLogging() {
	observability.NewLogHooks(c.Logger).Register()
}

func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{ConfigFile: c.configFile, EnvFile: c.envFile})
}

// newFinder builds a GitHub-backed finder sending responses through store.
func (c *CLI) newFinder(cfg *config.Config, store cache.Cache) *neighbours.Finder {
	return neighbours.NewFinder(neighbours.GitHub(cfg.GitHub(store)), neighbours.Options{
		BatchSize: cfg.BatchSize,
		Logins:    github.RulesFor(cfg.APIURL),
		Logger:    c.Logger,
	})
}
