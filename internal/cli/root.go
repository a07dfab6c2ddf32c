package cli

import (
	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Find the star neighbours of a GitHub repository",
		Long: `starneighbours lists the repositories that share stargazers with a GitHub
repository, ranked by the number of shared stargazers.

Settings are read from starneighbours.toml (or .yaml/.json), a .env file and
NEIGHBOURS_* environment variables. GITHUB_TOKEN is honoured.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./starneighbours.{toml,yaml,json})")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file (default: .env)")

	root.AddCommand(c.findCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
