package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/pkg/config"
	"github.com/benjaminlong/mergify-algos/pkg/dataset"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

type rankOpts struct {
	exclude   []string
	threshold int
	out       outputOpts
}

// rankCommand ranks a user map saved by "find --save-users" without network
// access.
func (c *CLI) rankCommand() *cobra.Command {
	opts := rankOpts{threshold: config.DefaultThreshold, out: outputOpts{format: formatTable}}

	cmd := &cobra.Command{
		Use:   "rank <users.json|users.toml>",
		Short: "Rank the neighbours of a saved user map",
		Example: `  starneighbours find cli/cli --save-users users.json
  starneighbours rank users.json --exclude cli/cli --threshold 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.out.format); err != nil {
				return err
			}
			users, err := dataset.ImportUsers(args[0])
			if err != nil {
				return err
			}
			res := neighbours.Rank(users, opts.exclude, opts.threshold)
			c.Logger.Debug("ranked", "users", users.Len(), "neighbours", len(res.Sorted))
			return c.writeResult(cmd.Context(), rankTarget(args[0], opts.exclude), res, opts.out)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.exclude, "exclude", "x", nil, "repositories to leave out, usually the searched one")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", opts.threshold, "minimum shared stargazers")
	opts.out.register(cmd)

	return cmd
}

// rankTarget names the root of a graph rendering: the first excluded repo,
// else the file name without extension.
func rankTarget(path string, exclude []string) string {
	if len(exclude) > 0 {
		return exclude[0]
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
