package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/pkg/config"
	"github.com/benjaminlong/mergify-algos/pkg/dataset"
	"github.com/benjaminlong/mergify-algos/pkg/integrations/github"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

// findOpts holds the flags of the find command. Settings flags only
// override the configuration when given explicitly.
type findOpts struct {
	mode      string
	pageLimit int
	threshold int
	token     string
	retries   int
	rps       float64
	cache     bool
	saveUsers string
	out       outputOpts
}

func (c *CLI) findCommand() *cobra.Command {
	opts := findOpts{
		mode:      string(neighbours.ModeConcurrent),
		pageLimit: config.DefaultPageLimit,
		threshold: config.DefaultThreshold,
		out:       outputOpts{format: formatTable},
	}

	cmd := &cobra.Command{
		Use:   "find owner/repo",
		Short: "Find repositories sharing stargazers with a repository",
		Long: `Find lists the stargazers of a repository, fetches the repositories each of
them starred and ranks those by the number of shared stargazers.

Modes:
  concurrent  fetch starred lists in parallel batches (default)
  sequential  fetch starred lists one user at a time
  bulk        one GraphQL query, capped at 50 users and 50 repos each`,
		Example: `  starneighbours find cli/cli
  starneighbours find cli/cli --page-limit 5 --threshold 3 --format json -o neighbours.json
  starneighbours find cli/cli --mode bulk --format svg -o neighbours.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := neighbours.ParseMode(opts.mode)
			if err != nil {
				return err
			}
			if err := validateFormat(opts.out.format); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			owner, repo, err := github.RulesFor(cfg.APIURL).ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			req := neighbours.Request{
				Owner:     owner,
				Repo:      repo,
				Token:     cfg.GitHubToken,
				PageLimit: cfg.PageLimit,
				Threshold: cfg.Threshold,
			}
			return c.runFind(cmd.Context(), cfg, req, mode, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "fetch mode: concurrent, sequential, bulk")
	cmd.Flags().IntVarP(&opts.pageLimit, "page-limit", "p", opts.pageLimit, "pages fetched per listing")
	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", opts.threshold, "minimum shared stargazers")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token (default: configured token)")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "retries of failed requests")
	cmd.Flags().Float64Var(&opts.rps, "rps", 0, "max requests per second (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "cache responses on disk")
	cmd.Flags().StringVar(&opts.saveUsers, "save-users", "", "save the fetched user map (.json or .toml) for the rank command")
	opts.out.register(cmd)

	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (o *findOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("page-limit") {
		cfg.PageLimit = o.pageLimit
	}
	if flags.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if flags.Changed("token") {
		cfg.GitHubToken = o.token
	}
	if flags.Changed("retries") {
		cfg.Retries = o.retries
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond = o.rps
	}
	if o.cache && cfg.Cache.Backend == config.CacheNone {
		cfg.Cache.Backend = config.CacheFile
	}
}

func (c *CLI) runFind(ctx context.Context, cfg *config.Config, req neighbours.Request, mode neighbours.Mode, opts findOpts) error {
	store, err := cfg.OpenCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	finder := c.newFinder(cfg, store)
	watch := newStopwatch(c.Logger)

	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Collecting stargazers of %s (%s)...", req.FullName(), mode))
		spinner.Start()
	}
	users, err := finder.Collect(ctx, req, mode)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	watch.lap("collected", "repo", req.FullName(), "stargazers", users.Len())

	if opts.saveUsers != "" {
		if err := dataset.ExportUsers(users, opts.saveUsers); err != nil {
			return err
		}
		c.Logger.Info("Saved user map", "path", opts.saveUsers)
	}

	res := neighbours.Rank(users, []string{req.FullName()}, req.Threshold)
	watch.lap("ranked", "neighbours", len(res.Sorted))
	c.Logger.Debug("find finished", "total", watch.total().Round(time.Millisecond))
	return c.writeResult(ctx, req.FullName(), res, opts.out)
}
