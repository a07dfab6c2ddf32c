package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/pkg/dataset"
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
	"github.com/benjaminlong/mergify-algos/pkg/render/nodelink"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatTOML  = "toml"
	formatDOT   = "dot"
	formatSVG   = "svg"
)

var outputFormats = []string{formatTable, formatJSON, formatTOML, formatDOT, formatSVG}

// sharedPreview is how many stargazers the table lists per repository.
const sharedPreview = 3

// outputOpts holds the flags shared by commands printing a result.
type outputOpts struct {
	format   string
	output   string
	detailed bool
	limit    int
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", o.format, "output format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "draw stargazers as nodes (dot, svg)")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "show only the first n neighbours (table, dot, svg)")
}

func validateFormat(f string) error {
	if !slices.Contains(outputFormats, f) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (want %s)", f, strings.Join(outputFormats, ", "))
	}
	return nil
}

// writeResult encodes res and writes it to the output file, or to stdout.
func (c *CLI) writeResult(ctx context.Context, target string, res *neighbours.Result, opts outputOpts) error {
	data, err := encodeResult(ctx, target, res, opts)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	c.printSuccess("Wrote %d neighbours of %s", len(res.Sorted), target)
	c.printFile(opts.output)
	return nil
}

func encodeResult(ctx context.Context, target string, res *neighbours.Result, opts outputOpts) ([]byte, error) {
	switch opts.format {
	case formatTable:
		return []byte(renderTable(res.Sorted, opts.limit) + "\n"), nil
	case formatJSON, formatTOML:
		var buf bytes.Buffer
		if err := dataset.WriteResult(res, &buf, dataset.Format(opts.format)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT, formatSVG:
		dot := nodelink.ToDOT(target, res.Sorted, nodelink.Options{Detailed: opts.detailed, Limit: opts.limit})
		if opts.format == formatDOT {
			return []byte(dot), nil
		}
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nil, validateFormat(opts.format)
	}
}

// renderTable lays out ns as a bordered table, strongest neighbour first.
func renderTable(ns []neighbours.Neighbour, limit int) string {
	if len(ns) == 0 {
		return StyleDim.Render("No neighbours found")
	}
	total := len(ns)
	if limit > 0 && total > limit {
		ns = ns[:limit]
	}

	rows := make([][]string, len(ns))
	for i, n := range ns {
		rows[i] = []string{strconv.Itoa(i + 1), n.Repo, strconv.Itoa(n.StargazersCount), sharedWith(n.Stargazers)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Repository", "Shared", "Stargazers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return StyleNumber
			case col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	out := t.Render()
	if len(ns) < total {
		out += "\n" + StyleDim.Render(fmt.Sprintf("  %d of %d neighbours", len(ns), total))
	}
	return out
}

func sharedWith(users []string) string {
	if len(users) <= sharedPreview {
		return strings.Join(users, ", ")
	}
	return fmt.Sprintf("%s, +%d", strings.Join(users[:sharedPreview], ", "), len(users)-sharedPreview)
}
