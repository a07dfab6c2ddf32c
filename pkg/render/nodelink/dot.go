package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds one node per stargazer, linked to the repos they share
	// with the target. When false, only repos are drawn.
	Detailed bool

	// Limit keeps the first Limit neighbours of the list. 0 keeps all.
	Limit int
}

// ToDOT converts a ranked neighbour list to Graphviz DOT, with the target
// repository at the root and one edge per neighbour labelled with the
// number of shared stargazers. Pass the sorted list so that the strongest
// neighbours sit closest to the root.
func ToDOT(target string, ns []neighbours.Neighbour, opts Options) string {
	if opts.Limit > 0 && len(ns) > opts.Limit {
		ns = ns[:opts.Limit]
	}

	maxCount := 1
	for _, n := range ns {
		maxCount = max(maxCount, n.StargazersCount)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [fillcolor=gold, fontsize=18];\n", target)
	for _, n := range ns {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.Repo, fmtLabel(n))
	}

	buf.WriteString("\n")
	for _, n := range ns {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\", penwidth=%.2f];\n",
			target, n.Repo, n.StargazersCount, penWidth(n.StargazersCount, maxCount))
	}

	if opts.Detailed {
		buf.WriteString("\n")
		buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=lightgrey, fontsize=10];\n")
		seen := make(map[string]bool)
		for _, n := range ns {
			for _, u := range n.Stargazers {
				if !seen[u] {
					seen[u] = true
					fmt.Fprintf(&buf, "  %q;\n", "@"+u)
				}
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none, color=grey];\n", n.Repo, "@"+u)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n neighbours.Neighbour) string {
	return n.Repo + "\n" + strings.Repeat("★", min(n.StargazersCount, 5)) + " " + strconv.Itoa(n.StargazersCount)
}

// penWidth scales edges between 1 and 6 points by share of the maximum.
func penWidth(count, maxCount int) float64 {
	return 1 + 5*float64(count)/float64(maxCount)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root tag so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
