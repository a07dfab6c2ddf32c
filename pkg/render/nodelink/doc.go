// Package nodelink renders neighbour results as node-link diagrams.
//
// # Overview
//
// The target repository is the root; each neighbour is a box linked to it
// by an edge labelled with the number of shared stargazers. Edge width
// grows with that number.
//
// # Usage
//
//	dot := nodelink.ToDOT("Mergifyio/mergify-engine", res.Sorted, nodelink.Options{Limit: 20})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With Detailed set, every shared stargazer is drawn as well, which makes
// clusters of users who star the same repositories visible.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source can also be saved and processed with external
// Graphviz tools.
package nodelink
