// Package render groups the visual outputs of a neighbour search.
//
// The [nodelink] subpackage draws the target and its neighbours as a
// Graphviz diagram:
//
//	dot := nodelink.ToDOT(target, res.Sorted, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/benjaminlong/mergify-algos/pkg/render/nodelink
package render
