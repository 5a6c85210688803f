// Package layout positions abstract graphs with Graphviz so their drawings
// can be scored.
//
// Readability metrics need coordinates. A DOT file only describes structure,
// so [Layout] hands it to one of the Graphviz engines bundled with
// github.com/goccy/go-graphviz and reads the node positions back from the
// engine's "plain" output:
//
//	d, err := layout.Layout(ctx, dot, layout.Options{Engine: layout.EngineNeato})
//	if err != nil {
//	    return err
//	}
//	report, err := d.Analyze()
//
// [ToDOT] goes the other way and writes a drawing as DOT with pinned
// positions, so an existing drawing can be rendered by any Graphviz tool.
package layout
