package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
)

// pointsPerInch converts the inch coordinates of plain output to points, the
// unit of Graphviz SVG output.
const pointsPerInch = 72.0

// plainFormat is Graphviz's line-oriented output with positions in inches.
const plainFormat graphviz.Format = "plain"

// Options configures [Layout].
type Options struct {
	// Engine selects the layout engine. Empty means [DefaultEngine].
	Engine Engine
	// Scale multiplies the inch coordinates of the layout. Zero means 72,
	// giving coordinates in points.
	Scale float64
}

// Layout positions the graph described by dot and returns it as a drawing.
//
// Nodes keep their DOT names as ids. Edge direction is preserved in the
// link order but is otherwise irrelevant to scoring.
func Layout(ctx context.Context, dot []byte, opts Options) (*drawing.Drawing, error) {
	engine, err := ParseEngine(string(opts.Engine))
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = pointsPerInch
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	gv.SetLayout(graphvizLayouts[engine])
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "%s layout", engine)
	}

	d, err := ParsePlain(&buf, scale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "read %s output", engine)
	}
	return d, nil
}

// ToDOT writes d as an undirected DOT graph. Every node is pinned to its
// position (in points) so neato -n reproduces the drawing exactly.
func ToDOT(d *drawing.Drawing) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  node [shape=point];\n")
	buf.WriteString("\n")

	names := dotNames(d.Nodes)
	for i, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [pos=\"%g,%g!\"", names[i], n.X, n.Y)
		if n.Label != "" {
			fmt.Fprintf(&buf, ", xlabel=%q", n.Label)
		}
		buf.WriteString("];\n")
	}

	byID := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, dup := byID[n.ID]; n.ID != "" && !dup {
			byID[n.ID] = i
		}
	}

	buf.WriteString("\n")
	name := func(r drawing.Ref) string {
		if r.ByIndex && r.Index >= 0 && r.Index < len(names) {
			return names[r.Index]
		}
		if i, ok := byID[r.ID]; ok && !r.ByIndex {
			return names[i]
		}
		return r.String()
	}
	for _, l := range d.Links {
		fmt.Fprintf(&buf, "  %q -- %q;\n", name(l.Source), name(l.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotNames gives every node a distinct DOT name: its id where that id is
// first seen, otherwise "#i", suffixed until it clashes with nothing.
func dotNames(nodes []drawing.Node) []string {
	taken := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			taken[n.ID] = true
		}
	}

	names := make([]string, len(nodes))
	used := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		name := n.ID
		if name == "" || used[name] {
			name = fmt.Sprintf("#%d", i)
			for taken[name] || used[name] {
				name += "'"
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}
