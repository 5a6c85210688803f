package drawing

import (
	"fmt"

	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/readability"
)

// Validate checks that every coordinate is finite and every index reference
// is in range. Unknown ids are reported by [Drawing.Inputs] with the
// offending link.
func (d *Drawing) Validate() error {
	for i, n := range d.Nodes {
		what := fmt.Sprintf("node %d", i)
		if n.ID != "" {
			what = fmt.Sprintf("node %q", n.ID)
		}
		if err := errors.ValidateFinite(what+" x", n.X); err != nil {
			return err
		}
		if err := errors.ValidateFinite(what+" y", n.Y); err != nil {
			return err
		}
	}
	for i, l := range d.Links {
		for _, end := range [2]Ref{l.Source, l.Target} {
			if end.ByIndex && (end.Index < 0 || end.Index >= len(d.Nodes)) {
				return errors.New(errors.ErrCodeEndpointNotFound, "link %d: index %d out of range [0, %d)", i, end.Index, len(d.Nodes))
			}
		}
	}
	return nil
}

// Inputs validates d and converts it to readability inputs keyed by
// position. Index references are kept as they are; id references resolve to
// the first node carrying that id. An id matching no node is reported as a
// [*readability.LookupError].
func (d *Drawing) Inputs() ([]readability.Node, []readability.Link[int], error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}

	nodes := make([]readability.Node, len(d.Nodes))
	byID := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = readability.Node{ID: n.ID, X: n.X, Y: n.Y}
		if _, dup := byID[n.ID]; n.ID != "" && !dup {
			byID[n.ID] = i
		}
	}

	links := make([]readability.Link[int], len(d.Links))
	for i, l := range d.Links {
		src, ok := resolve(byID, l.Source)
		if !ok {
			return nil, nil, &readability.LookupError{Link: i, End: "source", Key: l.Source.ID}
		}
		dst, ok := resolve(byID, l.Target)
		if !ok {
			return nil, nil, &readability.LookupError{Link: i, End: "target", Key: l.Target.ID}
		}
		links[i] = readability.Link[int]{Source: src, Target: dst}
	}
	return nodes, links, nil
}

func resolve(byID map[string]int, r Ref) (int, bool) {
	if r.ByIndex {
		return r.Index, true
	}
	i, ok := byID[r.ID]
	return i, ok
}

// Analyze scores the drawing.
func (d *Drawing) Analyze(opts ...readability.Option) (*readability.Report, error) {
	nodes, links, err := d.Inputs()
	if err != nil {
		return nil, err
	}
	return readability.Analyze(nodes, links, readability.IndexKey, opts...)
}

// FromGraph converts a prepared graph back into a drawing, referencing nodes
// by index. Dropped self loops and duplicate links stay dropped.
func FromGraph(g *readability.Graph) *Drawing {
	d := &Drawing{
		Nodes: make([]Node, g.NodeCount()),
		Links: make([]Link, g.LinkCount()),
	}
	for i := range d.Nodes {
		v := g.Vertex(i)
		d.Nodes[i] = Node{X: v.X, Y: v.Y}
	}
	for i, e := range g.Edges() {
		d.Links[i] = Link{Source: Index(e.Source), Target: Index(e.Target)}
	}
	return d
}
