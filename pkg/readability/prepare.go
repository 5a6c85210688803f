package readability

import (
	"cmp"
	"slices"

	"github.com/matzehuels/readability/pkg/errors"
)

// Graph is the canonical form of a drawing: no self loops, at most one link
// per unordered node pair, dense indices, and a per-vertex incidence list.
//
// A Graph is immutable once returned by [Prepare] and is safe to share
// between goroutines.
type Graph struct {
	vertices   []Vertex
	edges      []Edge
	incident   [][]int // vertex index -> edge indices, in discovery order
	inputLinks int
}

// Prepare resolves links against nodes and builds the canonical graph.
//
// Endpoints are looked up by key(index, node). A nil key uses the node's
// position when K is int and fails with INVALID_INPUT otherwise. An endpoint
// whose key matches no node fails with a [*LookupError]. Self loops and links
// repeating an unordered node pair are dropped silently. The inputs are not
// modified.
func Prepare[K comparable](nodes []Node, links []Link[K], key KeyFunc[K]) (*Graph, error) {
	if key == nil {
		k, ok := positionalKey[K]()
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "key function is required for non-integer link keys")
		}
		key = k
	}

	lookup := make(map[K]int, len(nodes))
	g := &Graph{
		vertices:   make([]Vertex, len(nodes)),
		incident:   make([][]int, len(nodes)),
		inputLinks: len(links),
	}
	for i, n := range nodes {
		g.vertices[i] = Vertex{Index: i, X: n.X, Y: n.Y}
		k := key(i, n)
		if _, dup := lookup[k]; !dup {
			lookup[k] = i
		}
	}

	edges := make([]Edge, 0, len(links))
	for i, l := range links {
		s, ok := lookup[l.Source]
		if !ok {
			return nil, &LookupError{Link: i, End: "source", Key: l.Source}
		}
		t, ok := lookup[l.Target]
		if !ok {
			return nil, &LookupError{Link: i, End: "target", Key: l.Target}
		}
		if s == t {
			continue
		}
		if s > t {
			s, t = t, s
		}
		edges = append(edges, Edge{Source: s, Target: t})
	}

	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	edges = slices.CompactFunc(edges, func(a, b Edge) bool {
		return a.Source == b.Source && a.Target == b.Target
	})

	for i := range edges {
		edges[i].Index = i
		e := edges[i]
		g.incident[e.Source] = append(g.incident[e.Source], i)
		g.incident[e.Target] = append(g.incident[e.Target], i)
	}
	g.edges = edges
	return g, nil
}

// positionalKey returns IndexKey as a KeyFunc[K] when K is int.
func positionalKey[K comparable]() (KeyFunc[K], bool) {
	var f any = KeyFunc[int](IndexKey)
	k, ok := f.(KeyFunc[K])
	return k, ok
}

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int { return len(g.vertices) }

// LinkCount returns the number of links after preprocessing.
func (g *Graph) LinkCount() int { return len(g.edges) }

// InputLinkCount returns the number of links given to [Prepare].
func (g *Graph) InputLinkCount() int { return g.inputLinks }

// Vertex returns the vertex at index i.
func (g *Graph) Vertex(i int) Vertex { return g.vertices[i] }

// Edge returns the edge at index i.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// Edges returns a copy of the canonical edges, sorted by (Source, Target).
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Degree returns the number of distinct links incident to vertex v.
func (g *Graph) Degree(v int) int { return len(g.incident[v]) }

// Incident returns a copy of the edge indices incident to vertex v, in the
// order they were discovered.
func (g *Graph) Incident(v int) []int { return slices.Clone(g.incident[v]) }

// Segment returns the straight line drawn for edge i, from source to target.
func (g *Graph) Segment(i int) Segment {
	e := g.edges[i]
	return Segment{P0: g.vertices[e.Source].Point(), P1: g.vertices[e.Target].Point()}
}

// CrossingPairs returns the number of link pairs the crossing analysis
// visits. It lets callers estimate cost before evaluating.
func (g *Graph) CrossingPairs() int {
	m := len(g.edges)
	return m * (m - 1) / 2
}
