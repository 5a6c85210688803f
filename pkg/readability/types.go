package readability

import (
	"fmt"
	"math"

	"github.com/matzehuels/readability/pkg/errors"
)

// Node is a caller-supplied drawing node. The package only reads it.
type Node struct {
	ID string  // Optional identity, used by IDKey
	X  float64 // Horizontal position
	Y  float64 // Vertical position
}

// Link is an undirected link between two nodes, referenced by key.
type Link[K comparable] struct {
	Source K
	Target K
}

// KeyFunc extracts the key a node is referenced by in links. Keys must be
// unique across nodes; when two nodes share a key the first one wins.
type KeyFunc[K comparable] func(index int, n Node) K

// IndexKey keys nodes by their position in the node slice.
func IndexKey(index int, _ Node) int { return index }

// IDKey keys nodes by [Node.ID].
func IDKey(_ int, n Node) string { return n.ID }

// Vertex is a node of a prepared [Graph].
type Vertex struct {
	Index int
	X, Y  float64
}

// Point returns the vertex position.
func (v Vertex) Point() Point { return Point{X: v.X, Y: v.Y} }

// Edge is a link of a prepared [Graph]. Source <= Target always holds.
type Edge struct {
	Index  int
	Source int
	Target int
}

// Shares reports whether e and o have a vertex in common.
func (e Edge) Shares(o Edge) bool {
	return e.Source == o.Source || e.Source == o.Target ||
		e.Target == o.Source || e.Target == o.Target
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v int) int {
	if e.Source == v {
		return e.Target
	}
	return e.Source
}

// Stats holds the four readability scores. Higher is more readable.
type Stats struct {
	Crossing             float64 `json:"crossing" yaml:"crossing"`
	CrossingAngle        float64 `json:"crossingAngle" yaml:"crossingAngle"`
	AngularResolutionMin float64 `json:"angularResolutionMin" yaml:"angularResolutionMin"`
	AngularResolutionDev float64 `json:"angularResolutionDev" yaml:"angularResolutionDev"`
}

// Clamp returns a copy of s with every score bounded to [0, 1].
func (s Stats) Clamp() Stats {
	return Stats{
		Crossing:             clamp01(s.Crossing),
		CrossingAngle:        clamp01(s.CrossingAngle),
		AngularResolutionMin: clamp01(s.AngularResolutionMin),
		AngularResolutionDev: clamp01(s.AngularResolutionDev),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// NodeResolution is the angular resolution contribution of one vertex with
// degree of at least two.
type NodeResolution struct {
	Index        int     `json:"index" yaml:"index"`
	Degree       int     `json:"degree" yaml:"degree"`
	IdealAngle   float64 `json:"idealAngle" yaml:"idealAngle"`     // 360 / degree
	MinAngle     float64 `json:"minAngle" yaml:"minAngle"`         // smallest gap between consecutive links
	MinDeviation float64 `json:"minDeviation" yaml:"minDeviation"` // |ideal - min| / ideal
	DevDeviation float64 `json:"devDeviation" yaml:"devDeviation"` // averaged |ideal - gap| / ideal
}

// Report is the detailed outcome of an evaluation: the scores plus the raw
// sums they were derived from.
type Report struct {
	Stats Stats `json:"stats" yaml:"stats"`

	Nodes         int `json:"nodes" yaml:"nodes"`
	InputLinks    int `json:"inputLinks" yaml:"inputLinks"`
	Links         int `json:"links" yaml:"links"` // after self-loop removal and deduplication
	ResolvedNodes int `json:"resolvedNodes" yaml:"resolvedNodes"`

	Crossings      float64 `json:"crossings" yaml:"crossings"`           // doubled pair count
	AngleDeviation float64 `json:"angleDeviation" yaml:"angleDeviation"` // doubled deviation sum, degrees
	MaxCrossings   float64 `json:"maxCrossings" yaml:"maxCrossings"`
	MaxDeviation   float64 `json:"maxDeviation" yaml:"maxDeviation"`
	ResolutionMin  float64 `json:"resolutionMin" yaml:"resolutionMin"`
	ResolutionDev  float64 `json:"resolutionDev" yaml:"resolutionDev"`

	PerNode []NodeResolution `json:"perNode,omitempty" yaml:"perNode,omitempty"`
}

// LookupError reports a link endpoint whose key matches no node.
type LookupError struct {
	Link int    // Position of the link in the input slice
	End  string // "source" or "target"
	Key  any    // The unresolved key
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("link %d: %s %v matches no node", e.Link, e.End, e.Key)
}

// Code returns the error code for this error type.
func (e *LookupError) Code() errors.Code {
	return errors.ErrCodeEndpointNotFound
}
