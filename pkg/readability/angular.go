package readability

import (
	"math"
	"slices"
)

// AngularResult holds the raw output of [AnalyzeAngularResolution].
type AngularResult struct {
	// ResolutionMin is the mean min-angle deviation over ResolvedNodes.
	ResolutionMin float64
	// ResolutionDev is the mean gap deviation over ResolvedNodes.
	ResolutionDev float64
	// ResolvedNodes counts vertices with degree >= 1.
	ResolvedNodes int
	// PerNode holds one entry per vertex with degree >= 2, by vertex index.
	PerNode []NodeResolution
}

// AnalyzeAngularResolution measures, at every vertex of degree two or more,
// how far the angles between consecutive incident links stray from an even
// 360/degree spacing.
//
// Both sums are divided by the number of vertices with degree >= 1, so
// degree-one vertices dilute the average without contributing to it. When no
// vertex has a link the result is zero, which normalizes to a perfect score.
func AnalyzeAngularResolution(g *Graph, opts ...Option) AngularResult {
	s := newSettings(opts)

	var res AngularResult
	var minSum, devSum float64
	for v := range g.vertices {
		deg := len(g.incident[v])
		if deg >= 1 {
			res.ResolvedNodes++
		}
		if deg < 2 {
			continue
		}
		nr := g.resolutionAt(v, s.divisor)
		minSum += nr.MinDeviation
		devSum += nr.DevDeviation
		res.PerNode = append(res.PerNode, nr)
	}

	if res.ResolvedNodes > 0 {
		res.ResolutionMin = minSum / float64(res.ResolvedNodes)
		res.ResolutionDev = devSum / float64(res.ResolvedNodes)
	}
	return res
}

// resolutionAt computes the contribution of vertex v, which has degree >= 2.
func (g *Graph) resolutionAt(v int, divisor Divisor) NodeResolution {
	incident := g.incident[v]
	deg := len(incident)
	ideal := 360 / float64(deg)

	center := g.vertices[v].Point()
	ref := Seg(center, Pt(center.X+1, center.Y))

	directions := make([]float64, deg)
	for i, ei := range incident {
		other := g.vertices[g.edges[ei].Other(v)].Point()
		directions[i] = DirectedAngle(ref, Seg(center, other))
	}
	slices.SortStableFunc(directions, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	// Gaps between circular neighbours; the wrap-around gap closes the
	// circle so the gaps always sum to 360.
	minGap := math.Inf(1)
	var devSum float64
	for i := range deg {
		var gap float64
		if i == deg-1 {
			gap = directions[i] + 360 - directions[0]
		} else {
			gap = directions[i] - directions[i+1]
		}
		minGap = math.Min(minGap, gap)
		devSum += math.Abs(ideal-gap) / ideal
	}

	return NodeResolution{
		Index:        v,
		Degree:       deg,
		IdealAngle:   ideal,
		MinAngle:     minGap,
		MinDeviation: math.Abs(ideal-minGap) / ideal,
		DevDeviation: devSum / divisor.of(deg),
	}
}
