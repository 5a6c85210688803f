package readability

// MaxCrossings returns the largest number of crossings g could have: every
// pair of links minus the pairs that share a node, which can never cross.
func MaxCrossings(g *Graph) float64 {
	m := float64(len(g.edges))
	c := m * (m - 1) / 2
	for _, inc := range g.incident {
		d := float64(len(inc))
		c -= d * (d - 1) / 2
	}
	return c
}

// Normalize folds raw analyzer output into bounded scores.
//
//	crossing             = 1 − count / cMax              (1 when cMax <= 0)
//	crossingAngle        = 1 − deviation / (count·ideal) (1 when no crossings)
//	angularResolutionMin = 1 − resolutionMin
//	angularResolutionDev = 1 − resolutionDev
//
// Scores are not clamped; see [Stats.Clamp].
func Normalize(cMax float64, c CrossingResult, a AngularResult, idealAngle float64) Stats {
	s := Stats{
		Crossing:             1,
		CrossingAngle:        1,
		AngularResolutionMin: 1 - a.ResolutionMin,
		AngularResolutionDev: 1 - a.ResolutionDev,
	}
	if cMax > 0 {
		s.Crossing = 1 - c.Count/cMax
	}
	if dMax := c.Count * idealAngle; dMax > 0 {
		s.CrossingAngle = 1 - c.AngleDeviation/dMax
	}
	return s
}
