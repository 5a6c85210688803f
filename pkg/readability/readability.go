package readability

// Compute prepares the drawing and returns its readability scores.
//
// Links reference nodes through key; see [Prepare] for how endpoints are
// resolved and which links are dropped. The only error is a [*LookupError]
// for an endpoint that matches no node (or INVALID_INPUT for a nil key with
// non-integer keys).
func Compute[K comparable](nodes []Node, links []Link[K], key KeyFunc[K], opts ...Option) (Stats, error) {
	r, err := Analyze(nodes, links, key, opts...)
	if err != nil {
		return Stats{}, err
	}
	return r.Stats, nil
}

// ComputeIndexed is [Compute] with links referencing nodes by position.
func ComputeIndexed(nodes []Node, links []Link[int], opts ...Option) (Stats, error) {
	return Compute(nodes, links, IndexKey, opts...)
}

// Analyze is like [Compute] but returns the full [Report].
func Analyze[K comparable](nodes []Node, links []Link[K], key KeyFunc[K], opts ...Option) (*Report, error) {
	g, err := Prepare(nodes, links, key)
	if err != nil {
		return nil, err
	}
	return Evaluate(g, opts...), nil
}

// Evaluate runs both analyzers over a prepared graph and normalizes their
// output. Evaluating the same graph with the same options always yields
// identical reports.
func Evaluate(g *Graph, opts ...Option) *Report {
	s := newSettings(opts)

	c := AnalyzeCrossings(g, opts...)
	a := AnalyzeAngularResolution(g, opts...)
	cMax := MaxCrossings(g)

	return &Report{
		Stats:          Normalize(cMax, c, a, s.idealAngle),
		Nodes:          g.NodeCount(),
		InputLinks:     g.InputLinkCount(),
		Links:          g.LinkCount(),
		ResolvedNodes:  a.ResolvedNodes,
		Crossings:      c.Count,
		AngleDeviation: c.AngleDeviation,
		MaxCrossings:   cMax,
		MaxDeviation:   c.Count * s.idealAngle,
		ResolutionMin:  a.ResolutionMin,
		ResolutionDev:  a.ResolutionDev,
		PerNode:        a.PerNode,
	}
}
