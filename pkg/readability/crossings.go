package readability

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// CrossingResult holds the raw output of [AnalyzeCrossings]. Both values are
// twice the upper-triangle sums, matching the convention [Normalize] expects.
type CrossingResult struct {
	Count          float64 // 2 × number of crossing link pairs
	AngleDeviation float64 // 2 × Σ |ideal − acute crossing angle|, degrees
}

type crossingRow struct {
	count     int
	deviation float64
}

// AnalyzeCrossings tests every unordered pair of links for a crossing.
//
// Links that share a node never cross for this metric, whatever their
// geometry. For each crossing the deviation of its acute angle from the ideal
// crossing angle is accumulated.
//
// The pair loop is split by first link across [WithWorkers] goroutines. Each
// row is summed on its own and rows are combined in index order, so the
// floating-point result is identical for every worker count.
func AnalyzeCrossings(g *Graph, opts ...Option) CrossingResult {
	s := newSettings(opts)
	m := len(g.edges)
	if m < 2 {
		return CrossingResult{}
	}

	rows := make([]crossingRow, m)
	if s.workers <= 1 {
		for i := range m {
			rows[i] = g.crossingsFrom(i, s.idealAngle)
		}
	} else {
		var eg errgroup.Group
		workers := min(s.workers, m)
		for w := range workers {
			// Striding balances the triangular workload.
			eg.Go(func() error {
				for i := w; i < m; i += workers {
					rows[i] = g.crossingsFrom(i, s.idealAngle)
				}
				return nil
			})
		}
		_ = eg.Wait()
	}

	var count int
	var deviation float64
	for _, r := range rows {
		count += r.count
		deviation += r.deviation
	}
	return CrossingResult{
		Count:          2 * float64(count),
		AngleDeviation: 2 * deviation,
	}
}

// crossingsFrom checks link i against every link j > i.
func (g *Graph) crossingsFrom(i int, ideal float64) crossingRow {
	var r crossingRow
	ei := g.edges[i]
	si := g.Segment(i)
	for j := i + 1; j < len(g.edges); j++ {
		if ei.Shares(g.edges[j]) {
			continue
		}
		sj := g.Segment(j)
		if !SegmentsIntersect(si, sj) {
			continue
		}
		r.count++
		r.deviation += math.Abs(ideal - AcuteAngle(si, sj))
	}
	return r
}

// LinksCross reports whether links i and j of g cross for the purpose of
// the crossing metric: they must be distinct, share no node, and intersect.
func (g *Graph) LinksCross(i, j int) bool {
	if i == j || g.edges[i].Shares(g.edges[j]) {
		return false
	}
	return SegmentsIntersect(g.Segment(i), g.Segment(j))
}
