package readability

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/readability/pkg/errors"
)

func perfect() Stats {
	return Stats{Crossing: 1, CrossingAngle: 1, AngularResolutionMin: 1, AngularResolutionDev: 1}
}

func TestComputeTrivialDrawings(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		links []Link[int]
	}{
		{"empty", nil, nil},
		{"nodes only", square(), nil},
		{"single link", line(2), []Link[int]{{0, 1}}},
		{"self loops only", line(2), []Link[int]{{0, 0}, {1, 1}}},
		{"duplicated link", line(2), []Link[int]{{0, 1}, {1, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeIndexed(tt.nodes, tt.links)
			require.NoError(t, err)
			assert.Equal(t, perfect(), got)
		})
	}
}

func TestComputeSquareDiagonals(t *testing.T) {
	got, err := ComputeIndexed(square(), []Link[int]{{0, 2}, {1, 3}})
	require.NoError(t, err)

	assert.InDelta(t, -1, got.Crossing, 1e-9)
	assert.Less(t, got.Crossing, 1.0)
	assert.InDelta(t, 1-20.0/70, got.CrossingAngle, 1e-9)
	assert.Equal(t, 1.0, got.AngularResolutionMin)
	assert.Equal(t, 1.0, got.AngularResolutionDev)

	right, err := ComputeIndexed(square(), []Link[int]{{0, 2}, {1, 3}}, WithIdealAngle(90))
	require.NoError(t, err)
	assert.InDelta(t, 1, right.CrossingAngle, 1e-9)
}

func TestComputeCompleteSquare(t *testing.T) {
	links := []Link[int]{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	r, err := Analyze(square(), links, IndexKey)
	require.NoError(t, err)

	assert.Equal(t, 3.0, r.MaxCrossings)
	assert.Equal(t, 2.0, r.Crossings)
	assert.InDelta(t, 140, r.MaxDeviation, 1e-9)
	assert.InDelta(t, 1.0/3, r.Stats.Crossing, 1e-9)
	assert.InDelta(t, 1-40.0/140, r.Stats.CrossingAngle, 1e-9)
	// Each corner sees gaps of 45, 45 and 270 against an ideal of 120.
	assert.InDelta(t, 1-0.625, r.Stats.AngularResolutionMin, 1e-9)
	assert.InDelta(t, 1-2.5/3, r.Stats.AngularResolutionDev, 1e-9)
	assert.Len(t, r.PerNode, 4)
}

func TestComputeEvenStar(t *testing.T) {
	for k := 2; k <= 8; k++ {
		nodes, links := star(k, 0)
		got, err := ComputeIndexed(nodes, links)
		require.NoError(t, err)
		assert.InDelta(t, 1, got.AngularResolutionMin, 1e-9, "k=%d", k)
		assert.InDelta(t, 1, got.AngularResolutionDev, 1e-9, "k=%d", k)
		assert.Equal(t, 1.0, got.Crossing)
		assert.Equal(t, 1.0, got.CrossingAngle)
	}
}

func TestComputeIDKeys(t *testing.T) {
	nodes := []Node{{ID: "nw", Y: 1}, {ID: "se", X: 1}, {ID: "sw"}, {ID: "ne", X: 1, Y: 1}}
	links := []Link[string]{{"sw", "ne"}, {"nw", "se"}}

	got, err := Compute(nodes, links, IDKey)
	require.NoError(t, err)
	assert.InDelta(t, -1, got.Crossing, 1e-9)

	_, err = Compute(nodes, []Link[string]{{"sw", "nowhere"}}, IDKey)
	assert.True(t, errors.Is(err, errors.ErrCodeEndpointNotFound))
}

func TestComputeScoresAtMostOne(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for range 200 {
		g := randomGraph(t, r.Uint64(), 2+r.IntN(20), r.IntN(40))
		s := Evaluate(g).Stats
		for _, v := range []float64{s.Crossing, s.CrossingAngle, s.AngularResolutionMin, s.AngularResolutionDev} {
			assert.LessOrEqual(t, v, 1.0+1e-9)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	g := randomGraph(t, 9, 40, 90)

	want := Evaluate(g)
	assert.Equal(t, want, Evaluate(g))
	assert.Equal(t, want, Evaluate(g, WithWorkers(6)))
	assert.Equal(t, 90, want.InputLinks)
	assert.LessOrEqual(t, want.Links, 90)
}

func TestStatsClamp(t *testing.T) {
	s := Stats{Crossing: -1, CrossingAngle: 0.5, AngularResolutionMin: 1.5, AngularResolutionDev: 0}
	assert.Equal(t, Stats{Crossing: 0, CrossingAngle: 0.5, AngularResolutionMin: 1, AngularResolutionDev: 0}, s.Clamp())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		cMax float64
		c    CrossingResult
		a    AngularResult
		want Stats
	}{
		{"nothing", 0, CrossingResult{}, AngularResult{}, perfect()},
		{"no possible crossings", 0, CrossingResult{Count: 4, AngleDeviation: 10}, AngularResult{}, Stats{1, 1 - 10.0/280, 1, 1}},
		{"half crossed", 4, CrossingResult{Count: 2, AngleDeviation: 0}, AngularResult{ResolutionMin: 0.5, ResolutionDev: 0.25}, Stats{0.5, 1, 0.5, 0.75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.cMax, tt.c, tt.a, DefaultIdealAngle)
			assert.InDelta(t, tt.want.Crossing, got.Crossing, 1e-9)
			assert.InDelta(t, tt.want.CrossingAngle, got.CrossingAngle, 1e-9)
			assert.InDelta(t, tt.want.AngularResolutionMin, got.AngularResolutionMin, 1e-9)
			assert.InDelta(t, tt.want.AngularResolutionDev, got.AngularResolutionDev, 1e-9)
		})
	}
}
