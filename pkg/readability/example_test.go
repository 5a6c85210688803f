package readability_test

import (
	"fmt"

	"github.com/matzehuels/readability/pkg/readability"
)

func ExampleComputeIndexed() {
	// The unit square with both diagonals drawn.
	nodes := []readability.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	links := []readability.Link[int]{{Source: 0, Target: 2}, {Source: 1, Target: 3}}

	s, err := readability.ComputeIndexed(nodes, links)
	if err != nil {
		panic(err)
	}
	fmt.Printf("crossing=%.4f angle=%.4f min=%.4f dev=%.4f\n",
		s.Crossing, s.CrossingAngle, s.AngularResolutionMin, s.AngularResolutionDev)
	fmt.Printf("clamped crossing=%.4f\n", s.Clamp().Crossing)
	// Output:
	// crossing=-1.0000 angle=0.7143 min=1.0000 dev=1.0000
	// clamped crossing=0.0000
}

func ExampleCompute() {
	nodes := []readability.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 1, Y: 0},
		{ID: "c", X: 1, Y: 1},
		{ID: "d", X: 0, Y: 1},
	}
	links := []readability.Link[string]{
		{Source: "a", Target: "b"}, {Source: "a", Target: "c"}, {Source: "a", Target: "d"},
		{Source: "b", Target: "c"}, {Source: "b", Target: "d"}, {Source: "c", Target: "d"},
	}

	s, err := readability.Compute(nodes, links, readability.IDKey)
	if err != nil {
		panic(err)
	}
	fmt.Printf("crossing=%.4f angle=%.4f min=%.4f dev=%.4f\n",
		s.Crossing, s.CrossingAngle, s.AngularResolutionMin, s.AngularResolutionDev)
	// Output:
	// crossing=0.3333 angle=0.7143 min=0.3750 dev=0.1667
}

func ExampleAnalyze() {
	nodes := []readability.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	links := []readability.Link[int]{{Source: 0, Target: 1}, {Source: 0, Target: 2}, {Source: 0, Target: 3}}

	r, err := readability.Analyze(nodes, links, readability.IndexKey)
	if err != nil {
		panic(err)
	}
	for _, n := range r.PerNode {
		fmt.Printf("node %d: degree=%d ideal=%.0f min=%.0f\n", n.Index, n.Degree, n.IdealAngle, n.MinAngle)
	}
	// Output:
	// node 0: degree=3 ideal=120 min=90
}
