// Package readability scores how readable a straight-line node-link drawing is.
//
// # Overview
//
// Given node positions and an undirected link list, the package computes four
// normalized scores in which higher means more readable:
//
//   - Crossing: how few link crossings the drawing has, relative to the
//     maximum number of crossings the graph could possibly have
//   - CrossingAngle: how close crossings come to the ideal crossing angle (70°)
//   - AngularResolutionMin: how close the smallest angle between links at each
//     node comes to even spacing
//   - AngularResolutionDev: how close all angles between links at each node
//     come to even spacing, on average
//
// The package evaluates a layout; it never computes one.
//
// # Basic Usage
//
// Links refer to their endpoints by key. [ComputeIndexed] uses the node's
// position in the slice, [Compute] accepts any [KeyFunc]:
//
//	nodes := []readability.Node{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}
//	links := []readability.Link[int]{{Source: 0, Target: 1}, {Source: 2, Target: 3}}
//	stats, err := readability.ComputeIndexed(nodes, links)
//
//	links := []readability.Link[string]{{Source: "a", Target: "b"}}
//	stats, err := readability.Compute(nodes, links, readability.IDKey)
//
// # Pipeline
//
// [Prepare] resolves link endpoints into an immutable [Graph]: self loops are
// dropped, links connecting the same unordered node pair are collapsed, and
// each node gets an incidence list. [AnalyzeCrossings] and
// [AnalyzeAngularResolution] run independently over that graph and
// [Normalize] folds their raw sums into [Stats]. [Evaluate] runs the analyzers
// and the normalizer on an already prepared graph and is deterministic.
//
// # Scores Outside [0,1]
//
// The crossing count and the crossing-angle deviation are doubled before
// normalization while the maximum crossing count is not, so a drawing with
// many crossings can score below zero. Angular contributions above the ideal
// angle can do the same. Use [Stats.Clamp] when a strict bound is required.
//
// # Errors
//
// The only failure is a link endpoint that resolves to no node, reported as
// a [*LookupError]. Degenerate inputs (no links, isolated nodes) produce
// defined fallback scores of 1.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use. [WithWorkers] splits the
// pairwise crossing loop across goroutines; partial sums are reduced in a fixed
// order so results do not depend on the number of workers.
package readability
