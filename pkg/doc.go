// Package pkg provides the libraries behind the readability tool.
//
// # Overview
//
// Readability scores node-link drawings: given node positions and links it
// measures how easy the picture is to read. The pkg directory is organized
// into four areas:
//
//  1. [readability] - The metrics (crossings, crossing angles, angular resolution)
//  2. [drawing], [layout] - Getting a positioned drawing (files, Graphviz)
//  3. [pipeline] - Orchestration (load → layout → score) with caching
//  4. [server], [config], [cache], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	drawing.json / drawing.yaml        graph.dot
//	         ↓                            ↓
//	    [drawing] codecs           [layout] Graphviz engine
//	         ↓                            ↓
//	              [pipeline] Runner (cache + hooks)
//	                          ↓
//	         [readability] Prepare → Evaluate
//	                          ↓
//	         Stats: four scores in [0, 1], 1 best
//
// # Quick Start
//
// Score positions and links held in memory:
//
//	import "github.com/matzehuels/readability/pkg/readability"
//
//	nodes := []readability.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
//	links := []readability.Link[int]{{Source: 0, Target: 2}, {Source: 1, Target: 3}}
//	stats, err := readability.ComputeIndexed(nodes, links)
//
// Score a drawing file with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.ExecuteFile(ctx, "graph.json", pipeline.Options{})
//
// # Main Packages
//
// [readability] - The core. Preprocessing (endpoint lookup, self-loop and
// duplicate removal), the geometry kernel, the crossing and angular resolution
// analyzers, and normalization into [readability.Stats]. It neither logs nor
// performs I/O.
//
// [drawing] - The file model: JSON and YAML drawings whose links reference
// nodes by id or index.
//
// [layout] - Runs a Graphviz engine on a DOT graph and reads the positions
// back. Also writes drawings as DOT with pinned positions.
//
// [pipeline] - Options, validation and the [pipeline.Runner] shared by the
// CLI and the HTTP server.
//
// [cache] - File, Redis and null caches behind one interface, plus key
// derivation.
//
// [config] - TOML configuration file.
//
// [server] - chi HTTP API.
//
// [observability] - Hooks for layout, scoring, cache and HTTP events.
//
// [errors] - Structured error codes shared by all of the above.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test -short ./...          # Skip tests that run Graphviz
//	go test -run Example ./pkg/...
//
// Redis tests run when READABILITY_TEST_REDIS_URL is set.
package pkg
