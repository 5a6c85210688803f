// Package drawing provides the file formats for node-link drawings.
//
// # Overview
//
// A drawing is a list of positioned nodes and a list of links between them.
// This package reads and writes drawings and converts them into the inputs
// of [readability.Compute]. It is the serialization boundary of the module:
// the readability core never sees a file.
//
// # JSON Format
//
// The format follows the node-link convention used by force-directed
// layout tools:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0, "y": 0},
//	    {"id": "b", "x": 10, "y": 4}
//	  ],
//	  "links": [
//	    {"source": "a", "target": "b"},
//	    {"source": 0, "target": 1}
//	  ]
//	}
//
// A link endpoint is either a node id (string), a node index (number), or a
// node object carrying one of them ({"id": "a"} or {"index": 0}). Nodes
// without an id are addressed by index only.
//
// # YAML Format
//
// The YAML format has the same shape:
//
//	nodes:
//	  - {id: a, x: 0, y: 0}
//	  - {id: b, x: 10, y: 4}
//	links:
//	  - {source: a, target: b}
//
// # Reading Files
//
// [ReadFile] picks the codec from the file extension (see [DetectFormat]).
// DOT files are not drawings: they carry no positions and must go through
// the layout package first.
//
// # Scoring
//
// [Drawing.Inputs] validates the drawing and returns nodes and positional
// links ready for [readability.ComputeIndexed]. An index reference always
// means the node at that position, whatever ids the drawing carries.
// [Drawing.Analyze] does both steps.
package drawing
