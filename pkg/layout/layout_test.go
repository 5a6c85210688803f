package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
)

const samplePlain = `graph 1 2.5 1.5
node a 0.27 1.23 0.75 0.5 a solid ellipse black lightgrey
node "b c" 2.23 0.27 0.75 0.5 "B \"quoted\"" solid ellipse black lightgrey
node 3 1 1 0.75 0.5 \N solid ellipse black lightgrey
edge a "b c" 4 0.5 1 1 0.8 1.5 0.6 2 0.5 solid black
edge 3 a 4 1 1 0.8 1.1 0.6 1.2 0.5 1.2 solid black
stop
`

func TestParsePlain(t *testing.T) {
	d, err := ParsePlain(strings.NewReader(samplePlain), 1)
	if err != nil {
		t.Fatalf("ParsePlain: %v", err)
	}

	wantNodes := []drawing.Node{
		{ID: "a", X: 0.27, Y: 1.23},
		{ID: "b c", Label: `B "quoted"`, X: 2.23, Y: 0.27},
		{ID: "3", X: 1, Y: 1},
	}
	if len(d.Nodes) != len(wantNodes) {
		t.Fatalf("got %d nodes, want %d", len(d.Nodes), len(wantNodes))
	}
	for i, want := range wantNodes {
		if d.Nodes[i] != want {
			t.Errorf("node %d = %+v, want %+v", i, d.Nodes[i], want)
		}
	}

	wantLinks := []drawing.Link{
		{Source: drawing.ID("a"), Target: drawing.ID("b c")},
		{Source: drawing.ID("3"), Target: drawing.ID("a")},
	}
	for i, want := range wantLinks {
		if d.Links[i] != want {
			t.Errorf("link %d = %+v, want %+v", i, d.Links[i], want)
		}
	}
}

func TestParsePlainScale(t *testing.T) {
	d, err := ParsePlain(strings.NewReader("node a 1 2 1 1 a solid ellipse black white\n"), 72)
	if err != nil {
		t.Fatal(err)
	}
	if d.Nodes[0].X != 72 || d.Nodes[0].Y != 144 {
		t.Errorf("position = (%v, %v), want (72, 144)", d.Nodes[0].X, d.Nodes[0].Y)
	}
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"ShortNode", "node a 1\n"},
		{"BadPosition", "node a x 1 1 1 a solid ellipse black white\n"},
		{"ShortEdge", "edge a\n"},
		{"UnterminatedQuote", "node \"a 1 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlain(strings.NewReader(tt.in), 1); err == nil {
				t.Errorf("ParsePlain(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineNeato, false},
		{"neato", EngineNeato, false},
		{"FDP", EngineFDP, false},
		{" sfdp ", EngineSFDP, false},
		{"dot", EngineDot, false},
		{"osage", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEngine(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidOption) {
					t.Errorf("ParseEngine(%q) error = %v, want INVALID_OPTION", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEngine(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDOT(t *testing.T) {
	d := &drawing.Drawing{
		Nodes: []drawing.Node{{ID: "a", X: 1.5, Y: -2}, {X: 3, Y: 4, Label: "anon"}},
		Links: []drawing.Link{{Source: drawing.ID("a"), Target: drawing.Index(1)}},
	}

	got := ToDOT(d)
	for _, want := range []string{
		"graph G {",
		`"a" [pos="1.5,-2!"];`,
		`"#1" [pos="3,4!", xlabel="anon"];`,
		`"a" -- "#1";`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT output missing %q:\n%s", want, got)
		}
	}
}

func TestToDOTDistinctNames(t *testing.T) {
	tests := []struct {
		name  string
		nodes []drawing.Node
		links []drawing.Link
		want  []string
	}{
		{
			name:  "HashLikeID",
			nodes: []drawing.Node{{ID: "#1"}, {X: 1}},
			links: []drawing.Link{{Source: drawing.Index(0), Target: drawing.Index(1)}},
			want:  []string{`"#1" -- "#1'";`},
		},
		{
			name:  "DuplicateID",
			nodes: []drawing.Node{{ID: "a"}, {ID: "a", X: 1}},
			links: []drawing.Link{{Source: drawing.ID("a"), Target: drawing.Index(1)}},
			want:  []string{`"#1" [pos="1,0!"];`, `"a" -- "#1";`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDOT(&drawing.Drawing{Nodes: tt.nodes, Links: tt.links})
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("ToDOT output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the graphviz engine")
	}

	dot := []byte(`graph { a -- b; b -- c; c -- a; c -- d }`)
	for _, engine := range []Engine{EngineNeato, EngineDot} {
		t.Run(string(engine), func(t *testing.T) {
			d, err := Layout(context.Background(), dot, Options{Engine: engine})
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if len(d.Nodes) != 4 || len(d.Links) != 4 {
				t.Fatalf("got %d nodes and %d links, want 4 and 4", len(d.Nodes), len(d.Links))
			}
			if _, err := d.Analyze(); err != nil {
				t.Errorf("Analyze laid out drawing: %v", err)
			}
		})
	}
}

func TestLayoutUnknownEngine(t *testing.T) {
	_, err := Layout(context.Background(), []byte("graph { a }"), Options{Engine: "nope"})
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("unknown engine: got %v, want INVALID_OPTION", err)
	}
}
