package layout

import (
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/readability/pkg/errors"
)

// Engine names a Graphviz layout engine.
type Engine string

// Supported engines.
const (
	EngineNeato Engine = "neato"
	EngineFDP   Engine = "fdp"
	EngineSFDP  Engine = "sfdp"
	EngineDot   Engine = "dot"
	EngineCirco Engine = "circo"
	EngineTwopi Engine = "twopi"
)

// DefaultEngine is the force-directed engine, the usual producer of the
// drawings these metrics were designed for.
const DefaultEngine = EngineNeato

// Engines lists the supported engines in display order.
var Engines = []Engine{EngineNeato, EngineFDP, EngineSFDP, EngineDot, EngineCirco, EngineTwopi}

var graphvizLayouts = map[Engine]graphviz.Layout{
	EngineNeato: graphviz.NEATO,
	EngineFDP:   graphviz.FDP,
	EngineSFDP:  graphviz.SFDP,
	EngineDot:   graphviz.DOT,
	EngineCirco: graphviz.CIRCO,
	EngineTwopi: graphviz.TWOPI,
}

// ParseEngine parses an engine name. The empty string selects [DefaultEngine].
func ParseEngine(s string) (Engine, error) {
	if s == "" {
		return DefaultEngine, nil
	}
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := graphvizLayouts[e]; !ok {
		return "", errors.New(errors.ErrCodeInvalidOption, "unknown layout engine %q (must be one of %s)", s, engineList())
	}
	return e, nil
}

func engineList() string {
	names := make([]string, len(Engines))
	for i, e := range Engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
