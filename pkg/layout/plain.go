package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/readability/pkg/drawing"
)

// ParsePlain reads Graphviz plain output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... xn yn [label xl yl] style color
//	stop
//
// Coordinates are multiplied by scale. Labels equal to the node name are
// dropped.
func ParsePlain(r io.Reader, scale float64) (*drawing.Drawing, error) {
	d := &drawing.Drawing{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; sc.Scan(); lineNo++ {
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "node":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: node needs a name and a position", lineNo)
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("line %d: bad position %q %q", lineNo, fields[2], fields[3])
			}
			n := drawing.Node{ID: fields[1], X: x * scale, Y: y * scale}
			if len(fields) > 6 && fields[6] != fields[1] && fields[6] != `\N` {
				n.Label = fields[6]
			}
			d.Nodes = append(d.Nodes, n)
		case "edge":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: edge needs a tail and a head", lineNo)
			}
			d.Links = append(d.Links, drawing.Link{Source: drawing.ID(fields[1]), Target: drawing.ID(fields[2])})
		case "stop":
			return d, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// splitPlain splits a plain output line on blanks, honoring double quotes
// and backslash escapes inside them.
func splitPlain(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote, inField := false, false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(line):
			i++
			if line[i] != '"' && line[i] != '\\' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(line[i])
		case c == '"':
			inQuote = !inQuote
			inField = true
		case !inQuote && (c == ' ' || c == '\t'):
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteByte(c)
			inField = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
