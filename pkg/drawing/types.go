package drawing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Drawing is the serialization format for a positioned node-link drawing.
type Drawing struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// Node is a positioned drawing node.
type Node struct {
	ID    string  `json:"id,omitempty" yaml:"id,omitempty"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"` // Display label (defaults to ID)
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link connects two nodes. Direction is kept for round trips but ignored
// by scoring.
type Link struct {
	Source Ref `json:"source" yaml:"source"`
	Target Ref `json:"target" yaml:"target"`
}

// Ref addresses a node either by id or by position.
type Ref struct {
	ID      string
	Index   int
	ByIndex bool
}

// ID returns a reference to the node with the given id.
func ID(id string) Ref { return Ref{ID: id} }

// Index returns a reference to the node at position i.
func Index(i int) Ref { return Ref{Index: i, ByIndex: true} }

// String returns the id, or "#i" for index references.
func (r Ref) String() string {
	if r.ByIndex {
		return "#" + strconv.Itoa(r.Index)
	}
	return r.ID
}

// refObject is the node-object form of an endpoint.
type refObject struct {
	ID    *string `json:"id" yaml:"id"`
	Index *int    `json:"index" yaml:"index"`
}

func (o refObject) ref() (Ref, error) {
	switch {
	case o.ID != nil:
		return ID(*o.ID), nil
	case o.Index != nil:
		return Index(*o.Index), nil
	}
	return Ref{}, fmt.Errorf("endpoint object needs an id or an index")
}

// MarshalJSON writes index references as numbers and id references as strings.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ByIndex {
		return []byte(strconv.Itoa(r.Index)), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts a string id, an integer index, or a node object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty endpoint")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ID(s)
		return nil
	case '{':
		var o refObject
		if err := json.Unmarshal(data, &o); err != nil {
			return err
		}
		ref, err := o.ref()
		if err != nil {
			return err
		}
		*r = ref
		return nil
	}
	i, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("endpoint %s is neither an id nor an index", data)
	}
	*r = Index(i)
	return nil
}

// MarshalYAML mirrors [Ref.MarshalJSON].
func (r Ref) MarshalYAML() (any, error) {
	if r.ByIndex {
		return r.Index, nil
	}
	return r.ID, nil
}

// UnmarshalYAML mirrors [Ref.UnmarshalJSON]. Quoted numbers are ids.
func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var o refObject
		if err := value.Decode(&o); err != nil {
			return err
		}
		ref, err := o.ref()
		if err != nil {
			return err
		}
		*r = ref
		return nil
	case yaml.ScalarNode:
		if value.ShortTag() == "!!int" {
			var i int
			if err := value.Decode(&i); err != nil {
				return err
			}
			*r = Index(i)
			return nil
		}
		*r = ID(value.Value)
		return nil
	}
	return fmt.Errorf("line %d: endpoint must be a scalar or a mapping", value.Line)
}
