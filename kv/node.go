package kv

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Shape describes how a node carries its data.
type Shape uint8

const (
	// ShapeNone is a node with no values yet, or an end-of-nesting marker.
	ShapeNone Shape = iota
	// ShapeScalar is a node with exactly one value.
	ShapeScalar
	// ShapeVector is a node with more than one value, in encounter order.
	ShapeVector
	// ShapeNested is a node whose members are the nodes that follow it at
	// the next depth, up to its end marker.
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeScalar:
		return "scalar"
	case ShapeVector:
		return "vector"
	case ShapeNested:
		return "nested"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Kind is the type of a value. Booleans are carried as the text "true" or
// "false".
type Kind uint8

const (
	// KindAny matches every kind in lookups. No stored value has it.
	KindAny Kind = iota
	KindText
	KindNumber
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single datum attached to a node.
type Value struct {
	// Text is the value in the working encoding.
	Text string
	// Len is the length of the value as it arrived, before conversion and
	// before any padding was trimmed.
	Len int
	Kind Kind
	// Escaped is set when Text is the body of a JSON string literal with
	// its escape sequences still in place.
	Escaped bool
}

// Unescaped returns the text of the value with JSON escape sequences
// decoded.
func (v *Value) Unescaped() (string, error) {
	if !v.Escaped {
		return v.Text, nil
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+v.Text+`"`), &s); err != nil {
		return "", fmt.Errorf("failed to unescape %q: %w", v.Text, err)
	}
	return s, nil
}

// Node is one entry of a tree: a key with its values, a nested key, or a
// marker closing the most recent open nest at its depth.
type Node struct {
	Key    string
	Depth  int
	Shape  Shape
	Values []*Value
	// EscapedKey is set when Key still carries JSON escape sequences.
	EscapedKey bool

	marker bool
	prev   *Node
	next   *Node
}

// Next returns the node following n, or nil.
func (n *Node) Next() *Node {
	return n.next
}

// Prev returns the node preceding n, or nil.
func (n *Node) Prev() *Node {
	return n.prev
}

// IsEndMarker reports whether n closes a nest.
func (n *Node) IsEndMarker() bool {
	return n.marker
}

// Scalar returns the value of a scalar node, provided it is of the expected
// kind. KindAny accepts any kind. It returns nil for any other node.
func (n *Node) Scalar(kind Kind) *Value {
	if n == nil || n.Shape != ShapeScalar || len(n.Values) != 1 {
		return nil
	}
	v := n.Values[0]
	if kind != KindAny && v.Kind != kind {
		return nil
	}
	return v
}

// String returns a one-line description of the node.
func (n *Node) String() string {
	if n.marker {
		return fmt.Sprintf("end depth=%d", n.Depth)
	}
	return fmt.Sprintf("%q depth=%d shape=%s values=%d", n.Key, n.Depth, n.Shape, len(n.Values))
}
