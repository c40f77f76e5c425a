package kv

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/zkiln/radmin/transcode"
)

/*
Package kv implements the ordered key/value tree that sits between a JSON
document and a directory-service record. The tree is a flat, doubly linked
list of nodes tagged with a depth. A nested node opens a span; the nodes that
follow it one level deeper are its members, and an end marker at the nested
node's own depth closes the span.

All text in the tree is held in the working encoding, UTF-8. Keys and values
are converted on the way in from whatever encoding the source used.
*/

////////////////////////////////////////////////////////////////////////////////

// WorkingEncoding is the encoding of all text held by a tree.
const WorkingEncoding = transcode.UTF8

const (
	// per-node allowance for quotes, separator, comma and newline.
	nodeOverhead = 8
	// per-value allowance for quotes and separator.
	valueOverhead = 4
)

// Tree is an ordered, nestable sequence of key/value nodes. The zero value
// is not usable; call New.
type Tree struct {
	head  *Node
	tail  *Node
	depth int
	count int
	size  int

	converters map[transcode.CCSID]*transcode.Converter
}

// New returns an empty tree at the root depth.
func New() *Tree {
	return &Tree{
		depth:      1,
		converters: make(map[transcode.CCSID]*transcode.Converter),
	}
}

// Head returns the first node, or nil.
func (t *Tree) Head() *Node {
	return t.head
}

// Tail returns the last node, or nil.
func (t *Tree) Tail() *Node {
	return t.tail
}

// Len returns the number of nodes, end markers included.
func (t *Tree) Len() int {
	return t.count
}

// Depth returns the ambient depth new nodes are appended at.
func (t *Tree) Depth() int {
	return t.depth
}

// Size returns an estimate of the generated JSON size in bytes, excluding
// indentation.
func (t *Tree) Size() int {
	return t.size
}

// AppendKey appends a node for key at the ambient depth. A nil key appends an
// end marker. Keys are converted from enc to the working encoding, stripped
// of trailing whitespace and lower-cased.
func (t *Tree) AppendKey(key []byte, enc transcode.CCSID, shape Shape) (*Node, error) {
	node := &Node{Depth: t.depth, Shape: shape}
	if key == nil {
		node.marker = true
		node.Shape = ShapeNone
	} else {
		text, err := t.convert(key, enc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert key: %w", err)
		}
		node.Key = normalizeKey(text)
	}
	t.link(node)
	return node, nil
}

// AppendEscapedKey appends a node whose key is already in the working
// encoding and still carries JSON escape sequences.
func (t *Tree) AppendEscapedKey(key string, shape Shape) *Node {
	node := &Node{Key: normalizeKey(key), Depth: t.depth, Shape: shape, EscapedKey: true}
	t.link(node)
	return node
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimRightFunc(key, unicode.IsSpace))
}

// AppendValue appends a value to the tail node. The first value makes the
// node a scalar and any further value makes it a vector.
func (t *Tree) AppendValue(val []byte, enc transcode.CCSID, kind Kind) error {
	text, err := t.convert(val, enc)
	if err != nil {
		return fmt.Errorf("failed to convert value: %w", err)
	}
	return t.addValue(&Value{Text: text, Len: len(val), Kind: kind})
}

// AppendPaddedValue is AppendValue for fixed-width fields. Trailing padding
// is removed after conversion; Len still records the width of the field.
func (t *Tree) AppendPaddedValue(val []byte, enc transcode.CCSID, kind Kind) error {
	text, err := t.convert(val, enc)
	if err != nil {
		return fmt.Errorf("failed to convert value: %w", err)
	}
	text = strings.TrimRight(text, " \x00")
	return t.addValue(&Value{Text: text, Len: len(val), Kind: kind})
}

// AppendEscapedValue appends text that is already in the working encoding
// and still carries JSON escape sequences.
func (t *Tree) AppendEscapedValue(text string, kind Kind) error {
	return t.addValue(&Value{Text: text, Len: len(text), Kind: kind, Escaped: true})
}

// EnterNest marks the tail node as nested and moves one level deeper.
func (t *Tree) EnterNest() error {
	node := t.tail
	if node == nil || node.marker {
		return ErrNoCurrentNode
	}
	if len(node.Values) > 0 {
		return ShapeConflictError{Key: node.Key, Shape: node.Shape, Op: "nest"}
	}
	node.Shape = ShapeNested
	t.depth++
	return nil
}

// ExitNest moves one level up and appends the end marker closing the
// innermost open nest.
func (t *Tree) ExitNest() error {
	if t.depth <= 1 {
		return ErrDepthUnderflow
	}
	t.depth--
	_, err := t.AppendKey(nil, WorkingEncoding, ShapeNone)
	return err
}

// Find returns the occurrence-th node named key, scanning forward from start
// inclusive, or from the head when start is nil. Occurrences count from 1
// and keys compare case-insensitively. A miss returns nil, or a
// RequiredKeyMissingError if required is set.
func (t *Tree) Find(start *Node, key string, occurrence int, required bool) (*Node, error) {
	if start == nil {
		start = t.head
	}
	if occurrence < 1 {
		occurrence = 1
	}
	seen := 0
	for n := start; n != nil; n = n.next {
		if n.marker || !strings.EqualFold(n.Key, key) {
			continue
		}
		seen++
		if seen == occurrence {
			return n, nil
		}
	}
	if required {
		return nil, RequiredKeyMissingError{Key: strings.ToLower(key), Occurrence: occurrence}
	}
	return nil, nil
}

// Children returns the direct members of a nested node, in order. Deeper
// descendants and end markers are skipped.
func (t *Tree) Children(parent *Node) []*Node {
	if parent == nil || parent.Shape != ShapeNested {
		return nil
	}
	var children []*Node
	for n := parent.next; n != nil && n.Depth > parent.Depth; n = n.next {
		if n.Depth == parent.Depth+1 && !n.marker {
			children = append(children, n)
		}
	}
	return children
}

// Walk calls fn on each node in order, stopping at the first error.
func (t *Tree) Walk(fn func(n *Node) error) error {
	for n := t.head; n != nil; n = n.next {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

// All returns the nodes of the tree in order.
func (t *Tree) All() []*Node {
	nodes := make([]*Node, 0, t.count)
	for n := t.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	return nodes
}

// Validate checks that the tree is well formed: depths start at the root,
// grow by at most one level after a nested node, and every nested span is
// closed by exactly one end marker.
func (t *Tree) Validate() error {
	var open []*Node
	index := 0
	err := t.Walk(func(n *Node) error {
		defer func() { index++ }()
		fail := func(reason string, args ...any) error {
			return MalformedTreeError{Index: index, Node: n.String(), Reason: fmt.Sprintf(reason, args...)}
		}
		expected := len(open) + 1
		if n.marker {
			if len(open) == 0 {
				return fail("end marker with no open nest")
			}
			if n.Depth != expected-1 {
				return fail("end marker at depth %d closes nest at depth %d", n.Depth, expected-1)
			}
			open = open[:len(open)-1]
			return nil
		}
		if n.Depth != expected {
			return fail("depth %d, expected %d", n.Depth, expected)
		}
		if n.Shape == ShapeNested {
			if len(n.Values) > 0 {
				return fail("nested node carries values")
			}
			open = append(open, n)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(open) > 0 {
		last := open[len(open)-1]
		return MalformedTreeError{Index: index, Node: last.String(), Reason: "nest never closed"}
	}
	return nil
}

func (t *Tree) link(node *Node) {
	if t.tail == nil {
		t.head = node
	} else {
		t.tail.next = node
		node.prev = t.tail
	}
	t.tail = node
	t.count++
	t.size += len(node.Key) + nodeOverhead
}

func (t *Tree) addValue(v *Value) error {
	node := t.tail
	if node == nil || node.marker {
		return ErrNoCurrentNode
	}
	if node.Shape == ShapeNested {
		return ShapeConflictError{Key: node.Key, Shape: node.Shape, Op: "append value"}
	}
	node.Values = append(node.Values, v)
	if len(node.Values) == 1 {
		node.Shape = ShapeScalar
	} else {
		node.Shape = ShapeVector
	}
	t.size += len(v.Text) + valueOverhead
	return nil
}

func (t *Tree) convert(b []byte, enc transcode.CCSID) (string, error) {
	conv, ok := t.converters[enc]
	if !ok {
		var err error
		conv, err = transcode.NewConverter(enc, WorkingEncoding)
		if err != nil {
			return "", err
		}
		t.converters[enc] = conv
	}
	out, err := conv.Convert(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
