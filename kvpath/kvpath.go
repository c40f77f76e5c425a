package kvpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/transcode"
)

/*
Package kvpath evaluates dotted key paths against a key/value tree. The first
step matches top-level members; each later step matches the direct members
of the nested nodes selected so far. Keys compare case-insensitively, and
keys containing dots or brackets may be double-quoted.
*/

////////////////////////////////////////////////////////////////////////////////

// Query is a compiled path.
type Query struct {
	path *Path
}

// Compile parses a path expression.
func Compile(expr string) (*Query, error) {
	path, err := PathParser.ParseString("", expr)
	if err != nil {
		return nil, PathError{Expr: expr, Err: err}
	}
	for _, step := range path.Steps {
		if step.Index != nil && *step.Index < 1 {
			return nil, PathError{Expr: expr, Err: fmt.Errorf("index %d of %q out of range", *step.Index, step.Key)}
		}
	}
	return &Query{path: path}, nil
}

// Eval returns the nodes selected by the query, in tree order.
func (q *Query) Eval(tree *kv.Tree) []*kv.Node {
	var parents []*kv.Node
	for i, step := range q.path.Steps {
		var groups [][]*kv.Node
		if i == 0 {
			groups = [][]*kv.Node{topLevel(tree)}
		} else {
			for _, parent := range parents {
				groups = append(groups, tree.Children(parent))
			}
		}
		parents = parents[:0:0]
		for _, members := range groups {
			parents = append(parents, step.match(members)...)
		}
		if len(parents) == 0 {
			return nil
		}
	}
	return parents
}

func (q *Query) String() string {
	parts := make([]string, 0, len(q.path.Steps))
	for _, step := range q.path.Steps {
		key := step.Key
		if strings.ContainsAny(key, `.[]" `) {
			key = strconv.Quote(key)
		}
		if step.Index != nil {
			key += fmt.Sprintf("[%d]", *step.Index)
		}
		parts = append(parts, key)
	}
	return strings.Join(parts, ".")
}

func (s *Step) match(members []*kv.Node) []*kv.Node {
	var out []*kv.Node
	seen := 0
	for _, n := range members {
		if !strings.EqualFold(n.Key, s.Key) {
			continue
		}
		seen++
		if s.Index == nil || *s.Index == seen {
			out = append(out, n)
		}
	}
	return out
}

func topLevel(tree *kv.Tree) []*kv.Node {
	var nodes []*kv.Node
	for n := tree.Head(); n != nil; n = n.Next() {
		if n.Depth == 1 && !n.IsEndMarker() {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Get compiles expr and evaluates it against tree.
func Get(tree *kv.Tree, expr string) ([]*kv.Node, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Eval(tree), nil
}

// Extract copies the nodes selected by a query into a new tree, each at the
// top level with its descendants below it.
func Extract(nodes []*kv.Node) (*kv.Tree, error) {
	out := kv.New()
	for _, node := range nodes {
		if err := copySpan(out, node); err != nil {
			return nil, fmt.Errorf("failed to copy %q: %w", node.Key, err)
		}
	}
	return out, nil
}

func copySpan(out *kv.Tree, node *kv.Node) error {
	base := node.Depth
	for n := node; n != nil; n = n.Next() {
		if n.IsEndMarker() {
			if err := out.ExitNest(); err != nil {
				return err
			}
			if n.Depth == base {
				return nil
			}
			continue
		}
		if n != node && n.Depth <= base {
			return nil
		}
		if err := copyNode(out, n); err != nil {
			return err
		}
		if n.Shape != kv.ShapeNested {
			if n == node {
				return nil
			}
			continue
		}
		if err := out.EnterNest(); err != nil {
			return err
		}
	}
	return nil
}

func copyNode(out *kv.Tree, n *kv.Node) error {
	if n.EscapedKey {
		out.AppendEscapedKey(n.Key, kv.ShapeNone)
	} else if _, err := out.AppendKey([]byte(n.Key), transcode.UTF8, kv.ShapeNone); err != nil {
		return err
	}
	for _, v := range n.Values {
		var err error
		if v.Escaped {
			err = out.AppendEscapedValue(v.Text, v.Kind)
		} else {
			err = out.AppendValue([]byte(v.Text), transcode.UTF8, v.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
