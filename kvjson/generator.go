package kvjson

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/zkiln/radmin/kv"
)

/*
The generator renders a tree as an indented JSON object. The document opens
with "{" and each member goes on its own line, indented by three spaces per
level up to MaxIndent. A nested node opens an object that its end marker
closes; a drop in depth without a marker closes the open objects implicitly.

Text values are quoted. Values and keys that still carry their escape
sequences from parsing are written as they are; any other text is escaped.
Numbers are written bare when they match the number grammar the parser
accepts, and quoted like text otherwise.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	// MaxIndent is the widest indentation the generator writes, in columns.
	MaxIndent   = 96
	indentWidth = 3
)

// Writer writes trees as JSON documents to an underlying writer.
type Writer struct {
	w io.Writer
}

// NewWriter returns a writer that writes documents to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write renders tree and writes the document.
func (w *Writer) Write(tree *kv.Tree) error {
	doc, err := Generate(tree)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

type generator struct {
	buf   []byte
	depth int
}

// Generate renders tree as a JSON document.
func Generate(tree *kv.Tree) ([]byte, error) {
	g := &generator{
		buf:   make([]byte, 0, tree.Size()+tree.Len()*2*indentWidth+4),
		depth: 1,
	}
	g.buf = append(g.buf, "{\n"...)
	index := 0
	for n := tree.Head(); n != nil; n = n.Next() {
		if err := g.node(n); err != nil {
			return nil, fmt.Errorf("%w: node %d (%s): %w", ErrMalformedTree, index, n, err)
		}
		index++
	}
	for g.depth > 1 {
		g.close()
	}
	g.stripComma()
	g.buf = append(g.buf, "}\n"...)
	return g.buf, nil
}

func (g *generator) node(n *kv.Node) error {
	if n.IsEndMarker() {
		if n.Depth+1 > g.depth {
			return fmt.Errorf("end marker at depth %d with no open object", n.Depth)
		}
		for g.depth > n.Depth+1 {
			g.close()
		}
		g.close()
		return nil
	}
	if n.Depth > g.depth {
		return fmt.Errorf("depth %d follows depth %d", n.Depth, g.depth)
	}
	for g.depth > n.Depth {
		g.close()
	}
	g.indent(g.depth)
	if err := g.key(n); err != nil {
		return err
	}
	switch {
	case n.Shape == kv.ShapeNested:
		g.buf = append(g.buf, '{', '\n')
		g.depth++
		return nil
	case n.Shape == kv.ShapeVector || len(n.Values) > 1:
		g.buf = append(g.buf, '[')
		for i, v := range n.Values {
			if i > 0 {
				g.buf = append(g.buf, ", "...)
			}
			if err := g.value(v); err != nil {
				return err
			}
		}
		g.buf = append(g.buf, ']')
	case len(n.Values) == 0:
		g.buf = append(g.buf, "[]"...)
	default:
		if err := g.value(n.Values[0]); err != nil {
			return err
		}
	}
	g.buf = append(g.buf, ",\n"...)
	return nil
}

// close ends the innermost open object.
func (g *generator) close() {
	g.stripComma()
	g.depth--
	g.indent(g.depth)
	g.buf = append(g.buf, "},\n"...)
}

func (g *generator) key(n *kv.Node) error {
	if err := g.text(n.Key, n.EscapedKey); err != nil {
		return err
	}
	g.buf = append(g.buf, ": "...)
	return nil
}

func (g *generator) value(v *kv.Value) error {
	if v.Kind == kv.KindNumber && isNumber(v.Text) {
		g.buf = append(g.buf, v.Text...)
		return nil
	}
	return g.text(v.Text, v.Escaped)
}

func (g *generator) text(s string, escaped bool) error {
	if escaped {
		g.buf = append(g.buf, '"')
		g.buf = append(g.buf, s...)
		g.buf = append(g.buf, '"')
		return nil
	}
	quoted, err := json.MarshalNoEscape(s)
	if err != nil {
		return fmt.Errorf("failed to quote %q: %w", s, err)
	}
	g.buf = append(g.buf, quoted...)
	return nil
}

func (g *generator) indent(depth int) {
	n := min(depth*indentWidth, MaxIndent)
	for i := 0; i < n; i++ {
		g.buf = append(g.buf, ' ')
	}
}

func (g *generator) stripComma() {
	if n := len(g.buf); n >= 2 && g.buf[n-2] == ',' && g.buf[n-1] == '\n' {
		g.buf[n-2] = '\n'
		g.buf = g.buf[:n-1]
	}
}

// isNumber reports whether s is a complete JSON number:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func isNumber(s string) bool {
	i := 0
	digits := func() bool {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return i > start
	}
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case !digits():
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if !digits() {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if !digits() {
			return false
		}
	}
	return i == len(s)
}
