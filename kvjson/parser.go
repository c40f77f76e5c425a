package kvjson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/transcode"
	"github.com/zkiln/radmin/util/log"
)

/*
Package kvjson converts between JSON text and kv trees.

The parser is a recursive descent over the JSON grammar. It builds the tree
as a side effect of recognizing members and elements:

  - The outermost object is the document itself. Its members are appended at
    the root depth.
  - A member whose value is an object becomes a nested node. The object's
    members follow it one level deeper and an end marker closes it.
  - Scalar array elements attach to the member's node, which becomes a
    vector. An object element gets a node of its own under the same key, as
    does a scalar that follows an object element. Nested arrays are
    flattened.
  - String values and keys keep their escape sequences. Numbers keep their
    source text.

Values with no key to attach to, such as a top-level scalar, are parsed and
discarded.
*/

////////////////////////////////////////////////////////////////////////////////

// MaxNesting is the deepest combination of objects and arrays the parser
// accepts.
const MaxNesting = 512

const nearContext = 16

type parser struct {
	ctx     context.Context
	data    []byte
	pos     int
	nesting int
	tree    *kv.Tree
	discard int
}

type parseFailure struct {
	err error
}

// Parse parses a JSON document into a new tree. On error no tree is returned.
func Parse(ctx context.Context, data []byte) (tree *kv.Tree, err error) {
	p := &parser{ctx: ctx, data: data, tree: kv.New()}
	defer func() {
		if r := recover(); r != nil {
			failure, ok := r.(parseFailure)
			if !ok {
				panic(r)
			}
			tree, err = nil, failure.err
		}
	}()
	p.document()
	log.Debugw(ctx, "parsed document", "bytes", len(data), "nodes", p.tree.Len())
	return p.tree, nil
}

func (p *parser) document() {
	p.ws()
	if p.peek() == '{' {
		p.object(nil, true)
	} else {
		log.Warnf(p.ctx, "discarding top-level %s: no key to attach it to", p.describe())
		p.discard++
		p.value(nil)
		p.discard--
	}
	p.ws()
	if p.pos < len(p.data) {
		p.fail("end of input")
	}
}

// describe names the value starting at the current position.
func (p *parser) describe() string {
	switch c := p.peek(); {
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == '-' || isDigit(c):
		return "number"
	default:
		return "value"
	}
}

// element = ws value ws
func (p *parser) element(owner *kv.Node) *kv.Node {
	p.ws()
	owner = p.value(owner)
	p.ws()
	return owner
}

// value dispatches on the next byte. It returns the node that received the
// value, which array parsing uses to decide where the next element goes.
func (p *parser) value(owner *kv.Node) *kv.Node {
	switch c := p.peek(); {
	case c == '{':
		return p.object(owner, false)
	case c == '[':
		return p.array(owner)
	case c == '"':
		text := p.str()
		return p.scalar(owner, func() error {
			return p.tree.AppendEscapedValue(text, kv.KindText)
		})
	case c == '-' || isDigit(c):
		num := p.number()
		return p.scalar(owner, func() error {
			return p.tree.AppendValue(num, transcode.UTF8, kv.KindNumber)
		})
	case c == 't':
		return p.literal(owner, "true")
	case c == 'f':
		return p.literal(owner, "false")
	case c == 'n':
		return p.literal(owner, "null")
	default:
		p.fail("value")
		return nil
	}
}

func (p *parser) literal(owner *kv.Node, lit string) *kv.Node {
	p.expectWord(lit)
	return p.scalar(owner, func() error {
		return p.tree.AppendValue([]byte(lit), transcode.UTF8, kv.KindText)
	})
}

// scalar attaches a scalar value to owner, or to a fresh node under the same
// key when owner can no longer take values.
func (p *parser) scalar(owner *kv.Node, add func() error) *kv.Node {
	if p.discard > 0 || owner == nil {
		return owner
	}
	target := owner
	if target.Shape == kv.ShapeNested || p.tree.Tail() != target {
		target = p.sibling(owner)
	}
	p.check(add())
	return target
}

// sibling appends a node with the same key as owner.
func (p *parser) sibling(owner *kv.Node) *kv.Node {
	if owner.EscapedKey {
		return p.tree.AppendEscapedKey(owner.Key, kv.ShapeNone)
	}
	node, err := p.tree.AppendKey([]byte(owner.Key), kv.WorkingEncoding, kv.ShapeNone)
	p.check(err)
	return node
}

// object = '{' ws '}' | '{' members '}'
func (p *parser) object(owner *kv.Node, top bool) *kv.Node {
	p.expect('{')
	p.enter()
	defer p.leave()

	nested := !top && p.discard == 0 && owner != nil
	if !top && !nested {
		p.discard++
		defer func() { p.discard-- }()
	}
	target := owner
	if nested {
		if target.Shape != kv.ShapeNone || p.tree.Tail() != target {
			target = p.sibling(owner)
		}
		p.check(p.tree.EnterNest())
	}

	p.ws()
	if p.peek() == '}' {
		p.pos++
	} else {
		p.members()
	}
	if nested {
		p.check(p.tree.ExitNest())
	}
	return target
}

// members = member | member ',' members
func (p *parser) members() {
	for {
		p.member()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return
		default:
			p.fail("',' or '}'")
		}
	}
}

// member = ws string ws ':' element
func (p *parser) member() {
	p.ws()
	if p.peek() != '"' {
		p.fail("string")
	}
	key := p.str()
	p.ws()
	p.expect(':')
	var node *kv.Node
	if p.discard == 0 {
		node = p.tree.AppendEscapedKey(key, kv.ShapeNone)
	}
	p.element(node)
}

// array = '[' ws ']' | '[' elements ']'
func (p *parser) array(owner *kv.Node) *kv.Node {
	p.expect('[')
	p.enter()
	defer p.leave()
	p.ws()
	if p.peek() == ']' {
		p.pos++
		return owner
	}
	target := owner
	for {
		if received := p.element(target); received != nil {
			target = received
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return target
		default:
			p.fail("',' or ']'")
		}
	}
}

// str consumes a string and returns its body with escapes intact.
func (p *parser) str() string {
	p.expect('"')
	start := p.pos
	for {
		c := p.peek()
		switch {
		case c == '"':
			body := p.data[start:p.pos]
			if !utf8.Valid(body) {
				p.pos = start
				p.fail("UTF-8 text")
			}
			p.pos++
			return string(body)
		case c == '\\':
			p.pos++
			p.escape()
		case c < 0x20:
			p.fail("character")
		default:
			p.pos++
		}
	}
}

// escape = '"' | '\' | '/' | 'b' | 'f' | 'n' | 'r' | 't' | 'u' hex hex hex hex
func (p *parser) escape() {
	c := p.peek()
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		p.pos++
	case 'u':
		p.pos++
		for i := 0; i < 4; i++ {
			if !isHex(p.peek()) {
				p.fail("hex digit")
			}
			p.pos++
		}
	default:
		p.fail("escape character")
	}
}

// number = integer fraction exponent
func (p *parser) number() []byte {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	switch c := p.peek(); {
	case c == '0':
		p.pos++
	case isDigit(c):
		p.digits()
	default:
		p.fail("digit")
	}
	if p.accept('.') {
		p.digits()
	}
	if p.accept('e') || p.accept('E') {
		if !p.accept('+') {
			p.accept('-')
		}
		p.digits()
	}
	return p.data[start:p.pos]
}

// digits = digit | digit digits
func (p *parser) digits() {
	if !isDigit(p.peek()) {
		p.fail("digit")
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) ws() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) enter() {
	p.nesting++
	if p.nesting > MaxNesting {
		p.fail(fmt.Sprintf("at most %d levels of nesting", MaxNesting))
	}
}

func (p *parser) leave() {
	p.nesting--
}

// peek returns the next byte, abandoning the parse if there is none.
func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		p.exhausted("more input")
	}
	return p.data[p.pos]
}

// accept consumes c if it is next.
func (p *parser) accept(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) {
	if p.peek() != c {
		p.fail(fmt.Sprintf("%q", c))
	}
	p.pos++
}

func (p *parser) expectWord(word string) {
	for i := 0; i < len(word); i++ {
		if p.peek() != word[i] {
			p.fail(word)
		}
		p.pos++
	}
}

func (p *parser) check(err error) {
	if err != nil {
		panic(parseFailure{fmt.Errorf("failed to build tree at offset %d: %w", p.pos, err)})
	}
}

func (p *parser) fail(expected string) {
	panic(parseFailure{p.syntaxError(expected, nil)})
}

func (p *parser) exhausted(expected string) {
	panic(parseFailure{p.syntaxError(expected, ErrBufferExhausted)})
}

func (p *parser) syntaxError(expected string, cause error) *SyntaxError {
	consumed := p.data[:min(p.pos, len(p.data))]
	line := bytes.Count(consumed, []byte{'\n'}) + 1
	column := len(consumed) - bytes.LastIndexByte(consumed, '\n')
	end := min(p.pos+nearContext, len(p.data))
	return &SyntaxError{
		Offset:   p.pos,
		Line:     line,
		Column:   column,
		Expected: expected,
		Near:     string(p.data[len(consumed):end]),
		Err:      cause,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IsSyntaxError reports whether err is, or wraps, a SyntaxError.
func IsSyntaxError(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr)
}
