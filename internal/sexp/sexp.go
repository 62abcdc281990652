// Package sexp reads the checker's surface syntax: s-expressions made of
// symbols, integers, round lists, and square bracket lists, with ; line
// comments. The reader is deliberately small; everything semantic happens
// downstream in the driver.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Position is a 1-based line/column location in the source.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SyntaxError is a position-tagged reader failure. It is fatal to the
// enclosing file.
type SyntaxError struct {
	At  Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.At, e.Msg)
}

// Node is a raw parsed form: Symbol, Number, List ("(...)"), or
// Bracket ("[...]").
type Node interface {
	Pos() Position
	isNode()
}

// Symbol is a bare token.
type Symbol struct {
	Name string
	At   Position
}

// Number is an integer token.
type Number struct {
	Value int64
	At    Position
}

// List is a round-parenthesized sequence.
type List struct {
	Items []Node
	At    Position
}

// Bracket is a square-bracketed sequence. Brackets carry explicit
// substitution lists in proofs and are kept distinct from List.
type Bracket struct {
	Items []Node
	At    Position
}

func (s Symbol) Pos() Position  { return s.At }
func (n Number) Pos() Position  { return n.At }
func (l List) Pos() Position    { return l.At }
func (b Bracket) Pos() Position { return b.At }

func (Symbol) isNode()  {}
func (Number) isNode()  {}
func (List) isNode()    {}
func (Bracket) isNode() {}

type reader struct {
	src  []rune
	pos  int
	line int
	col  int
}

// Parse reads every top-level form in src.
func Parse(src string) ([]Node, error) {
	r := &reader{src: []rune(src), line: 1, col: 1}
	var nodes []Node
	for {
		r.skipSpace()
		if r.eof() {
			return nodes, nil
		}
		node, err := r.read()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) peek() rune { return r.src[r.pos] }

func (r *reader) next() rune {
	ch := r.src[r.pos]
	r.pos++
	if ch == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return ch
}

func (r *reader) here() Position { return Position{Line: r.line, Col: r.col} }

func (r *reader) skipSpace() {
	for !r.eof() {
		ch := r.peek()
		switch {
		case unicode.IsSpace(ch):
			r.next()
		case ch == ';':
			for !r.eof() && r.peek() != '\n' {
				r.next()
			}
		default:
			return
		}
	}
}

func isDelimiter(ch rune) bool {
	return ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == ';' || unicode.IsSpace(ch)
}

func (r *reader) read() (Node, error) {
	at := r.here()
	switch ch := r.peek(); ch {
	case '(':
		r.next()
		items, err := r.readUntil(')', at)
		if err != nil {
			return nil, err
		}
		return List{Items: items, At: at}, nil
	case '[':
		r.next()
		items, err := r.readUntil(']', at)
		if err != nil {
			return nil, err
		}
		return Bracket{Items: items, At: at}, nil
	case ')', ']':
		return nil, &SyntaxError{At: at, Msg: fmt.Sprintf("unexpected %q", ch)}
	default:
		return r.readAtom()
	}
}

func (r *reader) readUntil(closing rune, open Position) ([]Node, error) {
	var items []Node
	for {
		r.skipSpace()
		if r.eof() {
			return nil, &SyntaxError{At: open, Msg: fmt.Sprintf("unclosed %q", string(openFor(closing)))}
		}
		if r.peek() == closing {
			r.next()
			return items, nil
		}
		if r.peek() == ')' || r.peek() == ']' {
			return nil, &SyntaxError{At: r.here(), Msg: fmt.Sprintf("mismatched %q", r.peek())}
		}
		node, err := r.read()
		if err != nil {
			return nil, err
		}
		items = append(items, node)
	}
}

func openFor(closing rune) rune {
	if closing == ']' {
		return '['
	}
	return '('
}

func (r *reader) readAtom() (Node, error) {
	at := r.here()
	var sb strings.Builder
	for !r.eof() && !isDelimiter(r.peek()) {
		sb.WriteRune(r.next())
	}
	text := sb.String()
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Number{Value: v, At: at}, nil
	}
	return Symbol{Name: text, At: at}, nil
}
