// Package term provides the symbolic term model shared by the whole checker:
// metavariables, constant atoms, operator applications, and grouping nodes,
// plus structural equality and simultaneous substitution over them.
//
// Terms are immutable once built. All kernel operations construct fresh
// trees instead of mutating in place.
package term

import (
	"fmt"
	"strings"
)

// Term is the sealed symbolic expression type. Exactly four variants exist:
// Var (a substitutable metavariable), Con (an atomic constant), App (an
// operator application), and Tree (an explicit grouping node). Consumers
// switch exhaustively over these.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Var is a metavariable. It is substitutable unless its name is declared
// rigid for the current match.
type Var struct {
	Name string
}

// Con is an atomic constant symbol. It only ever matches itself.
type Con struct {
	Name string
}

// App is an operator application: a head symbol applied to an ordered
// argument list. Infix notation in source files parses into App nodes.
type App struct {
	Head string
	Args []Term
}

// Tree is an explicit grouping node: an ordered sequence of sub-terms.
// Tree is distinct from App; macro expansion recurses into Tree items only.
type Tree struct {
	Items []Term
}

func (Var) isTerm()  {}
func (Con) isTerm()  {}
func (App) isTerm()  {}
func (Tree) isTerm() {}

func (v Var) String() string { return v.Name }
func (c Con) String() string { return c.Name }

func (a App) String() string {
	parts := make([]string, 0, len(a.Args)+1)
	parts = append(parts, a.Head)
	for _, arg := range a.Args {
		parts = append(parts, arg.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (t Tree) String() string {
	parts := make([]string, len(t.Items))
	for i, item := range t.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Equal reports structural equality: same variant, same leaf symbols, same
// argument order. This is the only notion of term identity the kernel uses.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case Con:
		y, ok := b.(Con)
		return ok && x.Name == y.Name
	case App:
		y, ok := b.(App)
		if !ok || x.Head != y.Head || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case Tree:
		y, ok := b.(Tree)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Vars collects the names of all metavariables occurring in t, in first
// occurrence order.
func Vars(t Term) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Term)
	walk = func(t Term) {
		switch x := t.(type) {
		case Var:
			if !seen[x.Name] {
				seen[x.Name] = true
				names = append(names, x.Name)
			}
		case App:
			for _, arg := range x.Args {
				walk(arg)
			}
		case Tree:
			for _, item := range x.Items {
				walk(item)
			}
		}
	}
	walk(t)
	return names
}
