package driver

import (
	"fmt"
	"strconv"

	"principia/internal/kernel"
	"principia/internal/sexp"
	"principia/internal/term"
)

// symbolOf extracts the name of a bare symbol node, accepting integers as
// symbolic names the way the surface syntax does.
func symbolOf(node sexp.Node) (string, error) {
	switch n := node.(type) {
	case sexp.Symbol:
		return n.Name, nil
	case sexp.Number:
		return strconv.FormatInt(n.Value, 10), nil
	default:
		return "", &MalformedFormError{At: node.Pos(), Msg: fmt.Sprintf("expected a symbol, got %s", render(node))}
	}
}

// isSeparator reports whether node is an inference-line symbol: a run of
// `─` (or plain `-`) characters.
func isSeparator(node sexp.Node) bool {
	sym, ok := node.(sexp.Symbol)
	if !ok || sym.Name == "" {
		return false
	}
	for _, ch := range sym.Name {
		if ch != '─' && ch != '-' {
			return false
		}
	}
	return true
}

// buildTerm converts a raw node into a Term without macro expansion.
//
// A symbol is a metavariable iff it is in the state's variables table,
// otherwise a constant. A round list containing a registered infix
// operator is reassociated by precedence into binary App nodes (the
// lowest-precedence operator splits last, right-associatively); any other
// round list becomes a Tree group. Brackets never occur in term position.
func (s *State) buildTerm(node sexp.Node) (term.Term, error) {
	switch n := node.(type) {
	case sexp.Symbol:
		if s.Variables[n.Name] {
			return term.Var{Name: n.Name}, nil
		}
		return term.Con{Name: n.Name}, nil
	case sexp.Number:
		return term.Con{Name: strconv.FormatInt(n.Value, 10)}, nil
	case sexp.List:
		return s.buildList(n.Items, n.At)
	case sexp.Bracket:
		return nil, &MalformedFormError{At: n.At, Msg: "bracket list is not a term"}
	default:
		return nil, &MalformedFormError{At: node.Pos(), Msg: "unrecognized form in term position"}
	}
}

func (s *State) buildList(items []sexp.Node, at sexp.Position) (term.Term, error) {
	// Split at the first occurrence of the loosest-binding infix operator,
	// which yields right associativity for equal precedences.
	split, prec := -1, 0
	for i, item := range items {
		sym, ok := item.(sexp.Symbol)
		if !ok {
			continue
		}
		p, registered := s.Infix[sym.Name]
		if !registered {
			continue
		}
		if split == -1 || p < prec {
			split, prec = i, p
		}
	}

	if split > 0 && split < len(items)-1 {
		op := items[split].(sexp.Symbol).Name
		lhs, err := s.buildOperand(items[:split], at)
		if err != nil {
			return nil, err
		}
		rhs, err := s.buildOperand(items[split+1:], at)
		if err != nil {
			return nil, err
		}
		return term.App{Head: op, Args: []term.Term{lhs, rhs}}, nil
	}

	built := make([]term.Term, len(items))
	for i, item := range items {
		t, err := s.buildTerm(item)
		if err != nil {
			return nil, err
		}
		built[i] = t
	}
	return term.Tree{Items: built}, nil
}

// buildOperand builds one side of an infix split. A single node is taken
// as-is; longer runs are reassociated recursively. This keeps explicit
// singleton groups written by the user distinct from operands the split
// produced.
func (s *State) buildOperand(items []sexp.Node, at sexp.Position) (term.Term, error) {
	if len(items) == 1 {
		return s.buildTerm(items[0])
	}
	return s.buildList(items, at)
}

// parseTerm builds a term and runs it through the macro expander. Every
// term that enters a schema, definition body, or substitution goes
// through here.
func (s *State) parseTerm(node sexp.Node) (term.Term, error) {
	t, err := s.buildTerm(node)
	if err != nil {
		return nil, err
	}
	return kernel.Expand(s.Defs, t), nil
}

// render gives a short description of a raw node for error messages.
func render(node sexp.Node) string {
	switch n := node.(type) {
	case sexp.Symbol:
		return fmt.Sprintf("%q", n.Name)
	case sexp.Number:
		return strconv.FormatInt(n.Value, 10)
	case sexp.List:
		return "a list"
	case sexp.Bracket:
		return "a bracket list"
	default:
		return "an unknown node"
	}
}
