package driver

import (
	"fmt"

	"principia/internal/kernel"
	"principia/internal/sexp"
	"principia/internal/term"
)

// isSubstSeparator accepts the tokens allowed between a metavariable and
// its replacement inside an explicit substitution bracket.
func isSubstSeparator(name string) bool {
	return name == ":=" || name == "≔"
}

// parseProof converts a raw node into a derivation tree.
//
//	name                      a step with no sub-proofs
//	(name p1 p2 ...)          a step whose premises are proven by p1, p2, ...
//	(name [x := e ...] p...)  same, with an explicit instantiating substitution
//	(sorry label)             an admitted leaf
func (s *State) parseProof(node sexp.Node) (kernel.Derivation, error) {
	switch n := node.(type) {
	case sexp.Symbol:
		return kernel.Step{Rule: n.Name}, nil
	case sexp.Number:
		name, _ := symbolOf(n)
		return kernel.Step{Rule: name}, nil
	case sexp.List:
		if len(n.Items) == 0 {
			return nil, &MalformedFormError{At: n.At, Msg: "empty proof term"}
		}
		edge, err := symbolOf(n.Items[0])
		if err != nil {
			return nil, err
		}
		rest := n.Items[1:]

		if edge == "sorry" {
			if len(rest) != 1 {
				return nil, &MalformedFormError{At: n.At, Msg: "sorry takes exactly one label"}
			}
			label, err := symbolOf(rest[0])
			if err != nil {
				return nil, err
			}
			return kernel.Admitted{Label: label}, nil
		}

		var env term.Subst
		if len(rest) > 0 {
			if bracket, ok := rest[0].(sexp.Bracket); ok {
				env, err = s.parseSubst(bracket)
				if err != nil {
					return nil, err
				}
				rest = rest[1:]
			}
		}

		children := make([]kernel.Derivation, len(rest))
		for i, arg := range rest {
			child, err := s.parseProof(arg)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return kernel.Step{Rule: edge, Children: children, Subst: env}, nil
	default:
		return nil, &MalformedFormError{At: node.Pos(), Msg: "invalid proof term"}
	}
}

// parseSubst reads an explicit substitution bracket: triples of
// metavariable, := (or ≔), and replacement term.
func (s *State) parseSubst(bracket sexp.Bracket) (term.Subst, error) {
	env := make(term.Subst)
	items := bracket.Items
	for len(items) > 0 {
		name, err := symbolOf(items[0])
		if err != nil {
			return nil, err
		}
		if len(items) < 3 {
			return nil, &MalformedFormError{At: bracket.At, Msg: fmt.Sprintf("%q mapped to nothing", name)}
		}
		sep, err := symbolOf(items[1])
		if err != nil || !isSubstSeparator(sep) {
			return nil, &MalformedFormError{At: items[1].Pos(), Msg: "invalid substitution list"}
		}
		repl, err := s.parseTerm(items[2])
		if err != nil {
			return nil, err
		}
		if _, dup := env[name]; dup {
			return nil, &MalformedFormError{At: items[0].Pos(), Msg: fmt.Sprintf("%q substituted twice", name)}
		}
		env[name] = repl
		items = items[3:]
	}
	return env, nil
}
