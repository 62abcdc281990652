package kernel

import "principia/internal/term"

// MacroDef is a notational rewrite rule. Defs live in an ordered sequence
// where declaration order is semantic: the expander uses the first pattern
// that matches and never consults later ones.
type MacroDef struct {
	Pattern term.Term
	Body    term.Term
}

// Expand rewrites t in a single top-down pass over defs.
//
// The whole node is matched against each def's pattern in declaration
// order, under the empty rigid set; the first match substitutes into that
// def's body and the scan stops. A rewritten node is not re-matched. If
// the result is a group, each item is expanded recursively; applications
// are returned as-is with their arguments untouched.
//
// Expand performs no termination check: a cyclic definition set diverges.
func Expand(defs []MacroDef, t term.Term) term.Term {
	for _, def := range defs {
		env := make(term.Subst)
		if Match(nil, def.Pattern, t, env) {
			t = env.Apply(def.Body)
			break
		}
	}

	if tree, ok := t.(term.Tree); ok {
		items := make([]term.Term, len(tree.Items))
		for i, item := range tree.Items {
			items[i] = Expand(defs, item)
		}
		return term.Tree{Items: items}
	}
	return t
}
