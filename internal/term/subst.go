package term

import (
	"sort"
	"strings"
)

// Subst maps metavariable names to terms. Bindings are unique per name;
// the matcher treats a conflicting rebinding as a match failure rather
// than an overwrite.
type Subst map[string]Term

// Apply replaces every Var whose name is bound in s, simultaneously across
// the whole tree. Already-substituted subterms are not re-substituted, so
// s must be transitively resolved by the caller. Con nodes and unbound
// Var nodes pass through unchanged. Apply is total over well-formed terms.
func (s Subst) Apply(t Term) Term {
	if len(s) == 0 {
		return t
	}
	switch x := t.(type) {
	case Var:
		if repl, ok := s[x.Name]; ok {
			return repl
		}
		return x
	case Con:
		return x
	case App:
		args := make([]Term, len(x.Args))
		for i, arg := range x.Args {
			args[i] = s.Apply(arg)
		}
		return App{Head: x.Head, Args: args}
	case Tree:
		items := make([]Term, len(x.Items))
		for i, item := range x.Items {
			items[i] = s.Apply(item)
		}
		return Tree{Items: items}
	default:
		return t
	}
}

// Clone returns an independent copy of s. The checker clones explicit
// substitutions before accumulating into them so callers keep theirs
// intact.
func (s Subst) Clone() Subst {
	out := make(Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String renders the substitution as "[x := e, y := f]" with keys sorted,
// for error messages and logs.
func (s Subst) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " := " + s[k].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
