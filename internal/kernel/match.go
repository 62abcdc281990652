// Package kernel implements the verification core of the checker: the
// structural pattern matcher, the macro expander, the schema context, and
// the recursive derivation checker.
package kernel

import "principia/internal/term"

// RigidSet holds symbols the matcher must treat as literal constants even
// where they occur as metavariables. Object-level bound variables are
// declared rigid so schema instantiation cannot capture them.
type RigidSet map[string]bool

// NewRigidSet builds a RigidSet from symbol names.
func NewRigidSet(names ...string) RigidSet {
	rs := make(RigidSet, len(names))
	for _, n := range names {
		rs[n] = true
	}
	return rs
}

// Clone returns an independent copy of rs.
func (rs RigidSet) Clone() RigidSet {
	out := make(RigidSet, len(rs))
	for k := range rs {
		out[k] = true
	}
	return out
}

// Match structurally matches pattern against target, accumulating bindings
// into env. It reports whether a consistent binding exists; on failure env
// may hold a partial set of bindings and must be discarded by the caller.
//
// Rules, applied deterministically with no backtracking:
//   - a constant matches only the identical constant;
//   - a rigid metavariable (name in bound) matches only the identical
//     symbol, constant or metavariable, and never binds;
//   - a free metavariable already bound in env matches only a target equal
//     to its binding; an unbound one binds to the target and succeeds;
//   - applications need identical head and arity, arguments matched
//     left-to-right under the same env, failing fast;
//   - groups need equal length, items matched element-wise the same way;
//   - any other shape pairing fails.
func Match(bound RigidSet, pattern, target term.Term, env term.Subst) bool {
	switch p := pattern.(type) {
	case term.Con:
		t, ok := target.(term.Con)
		return ok && t.Name == p.Name
	case term.Var:
		if bound[p.Name] {
			switch t := target.(type) {
			case term.Con:
				return t.Name == p.Name
			case term.Var:
				return t.Name == p.Name
			default:
				return false
			}
		}
		if prev, ok := env[p.Name]; ok {
			return term.Equal(prev, target)
		}
		env[p.Name] = target
		return true
	case term.App:
		t, ok := target.(term.App)
		if !ok || t.Head != p.Head || len(t.Args) != len(p.Args) {
			return false
		}
		for i := range p.Args {
			if !Match(bound, p.Args[i], t.Args[i], env) {
				return false
			}
		}
		return true
	case term.Tree:
		t, ok := target.(term.Tree)
		if !ok || len(t.Items) != len(p.Items) {
			return false
		}
		for i := range p.Items {
			if !Match(bound, p.Items[i], t.Items[i], env) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
