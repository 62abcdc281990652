// Package driver evaluates the surface-level command forms (postulate,
// theorem, infix, variables, bound, define, include) against a run's
// state, delegating all verification to the kernel. It owns the only
// mutation of the schema context, and performs it strictly after a
// command has fully succeeded.
package driver

import (
	"fmt"

	"principia/internal/kernel"
	"principia/internal/sexp"
)

// State is the whole-run mutable state threaded through command
// evaluation: the metavariable table, the infix precedence table, the
// schema context, the rigid symbol set, and the macro definitions in
// declaration order. It is mutated only between completed commands,
// never mid-check.
type State struct {
	Variables map[string]bool
	Infix     map[string]int
	Context   *kernel.Context
	Bound     kernel.RigidSet
	Defs      []kernel.MacroDef
}

// NewState returns an empty run state.
func NewState() *State {
	return &State{
		Variables: make(map[string]bool),
		Infix:     make(map[string]int),
		Context:   kernel.NewContext(),
		Bound:     make(kernel.RigidSet),
	}
}

// ResetVariables clears the metavariable table. The table is file-scoped:
// each checked file starts with a fresh one.
func (s *State) ResetVariables() {
	s.Variables = make(map[string]bool)
}

// MalformedFormError reports a structurally invalid top-level command.
// It is fatal to the current command only; the enclosing file continues.
type MalformedFormError struct {
	At  sexp.Position
	Msg string
}

func (e *MalformedFormError) Error() string {
	return fmt.Sprintf("malformed form at %s: %s", e.At, e.Msg)
}
