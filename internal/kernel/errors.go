package kernel

import (
	"fmt"

	"principia/internal/term"
)

// The checker reports failure through a small set of typed errors. Match
// failure itself is not an error: the matcher returns a plain bool and the
// expander/checker consume it as ordinary control flow. Only when no
// candidate applies at a check site does it surface as SchemaMismatchError.

// UnknownRuleError reports a proof step referencing a name absent from the
// context.
type UnknownRuleError struct {
	Rule string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Rule)
}

// SchemaMismatchError reports that a schema's conclusion pattern does not
// match the goal a proof step claims to establish.
type SchemaMismatchError struct {
	Rule    string
	Pattern term.Term
	Goal    term.Term
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("rule %q does not apply: conclusion %s does not match goal %s",
		e.Rule, e.Pattern, e.Goal)
}

// ArityMismatchError reports a proof step whose child count disagrees with
// the schema's premise count.
type ArityMismatchError struct {
	Rule string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("rule %q expects %d premise proofs, got %d", e.Rule, e.Want, e.Got)
}

// DuplicateNameError reports an attempt to commit a schema under a name
// already present in the context.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%q is already defined", e.Name)
}

// UnresolvedInferenceError reports that inferring a proof's conclusion left
// metavariables unbound; the proof needs an explicit substitution list.
type UnresolvedInferenceError struct {
	Rule string
	Vars []string
}

func (e *UnresolvedInferenceError) Error() string {
	return fmt.Sprintf("cannot infer conclusion of %q: unresolved metavariables %v (add an explicit substitution)",
		e.Rule, e.Vars)
}
