package kernel

import "principia/internal/term"

// Derivation is a proof tree: either an admitted leaf or a rule
// application with sub-proofs for the rule's premises.
type Derivation interface {
	isDerivation()
}

// Admitted marks a branch deliberately left unproved. Checking an Admitted
// leaf always succeeds, but the gap is recorded in the report so the
// enclosing theorem is flagged rather than silently counted as verified.
type Admitted struct {
	Label string
}

// Step applies the named rule. Children prove the rule's instantiated
// premises in order. When Subst is non-nil it is used verbatim to
// instantiate the schema and no conclusion matching is attempted.
type Step struct {
	Rule     string
	Children []Derivation
	Subst    term.Subst
}

func (Admitted) isDerivation() {}
func (Step) isDerivation()     {}

// Report carries what checking observed beyond plain success: the labels
// of admitted gaps, in encounter order.
type Report struct {
	Admitted []string
}

// Gapped reports whether the proof leaned on any admitted leaf.
func (r *Report) Gapped() bool { return len(r.Admitted) > 0 }

// Check validates that proof establishes conclusion from the schemas in
// ctx. It is read-only over ctx, fails fast on the first defect, and on
// success returns a report of any admitted gaps encountered.
//
// For each Step: the rule is looked up (*UnknownRuleError if absent); the
// instantiating substitution is the step's explicit one if present,
// otherwise it is computed by matching the schema's conclusion against the
// goal under bound (*SchemaMismatchError on mismatch); the substitution is
// applied to every premise; the child count must equal the premise count
// (*ArityMismatchError); each child is then checked against its
// instantiated premise independently.
func Check(ctx *Context, bound RigidSet, conclusion term.Term, proof Derivation) (*Report, error) {
	report := &Report{}
	if err := check(ctx, bound, conclusion, proof, report); err != nil {
		return nil, err
	}
	return report, nil
}

func check(ctx *Context, bound RigidSet, conclusion term.Term, proof Derivation, report *Report) error {
	switch p := proof.(type) {
	case Admitted:
		report.Admitted = append(report.Admitted, p.Label)
		return nil

	case Step:
		schema, ok := ctx.Lookup(p.Rule)
		if !ok {
			return &UnknownRuleError{Rule: p.Rule}
		}

		var env term.Subst
		if p.Subst != nil {
			env = p.Subst.Clone()
		} else {
			env = make(term.Subst)
			if !Match(bound, schema.Conclusion, conclusion, env) {
				return &SchemaMismatchError{Rule: p.Rule, Pattern: schema.Conclusion, Goal: conclusion}
			}
		}

		if len(p.Children) != len(schema.Premises) {
			return &ArityMismatchError{Rule: p.Rule, Want: len(schema.Premises), Got: len(p.Children)}
		}

		// Premises are instantiated left-to-right. A premise metavariable
		// the conclusion did not determine (the schema invariant says there
		// should be none, but MP-style rules exist) is resolved by inferring
		// the child's own conclusion and folding the bindings into env, so
		// all siblings see one consistent instantiation.
		for i, premise := range schema.Premises {
			goal := env.Apply(premise)
			child := p.Children[i]

			if _, admitted := child.(Admitted); !admitted && hasFreeVars(goal, bound) {
				got, err := infer(ctx, bound, child, report)
				if err != nil {
					return err
				}
				if !Match(bound, goal, got, env) {
					return &SchemaMismatchError{Rule: p.Rule, Pattern: goal, Goal: got}
				}
				continue
			}
			if err := check(ctx, bound, goal, child, report); err != nil {
				return err
			}
		}
		return nil

	default:
		return &UnknownRuleError{Rule: "?"}
	}
}

// hasFreeVars reports whether t contains a metavariable that is not rigid
// under bound. Such a term is a pattern, not a concrete goal.
func hasFreeVars(t term.Term, bound RigidSet) bool {
	for _, v := range term.Vars(t) {
		if !bound[v] {
			return true
		}
	}
	return false
}

// Infer computes the conclusion a proof establishes without a goal to
// match against. The driver uses it to turn named in-theorem lemmas into
// zero-premise schemas for the remainder of the theorem.
//
// With an explicit substitution the conclusion is immediate and the
// children are checked against the instantiated premises. Without one the
// substitution is accumulated by matching each premise against the
// inferred conclusion of the corresponding child; metavariables still
// unbound after that cannot be resolved and the proof must carry an
// explicit substitution (*UnresolvedInferenceError).
func Infer(ctx *Context, bound RigidSet, proof Derivation) (term.Term, *Report, error) {
	report := &Report{}
	conclusion, err := infer(ctx, bound, proof, report)
	if err != nil {
		return nil, nil, err
	}
	return conclusion, report, nil
}

func infer(ctx *Context, bound RigidSet, proof Derivation, report *Report) (term.Term, error) {
	switch p := proof.(type) {
	case Admitted:
		return nil, &UnresolvedInferenceError{Rule: "sorry " + p.Label, Vars: nil}

	case Step:
		schema, ok := ctx.Lookup(p.Rule)
		if !ok {
			return nil, &UnknownRuleError{Rule: p.Rule}
		}
		if len(p.Children) != len(schema.Premises) {
			return nil, &ArityMismatchError{Rule: p.Rule, Want: len(schema.Premises), Got: len(p.Children)}
		}

		if p.Subst != nil {
			for i, premise := range schema.Premises {
				if err := check(ctx, bound, p.Subst.Apply(premise), p.Children[i], report); err != nil {
					return nil, err
				}
			}
			return p.Subst.Apply(schema.Conclusion), nil
		}

		env := make(term.Subst)
		for i, premise := range schema.Premises {
			got, err := infer(ctx, bound, p.Children[i], report)
			if err != nil {
				return nil, err
			}
			if !Match(bound, premise, got, env) {
				return nil, &SchemaMismatchError{Rule: p.Rule, Pattern: premise, Goal: got}
			}
		}

		var loose []string
		for _, v := range term.Vars(schema.Conclusion) {
			if _, ok := env[v]; !ok && !bound[v] {
				loose = append(loose, v)
			}
		}
		if len(loose) > 0 {
			return nil, &UnresolvedInferenceError{Rule: p.Rule, Vars: loose}
		}
		return env.Apply(schema.Conclusion), nil

	default:
		return nil, &UnknownRuleError{Rule: "?"}
	}
}
