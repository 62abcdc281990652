package driver

import (
	"fmt"

	"go.uber.org/zap"

	"principia/internal/kernel"
	"principia/internal/sexp"
	"principia/internal/term"
)

// postulate reads one or more rule declarations:
//
//	(postulate
//	  premise ...
//	  ─────── name
//	  conclusion
//	  ...)
//
// Premises accumulate until a separator line; the name and conclusion
// follow it. A name collision is reported and skips that rule without
// touching the context or the rest of the form. Leftover premises with no
// separator make the form malformed.
func (r *Runner) postulate(items []sexp.Node) error {
	var premises []term.Term
	i := 0
	for i < len(items) {
		elem := items[i]
		i++
		if !isSeparator(elem) {
			p, err := r.State.parseTerm(elem)
			if err != nil {
				return err
			}
			premises = append(premises, p)
			continue
		}

		if i+1 >= len(items) {
			return &MalformedFormError{At: elem.Pos(), Msg: "separator must be followed by a name and a conclusion"}
		}
		name, err := symbolOf(items[i])
		if err != nil {
			return err
		}
		conclusion, err := r.State.parseTerm(items[i+1])
		if err != nil {
			return err
		}
		i += 2

		schema := kernel.Schema{Premises: premises, Conclusion: conclusion}
		if err := r.commit(name, schema); err != nil {
			r.Report.CommandError(err)
		} else {
			r.Report.Postulated(name)
		}
		premises = nil
	}

	if len(premises) > 0 {
		return &MalformedFormError{At: items[len(items)-1].Pos(), Msg: "incomplete definition"}
	}
	return nil
}

// theorem reads a goal preamble and a proof section:
//
//	(theorem
//	  ─────── h1
//	  hyp1
//	  ─────── name
//	  conclusion
//	  lemma1 proof1
//	  ...
//	  name proofN)
//
// Every separator introduces a named goal; the last one is the theorem
// itself and the earlier ones become hypotheses: zero-premise rules the
// proofs may use, and the premises of the committed schema. The proof
// section alternates names and proof expressions; all but the last name a
// lemma whose conclusion is inferred and added to the scratch context,
// and the last proof is checked against the theorem's conclusion. The run
// context is committed only after the whole check succeeds.
func (r *Runner) theorem(items []sexp.Node) error {
	if len(items) == 0 {
		return nil
	}

	var names []string
	var goals []term.Term
	expected := 0
	i := 0
	for {
		if i >= len(items) {
			return &MalformedFormError{At: items[len(items)-1].Pos(), Msg: "theorem has no proof section"}
		}
		elem := items[i]
		i++
		if isSeparator(elem) {
			if i >= len(items) {
				return &MalformedFormError{At: elem.Pos(), Msg: "separator must be followed by a name"}
			}
			name, err := symbolOf(items[i])
			if err != nil {
				return err
			}
			i++
			expected++
			names = append(names, name)
		} else if expected != 0 {
			goal, err := r.State.parseTerm(elem)
			if err != nil {
				return err
			}
			expected--
			goals = append(goals, goal)
		} else {
			i-- // proofs begin with this element
			break
		}
	}
	if len(names) == 0 || len(goals) != len(names) {
		return &MalformedFormError{At: items[0].Pos(), Msg: "every named goal needs a statement"}
	}

	name := names[len(names)-1]
	conclusion := goals[len(goals)-1]
	hypNames := names[:len(names)-1]
	premises := goals[:len(goals)-1]

	proofs, err := r.parseProofSection(items[i:])
	if err != nil {
		return err
	}
	if len(proofs) == 0 {
		return &MalformedFormError{At: items[0].Pos(), Msg: "theorem has no proof"}
	}

	if r.State.Context.Has(name) {
		return &kernel.DuplicateNameError{Name: name}
	}

	// Scratch context: hypotheses and in-theorem lemmas live here and are
	// discarded whether or not the check succeeds.
	scratch := r.State.Context.Clone()
	for k, hyp := range hypNames {
		if err := scratch.Add(hyp, kernel.Schema{Conclusion: premises[k]}); err != nil {
			return err
		}
	}

	var gaps []string
	for _, lemma := range proofs[:len(proofs)-1] {
		conc, rep, err := kernel.Infer(scratch, r.State.Bound, lemma.proof)
		if err != nil {
			r.Report.NotChecked(name, fmt.Errorf("lemma %q: %w", lemma.name, err))
			return nil
		}
		if err := scratch.Add(lemma.name, kernel.Schema{Conclusion: conc}); err != nil {
			return err
		}
		gaps = append(gaps, rep.Admitted...)
	}

	main := proofs[len(proofs)-1]
	report, err := kernel.Check(scratch, r.State.Bound, conclusion, main.proof)
	if err != nil {
		r.Report.NotChecked(name, err)
		return nil
	}
	gaps = append(gaps, report.Admitted...)

	schema := kernel.Schema{Premises: premises, Conclusion: conclusion}
	if err := r.commit(name, schema); err != nil {
		return err
	}
	r.Report.Checked(name, gaps)
	return nil
}

type namedProof struct {
	name  string
	proof kernel.Derivation
}

func (r *Runner) parseProofSection(items []sexp.Node) ([]namedProof, error) {
	if len(items)%2 != 0 {
		return nil, &MalformedFormError{At: items[len(items)-1].Pos(), Msg: "proof section must alternate names and proofs"}
	}
	proofs := make([]namedProof, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		name, err := symbolOf(items[i])
		if err != nil {
			return nil, err
		}
		proof, err := r.State.parseProof(items[i+1])
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, namedProof{name: name, proof: proof})
	}
	return proofs, nil
}

// commit adds a schema to the run context and warns opportunistically if
// a premise metavariable is absent from the conclusion, since such a
// schema can never be fully instantiated from a goal.
func (r *Runner) commit(name string, schema kernel.Schema) error {
	if err := r.State.Context.Add(name, schema); err != nil {
		return err
	}
	if loose := schema.UnboundPremiseVars(); len(loose) > 0 {
		r.Report.Warn(fmt.Sprintf("%q: premise metavariables %v do not occur in the conclusion", name, loose))
	}
	r.log.Debug("schema committed",
		zap.String("name", name),
		zap.Int("premises", len(schema.Premises)))
	return nil
}

// infix registers an operator and its precedence: (infix → 20).
func (r *Runner) infix(items []sexp.Node, at sexp.Position) error {
	if len(items) != 2 {
		return &MalformedFormError{At: at, Msg: "infix takes a name and a precedence"}
	}
	name, err := symbolOf(items[0])
	if err != nil {
		return err
	}
	num, ok := items[1].(sexp.Number)
	if !ok {
		return &MalformedFormError{At: items[1].Pos(), Msg: "precedence must be an integer"}
	}
	if prev, exists := r.State.Infix[name]; exists {
		return &MalformedFormError{At: at, Msg: fmt.Sprintf("operator %q (%d) is already defined", name, prev)}
	}
	r.State.Infix[name] = int(num.Value)
	return nil
}

// variables extends the file-scoped metavariable table.
func (r *Runner) variables(items []sexp.Node) error {
	for _, item := range items {
		name, err := symbolOf(item)
		if err != nil {
			return err
		}
		r.State.Variables[name] = true
	}
	return nil
}

// bound declares rigid symbols: the matcher treats them as literals for
// the rest of the run.
func (r *Runner) bound(items []sexp.Node) error {
	for _, item := range items {
		name, err := symbolOf(item)
		if err != nil {
			return err
		}
		r.State.Bound[name] = true
	}
	return nil
}

// define appends a macro definition: (define pattern body). The body is
// macro-expanded at definition time; the pattern is taken literally.
// Declaration order is semantic: expansion uses the first matching
// pattern.
func (r *Runner) define(items []sexp.Node, at sexp.Position) error {
	if len(items) != 2 {
		return &MalformedFormError{At: at, Msg: "define takes a pattern and a body"}
	}
	pattern, err := r.State.buildTerm(items[0])
	if err != nil {
		return err
	}
	body, err := r.State.parseTerm(items[1])
	if err != nil {
		return err
	}
	r.State.Defs = append(r.State.Defs, kernel.MacroDef{Pattern: pattern, Body: body})
	return nil
}

// include checks the named files with the same run state.
func (r *Runner) include(dir string, items []sexp.Node) error {
	for _, item := range items {
		path, err := symbolOf(item)
		if err != nil {
			return err
		}
		resolved, err := r.resolveInclude(dir, path)
		if err != nil {
			r.Report.CommandError(err)
			continue
		}
		if err := r.CheckFile(resolved); err != nil {
			r.Report.CommandError(err)
		}
	}
	return nil
}
