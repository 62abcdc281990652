package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"principia/internal/sexp"
	"principia/internal/term"
)

// run evaluates src against a fresh runner and returns it with the
// console output.
func run(t *testing.T, src string) (*Runner, string) {
	t.Helper()
	var buf bytes.Buffer
	r := NewRunner(NewState(), NewReporter(&buf, false), nil, nil)
	require.NoError(t, r.CheckSource(t.TempDir(), src))
	return r, buf.String()
}

func TestPostulateCommits(t *testing.T) {
	r, out := run(t, `
		(infix → 20)
		(variables p q)
		(postulate
		  p (p → q)
		  ─────────── mp
		  q)
	`)
	require.Contains(t, out, "“mp” postulated")

	schema, ok := r.State.Context.Lookup("mp")
	require.True(t, ok)
	require.Len(t, schema.Premises, 2)
	require.True(t, term.Equal(schema.Conclusion, term.Var{Name: "q"}))
	require.True(t, term.Equal(schema.Premises[1],
		term.App{Head: "→", Args: []term.Term{term.Var{Name: "p"}, term.Var{Name: "q"}}}))
}

func TestPostulateSeveralRulesInOneForm(t *testing.T) {
	r, _ := run(t, `
		(postulate
		  ─── A
		  a
		  ─── B
		  b)
	`)
	require.True(t, r.State.Context.Has("A"))
	require.True(t, r.State.Context.Has("B"))
}

func TestPostulateDuplicateLeavesContextIntact(t *testing.T) {
	r, out := run(t, `
		(postulate ─── A a)
		(postulate ─── A b)
	`)
	require.Contains(t, out, "already defined")

	schema, _ := r.State.Context.Lookup("A")
	require.True(t, term.Equal(schema.Conclusion, term.Con{Name: "a"}),
		"first declaration must survive the rejected redeclaration")
}

func TestPostulateIncompleteDefinition(t *testing.T) {
	_, out := run(t, `(postulate a b)`)
	require.Contains(t, out, "incomplete definition")
}

func TestTheoremScenarioA(t *testing.T) {
	r, out := run(t, `
		(postulate ─── P a)
		(theorem
		  ─── T
		  a
		  T P)
	`)
	require.Contains(t, out, "“T” checked")

	schema, ok := r.State.Context.Lookup("T")
	require.True(t, ok)
	require.Empty(t, schema.Premises)
	require.True(t, term.Equal(schema.Conclusion, term.Con{Name: "a"}))
}

func TestTheoremScenarioB(t *testing.T) {
	lib := `
		(infix → 20)
		(variables p q)
		(postulate
		  p (p → q)
		  ─────────── mp
		  q)
		(postulate ─── A a)
		(postulate ─── iab (a → b))
		(postulate ─── icb (c → b))
	`

	r, out := run(t, lib+`
		(theorem
		  ─── good
		  b
		  good (mp A iab))
	`)
	require.Contains(t, out, "“good” checked")
	require.True(t, r.State.Context.Has("good"))

	r, out = run(t, lib+`
		(theorem
		  ─── bad
		  b
		  bad (mp A icb))
	`)
	require.Contains(t, out, "“bad” has not been checked")
	require.Contains(t, out, "does not match")
	require.False(t, r.State.Context.Has("bad"))
}

func TestTheoremScenarioCAdmittedGap(t *testing.T) {
	r, out := run(t, `
		(infix → 20)
		(variables p q)
		(postulate
		  p (p → q)
		  ─────────── mp
		  q)
		(postulate ─── iab (a → b))
		(theorem
		  ─── T
		  b
		  T (mp (sorry major) iab))
	`)
	require.Contains(t, out, "“T” checked with admitted gaps: major")
	require.True(t, r.State.Context.Has("T"), "gapped theorems still commit")
	require.Equal(t, 1, r.Report.Gapped)
}

func TestTheoremAtomicityAndRedeclaration(t *testing.T) {
	// A failing proof must leave the context unchanged, so declaring the
	// same name again afterwards is not a duplicate.
	r, out := run(t, `
		(postulate ─── P a)
		(theorem ─── T b T P)
		(theorem ─── T a T P)
	`)
	require.Contains(t, out, "“T” has not been checked")
	require.Contains(t, out, "“T” checked")

	schema, ok := r.State.Context.Lookup("T")
	require.True(t, ok)
	require.True(t, term.Equal(schema.Conclusion, term.Con{Name: "a"}))
}

func TestTheoremDuplicateName(t *testing.T) {
	r, out := run(t, `
		(postulate ─── P a)
		(theorem ─── T a T P)
		(theorem ─── T a T P)
	`)
	require.Contains(t, out, "already defined")
	require.True(t, r.State.Context.Has("T"))
}

func TestTheoremWithHypotheses(t *testing.T) {
	r, out := run(t, `
		(postulate
		  a
		  ─── ab
		  b)
		(theorem
		  ─── h
		  a
		  ─── T
		  b
		  T (ab h))
	`)
	require.Contains(t, out, "“T” checked")

	schema, ok := r.State.Context.Lookup("T")
	require.True(t, ok)
	require.Len(t, schema.Premises, 1, "hypotheses become the committed premises")
	require.True(t, term.Equal(schema.Premises[0], term.Con{Name: "a"}))
	require.False(t, r.State.Context.Has("h"), "hypotheses must not leak into the run context")
}

func TestTheoremNamedLemmas(t *testing.T) {
	_, out := run(t, `
		(infix → 20)
		(variables p q)
		(postulate
		  p (p → q)
		  ─────────── mp
		  q)
		(postulate ─── A a)
		(postulate ─── iab (a → b))
		(postulate ─── ibc (b → c))
		(theorem
		  ─── T
		  c
		  lemB (mp A iab)
		  T (mp lemB ibc))
	`)
	require.Contains(t, out, "“T” checked")
}

func TestTheoremExplicitSubstitution(t *testing.T) {
	_, out := run(t, `
		(variables q)
		(postulate ─── Any q)
		(theorem
		  ─── T
		  b
		  T (Any [q := b]))
	`)
	require.Contains(t, out, "“T” checked")
}

func TestDefineMacroExpansion(t *testing.T) {
	r, _ := run(t, `
		(infix → 20)
		(variables x)
		(define (neg x) (x → ⊥))
		(postulate ─── nn (neg a))
	`)
	schema, ok := r.State.Context.Lookup("nn")
	require.True(t, ok)
	want := term.App{Head: "→", Args: []term.Term{term.Con{Name: "a"}, term.Con{Name: "⊥"}}}
	require.True(t, term.Equal(schema.Conclusion, want),
		"macro should rewrite (neg a) to %s, got %s", want, schema.Conclusion)
}

func TestBoundDeclaresRigidSymbols(t *testing.T) {
	r, _ := run(t, `(bound x y)`)
	require.True(t, r.State.Bound["x"])
	require.True(t, r.State.Bound["y"])
}

func TestVariablesAreFileScoped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(NewState(), NewReporter(&buf, false), nil, nil)
	dir := t.TempDir()

	require.NoError(t, r.CheckSource(dir, `(variables p)`))
	require.True(t, r.State.Variables["p"])

	require.NoError(t, r.CheckSource(dir, `(postulate ─── P p)`))
	require.False(t, r.State.Variables["p"], "variables reset per file")

	schema, _ := r.State.Context.Lookup("P")
	require.True(t, term.Equal(schema.Conclusion, term.Con{Name: "p"}),
		"p is a constant in the second file")
}

func TestUnknownFormReported(t *testing.T) {
	_, out := run(t, `(frobnicate a)`)
	require.Contains(t, out, `unknown form "frobnicate"`)
}

func TestIncludeSharesState(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.lisp")
	require.NoError(t, os.WriteFile(lib, []byte(`(postulate ─── P a)`), 0644))

	var buf bytes.Buffer
	r := NewRunner(NewState(), NewReporter(&buf, false), nil, nil)
	require.NoError(t, r.CheckSource(dir, `
		(include lib.lisp)
		(theorem ─── T a T P)
	`))
	require.Contains(t, buf.String(), "“T” checked")
}

func TestIncludeMissingPathReported(t *testing.T) {
	_, out := run(t, `(include nowhere.lisp)`)
	require.Contains(t, out, "does not exist")
}

func TestInfixReassociation(t *testing.T) {
	state := NewState()
	state.Infix["→"] = 20
	state.Infix["∧"] = 30

	parse := func(src string) term.Term {
		nodes, err := sexp.Parse(src)
		require.NoError(t, err)
		got, err := state.buildTerm(nodes[0])
		require.NoError(t, err)
		return got
	}

	// Right associativity: a → b → c is a → (b → c).
	got := parse("(a → b → c)")
	want := term.App{Head: "→", Args: []term.Term{
		term.Con{Name: "a"},
		term.App{Head: "→", Args: []term.Term{term.Con{Name: "b"}, term.Con{Name: "c"}}},
	}}
	require.True(t, term.Equal(got, want), "got %s", got)

	// Tighter ∧ binds first: a ∧ b → c is (a ∧ b) → c.
	got = parse("(a ∧ b → c)")
	want = term.App{Head: "→", Args: []term.Term{
		term.App{Head: "∧", Args: []term.Term{term.Con{Name: "a"}, term.Con{Name: "b"}}},
		term.Con{Name: "c"},
	}}
	require.True(t, term.Equal(got, want), "got %s", got)

	// No registered operator: a plain group.
	got = parse("(f x)")
	_, isTree := got.(term.Tree)
	require.True(t, isTree, "got %T", got)
}

func TestInfixDuplicateRegistration(t *testing.T) {
	_, out := run(t, `
		(infix → 20)
		(infix → 30)
	`)
	require.Contains(t, out, "already defined")
}

func TestLoosePremiseVariableWarning(t *testing.T) {
	_, out := run(t, `
		(infix → 20)
		(variables p q)
		(postulate
		  p (p → q)
		  ─────────── mp
		  q)
	`)
	require.Contains(t, out, "Warning")
	require.Contains(t, out, "mp")
}

func TestSyntaxErrorIsFileFatal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(NewState(), NewReporter(&buf, false), nil, nil)
	err := r.CheckSource(t.TempDir(), `(postulate ─── P a`)
	require.Error(t, err)
	require.False(t, r.State.Context.Has("P"))
}

func TestReporterTallies(t *testing.T) {
	r, _ := run(t, `
		(postulate ─── P a)
		(theorem ─── T b T P)
	`)
	require.Equal(t, 1, r.Report.Committed)
	require.Equal(t, 1, r.Report.Failed)
}

func TestReporterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false)
	rep.Postulated("P")
	rep.Checked("T", nil)
	rep.Checked("U", []string{"g1", "g2"})
	out := buf.String()
	require.True(t, strings.Contains(out, "“P” postulated"))
	require.True(t, strings.Contains(out, "“T” checked\n"))
	require.True(t, strings.Contains(out, "“U” checked with admitted gaps: g1, g2"))
}
