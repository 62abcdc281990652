package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"principia/internal/sexp"
)

// Runner evaluates library files against a single run state. Files are
// processed sequentially; include forms re-enter the runner with the same
// state, so later files see everything earlier ones committed.
type Runner struct {
	State  *State
	Report *Reporter

	log         *zap.Logger
	includeDirs []string
}

// NewRunner wires a runner around state. logger may be nil.
func NewRunner(state *State, report *Reporter, logger *zap.Logger, includeDirs []string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{State: state, Report: report, log: logger, includeDirs: includeDirs}
}

// CheckFile reads and evaluates one library file. The returned error is
// file-fatal (unreadable file or unparsable source); command-level
// failures are reported and tallied but do not stop the file.
func (r *Runner) CheckFile(path string) error {
	r.Report.File(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return r.CheckSource(filepath.Dir(path), string(data))
}

// CheckSource evaluates source text. dir anchors relative include paths.
// The metavariable table is file-scoped and reset here.
func (r *Runner) CheckSource(dir, src string) error {
	forms, err := sexp.Parse(src)
	if err != nil {
		return err
	}

	r.State.ResetVariables()
	for _, form := range forms {
		r.evaluate(dir, form)
	}
	return nil
}

// evaluate dispatches one top-level form. Failures are command-fatal at
// most: they are reported and the file moves on.
func (r *Runner) evaluate(dir string, form sexp.Node) {
	list, ok := form.(sexp.List)
	if !ok || len(list.Items) == 0 {
		r.Report.CommandError(&MalformedFormError{At: form.Pos(), Msg: "expected a command form"})
		return
	}
	head, err := symbolOf(list.Items[0])
	if err != nil {
		r.Report.CommandError(err)
		return
	}
	args := list.Items[1:]

	r.log.Debug("evaluating form", zap.String("form", head))

	switch head {
	case "postulate":
		err = r.postulate(args)
	case "theorem", "lemma":
		err = r.theorem(args)
	case "infix":
		err = r.infix(args, list.At)
	case "variables":
		err = r.variables(args)
	case "bound":
		err = r.bound(args)
	case "define":
		err = r.define(args, list.At)
	case "include":
		err = r.include(dir, args)
	default:
		err = &MalformedFormError{At: list.At, Msg: fmt.Sprintf("unknown form %q", head)}
	}
	if err != nil {
		r.Report.CommandError(err)
	}
}

// resolveInclude locates an included path relative to the including file,
// then through the configured search directories.
func (r *Runner) resolveInclude(dir, path string) (string, error) {
	candidates := make([]string, 0, len(r.includeDirs)+2)
	if !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join(dir, path))
		for _, inc := range r.includeDirs {
			candidates = append(candidates, filepath.Join(inc, path))
		}
	}
	candidates = append(candidates, path)

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return "", fmt.Errorf("path %s is a directory", c)
		}
		return c, nil
	}
	return "", fmt.Errorf("path %s does not exist", path)
}
