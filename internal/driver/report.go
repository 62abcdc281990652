package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Reporter writes per-command acknowledgments and errors to the console
// and keeps the run's tallies. One acknowledgment line is printed per
// committed rule; theorems that lean on admitted leaves are flagged
// distinctly from fully checked ones.
type Reporter struct {
	out   io.Writer
	color bool

	okStyle   lipgloss.Style
	gapStyle  lipgloss.Style
	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	fileStyle lipgloss.Style

	// Tallies for the run summary and exit code.
	Committed int
	Failed    int
	Gapped    int
}

// NewReporter creates a reporter writing to out. With color disabled all
// styling degrades to plain text.
func NewReporter(out io.Writer, color bool) *Reporter {
	r := &Reporter{out: out, color: color}
	if color {
		r.okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		r.gapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
		r.errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		r.warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		r.fileStyle = lipgloss.NewStyle().Bold(true)
	}
	return r
}

func (r *Reporter) render(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

// File announces the file about to be checked.
func (r *Reporter) File(path string) {
	fmt.Fprintln(r.out, r.render(r.fileStyle, "Checking "+path))
}

// Postulated acknowledges a committed postulate.
func (r *Reporter) Postulated(name string) {
	r.Committed++
	fmt.Fprintln(r.out, r.render(r.okStyle, fmt.Sprintf("“%s” postulated", name)))
}

// Checked acknowledges a committed theorem. A non-empty gap list marks the
// theorem as containing admitted leaves rather than fully verified.
func (r *Reporter) Checked(name string, gaps []string) {
	r.Committed++
	if len(gaps) == 0 {
		fmt.Fprintln(r.out, r.render(r.okStyle, fmt.Sprintf("“%s” checked", name)))
		return
	}
	r.Gapped++
	fmt.Fprintln(r.out, r.render(r.gapStyle,
		fmt.Sprintf("“%s” checked with admitted gaps: %s", name, strings.Join(gaps, ", "))))
}

// NotChecked reports a theorem whose proof failed verification.
func (r *Reporter) NotChecked(name string, err error) {
	r.Failed++
	fmt.Fprintln(r.out, r.render(r.errStyle, fmt.Sprintf("“%s” has not been checked", name)))
	fmt.Fprintln(r.out, r.render(r.errStyle, "Error: "+err.Error()))
}

// CommandError reports a command-fatal error; the file continues with the
// next form.
func (r *Reporter) CommandError(err error) {
	r.Failed++
	fmt.Fprintln(r.out, r.render(r.errStyle, "Error: "+err.Error()))
}

// Warn reports a non-fatal authoring issue.
func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.out, r.render(r.warnStyle, "Warning: "+msg))
}
