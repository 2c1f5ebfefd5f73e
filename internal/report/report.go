// Package report renders conversion diagnostics and errors for the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emlang-project/webidl-dts-gen/internal/convert"
	"github.com/emlang-project/webidl-dts-gen/internal/parser"
	"github.com/pterm/pterm"
)

var (
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	DimColorFG     = pterm.FgGray
)

// Reporter writes diagnostics for one input.
type Reporter struct {
	Out     io.Writer
	Name    string // input name shown before positions
	Quiet   bool   // suppress warnings
	Verbose bool   // include node dumps
}

// New returns a reporter writing to w.
func New(w io.Writer, name string) *Reporter {
	return &Reporter{Out: w, Name: name}
}

// Diagnostics prints every diagnostic and returns the error and warning counts.
func (r *Reporter) Diagnostics(diags []convert.Diagnostic) (errorCount, warningCount int) {
	for _, d := range diags {
		if d.Severity == convert.SeverityError {
			errorCount++
		} else {
			warningCount++
			if r.Quiet {
				continue
			}
		}
		r.diagnostic(d)
	}
	return errorCount, warningCount
}

func (r *Reporter) diagnostic(d convert.Diagnostic) {
	style, color, tag := WarnStyleBG, WarnColorFG, " WARNING "
	if d.Severity == convert.SeverityError {
		style, color, tag = ErrorStyleBG, ErrorColorFG, " ERROR "
	}

	fmt.Fprint(r.Out, style.Sprint(tag))
	fmt.Fprintf(r.Out, " %s %s %s\n",
		r.position(d.Line, d.Column),
		color.Sprint(d.Message),
		DimColorFG.Sprint("["+d.Rule+"]"))

	if r.Verbose && d.Node != "" {
		for _, line := range strings.Split(strings.TrimRight(d.Node, "\n"), "\n") {
			fmt.Fprintln(r.Out, "    "+DimColorFG.Sprint(line))
		}
	}
}

func (r *Reporter) position(line, col int) string {
	name := r.Name
	if name == "" {
		name = "<input>"
	}
	if line == 0 {
		return name + ":"
	}
	return fmt.Sprintf("%s:%d:%d:", name, line, col)
}

// Error prints a fatal error. Parse errors are shown at their position.
func (r *Reporter) Error(err error) {
	fmt.Fprint(r.Out, ErrorStyleBG.Sprint(" ERROR "))

	var perr *parser.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintf(r.Out, " %s %s\n", r.position(perr.Line, perr.Column), ErrorColorFG.Sprint(err.Error()))
		return
	}
	fmt.Fprintln(r.Out, " "+ErrorColorFG.Sprint(err.Error()))
}

// Summary prints the outcome line for a conversion written to out.
func (r *Reporter) Summary(out string, errorCount, warningCount int) {
	if r.Quiet && errorCount == 0 {
		return
	}
	fmt.Fprint(r.Out, SuccessStyleBG.Sprint(" DONE "))
	fmt.Fprintf(r.Out, " %s (%s, %s)\n", out,
		count(errorCount, "error", ErrorColorFG),
		count(warningCount, "warning", WarnColorFG))
}

func count(n int, noun string, color pterm.Color) string {
	if n != 1 {
		noun += "s"
	}
	if n == 0 {
		return SuccessColorFG.Sprint(0) + " " + noun
	}
	return color.Sprint(n) + " " + noun
}
