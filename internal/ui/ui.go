// Package ui prints colored status lines for the installer.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/pymol-wizard/installer/internal/types"
)

// Printer writes status messages to one stream.
type Printer struct {
	w io.Writer

	header  *color.Color
	info    *color.Color
	success *color.Color
	warning *color.Color
	err     *color.Color
	prompt  *color.Color
}

// New creates a Printer. Colors are only used when w is a terminal.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:       w,
		header:  color.New(color.FgBlue, color.Bold),
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		err:     color.New(color.FgRed),
		prompt:  color.New(color.FgMagenta),
	}
	if !IsTerminal(w) {
		for _, c := range []*color.Color{p.header, p.info, p.success, p.warning, p.err, p.prompt} {
			c.DisableColor()
		}
	}
	return p
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) Header(format string, a ...any) {
	p.header.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Info(format string, a ...any) {
	p.info.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Success(format string, a ...any) {
	p.success.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Warning(format string, a ...any) {
	p.warning.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Error(format string, a ...any) {
	p.err.Fprintf(p.w, format+"\n", a...)
}

// Prompt returns a question styled for display.
func (p *Printer) Prompt(format string, a ...any) string {
	return p.prompt.Sprintf(format, a...)
}

// PatchResult prints one patch outcome with a color matching its severity.
func (p *Printer) PatchResult(r types.PatchResult) {
	switch r.Reason {
	case types.ReasonInserted, types.ReasonRemoved:
		p.Success("%s", r.Message)
	case types.ReasonAnchorNotFound:
		p.Warning("%s", r.Message)
	default:
		p.Info("%s", r.Message)
	}
	if r.Diff != "" {
		fmt.Fprint(p.w, r.Diff)
	}
}
