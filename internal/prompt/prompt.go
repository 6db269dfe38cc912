// Package prompt asks the user questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pymol-wizard/installer/internal/ui"
)

// ErrAborted is returned when the user ends input or picks abort.
var ErrAborted = errors.New("aborted by user")

// Prompter reads answers from a line-oriented input.
type Prompter struct {
	in          *bufio.Reader
	out         *ui.Printer
	interactive bool
}

// New creates a Prompter. When in is not a terminal every question is
// answered with its default, so the installer can run unattended.
func New(in io.Reader, out *ui.Printer) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: ui.IsTerminal(in),
	}
}

// NewInteractive creates a Prompter that always reads from in.
func NewInteractive(in io.Reader, out *ui.Printer) *Prompter {
	p := New(in, out)
	p.interactive = true
	return p
}

// Interactive reports whether questions are actually asked.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Ask prints question and returns the trimmed answer, or def when the answer is empty.
func (p *Prompter) Ask(question, def string) (string, error) {
	fmt.Fprint(p.out.Writer(), p.out.Prompt("%s ", question))
	if !p.interactive {
		fmt.Fprintln(p.out.Writer(), def)
		return def, nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. The suffix shows the default in capitals.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	suffix, def := "(y/N)", "n"
	if defaultYes {
		suffix, def = "(Y/n)", "y"
	}

	for {
		answer, err := p.Ask(question+" "+suffix, def)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.out.Warning("Please answer 'y' or 'n'.")
	}
}

// Choose asks until the answer is one of options (case-insensitive).
func (p *Prompter) Choose(question string, options []string, def string) (string, error) {
	for {
		answer, err := p.Ask(question, def)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		if slices.Contains(options, answer) {
			return answer, nil
		}
		p.out.Warning("Invalid input. Please enter one of: %s.", strings.Join(options, ", "))
	}
}
