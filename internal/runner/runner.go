// Package runner executes external tools such as conda, git and cmake.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string // working directory; empty means the current one
	// Stream mirrors output to the user while it is captured. Used for
	// long builds and anything that may ask for input (sudo).
	Stream bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs commands and returns their trimmed stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// CommandError contains raw output from a failed command.
type CommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error // underlying error, usually *exec.ExitError
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s %s: %s", e.Command, strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("%s %s: %v", e.Command, strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Exec runs commands with os/exec.
type Exec struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates an Exec runner. The streams are only used for Stream commands.
func New(stdin io.Reader, stdout, stderr io.Writer) *Exec {
	return &Exec{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run executes cmd and returns its stdout with surrounding whitespace removed.
func (r *Exec) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stream {
		if r.stdout != nil {
			cmd.Stdout = io.MultiWriter(&stdout, r.stdout)
		}
		if r.stderr != nil {
			cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
		}
		cmd.Stdin = r.stdin
	}

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Command: c.Name,
			Args:    c.Args,
			Stdout:  strings.TrimSpace(stdout.String()),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}
