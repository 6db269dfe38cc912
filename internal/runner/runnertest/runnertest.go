// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/pymol-wizard/installer/internal/runner"
)

// Response is what Recorder answers for commands matching a prefix.
type Response struct {
	Output string
	Err    error
}

// Recorder records every command and replies from a table keyed by command prefix.
type Recorder struct {
	mu        sync.Mutex
	responses map[string]Response
	Commands  []runner.Command
}

// New creates an empty Recorder; unknown commands succeed with no output.
func New() *Recorder {
	return &Recorder{responses: make(map[string]Response)}
}

// On sets the response for commands whose String() starts with prefix.
// The longest matching prefix wins.
func (r *Recorder) On(prefix string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[prefix] = resp
	return r
}

// Run implements runner.Runner.
func (r *Recorder) Run(_ context.Context, cmd runner.Command) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, cmd)

	line := cmd.String()
	best := -1
	var resp Response
	for prefix, candidate := range r.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > best {
			best = len(prefix)
			resp = candidate
		}
	}
	return resp.Output, resp.Err
}

// Lines returns the recorded commands as strings.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether a command starting with prefix was run.
func (r *Recorder) Ran(prefix string) bool {
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
