package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
)

func TestExec_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("captures stdout", func(t *testing.T) {
		out, err := New(nil, nil, nil).Run(context.Background(), Command{
			Name: "sh",
			Args: []string{"-c", "echo '  hello  '"},
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if out != "hello" {
			t.Errorf("Run() = %q, want %q", out, "hello")
		}
	})

	t.Run("streams when asked", func(t *testing.T) {
		var mirror bytes.Buffer
		out, err := New(nil, &mirror, nil).Run(context.Background(), Command{
			Name:   "sh",
			Args:   []string{"-c", "echo streamed"},
			Stream: true,
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if out != "streamed" {
			t.Errorf("Run() = %q, want %q", out, "streamed")
		}
		if mirror.String() != "streamed\n" {
			t.Errorf("mirrored = %q, want %q", mirror.String(), "streamed\n")
		}
	})

	t.Run("runs in dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := New(nil, nil, nil).Run(context.Background(), Command{Name: "pwd", Dir: dir})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if out == "" {
			t.Error("Run() returned empty working directory")
		}
	})

	t.Run("failure carries output", func(t *testing.T) {
		_, err := New(nil, nil, nil).Run(context.Background(), Command{
			Name: "sh",
			Args: []string{"-c", "echo out; echo broken >&2; exit 3"},
		})

		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			t.Fatalf("Run() error = %v, want *CommandError", err)
		}
		if cmdErr.Stdout != "out" || cmdErr.Stderr != "broken" {
			t.Errorf("output = (%q, %q), want (out, broken)", cmdErr.Stdout, cmdErr.Stderr)
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
			t.Errorf("exit error = %v, want exit code 3", err)
		}
	})
}
