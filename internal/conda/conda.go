// Package conda wraps the conda and pip command line tools.
package conda

import (
	"context"
	"errors"
	"fmt"

	"github.com/pymol-wizard/installer/internal/runner"
)

// ErrNoBase is returned when conda cannot report its installation root.
var ErrNoBase = errors.New("failed to retrieve conda base path")

// Client runs conda commands.
type Client struct {
	run runner.Runner
}

// New creates a Client on top of r.
func New(r runner.Runner) *Client {
	return &Client{run: r}
}

func (c *Client) conda(ctx context.Context, stream bool, args ...string) (string, error) {
	return c.run.Run(ctx, runner.Command{Name: "conda", Args: args, Stream: stream})
}

// BasePath returns the conda installation root.
func (c *Client) BasePath(ctx context.Context) (string, error) {
	out, err := c.conda(ctx, false, "info", "--base")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoBase, err)
	}
	if out == "" {
		return "", ErrNoBase
	}
	return out, nil
}

// EnvExists reports whether an environment with this name exists.
func (c *Client) EnvExists(ctx context.Context, env string) bool {
	_, err := c.conda(ctx, false, "list", "--name", env)
	return err == nil
}

// CreateEnv creates env from an environment file.
func (c *Client) CreateEnv(ctx context.Context, env, file string) error {
	if _, err := c.conda(ctx, true, "env", "create", "--name", env, "--file", file); err != nil {
		return fmt.Errorf("creating environment %s: %w", env, err)
	}
	return nil
}

// UpdateEnv brings an existing env in line with an environment file.
func (c *Client) UpdateEnv(ctx context.Context, env, file string) error {
	if _, err := c.conda(ctx, true, "env", "update", "--name", env, "--file", file); err != nil {
		return fmt.Errorf("updating environment %s: %w", env, err)
	}
	return nil
}

// RemoveEnv deletes env without confirmation.
func (c *Client) RemoveEnv(ctx context.Context, env string) error {
	if _, err := c.conda(ctx, true, "env", "remove", "--name", env, "--yes"); err != nil {
		return fmt.Errorf("removing environment %s: %w", env, err)
	}
	return nil
}

// Exec runs a command inside env with output streamed to the user.
func (c *Client) Exec(ctx context.Context, env, dir string, args ...string) error {
	cmd := runner.Command{
		Name:   "conda",
		Args:   append([]string{"run", "--no-capture-output", "--name", env}, args...),
		Dir:    dir,
		Stream: true,
	}
	_, err := c.run.Run(ctx, cmd)
	return err
}

// HasModule reports whether python in env can import module.
func (c *Client) HasModule(ctx context.Context, env, module string) bool {
	_, err := c.conda(ctx, false, "run", "--name", env, "python", "-c", "import "+module)
	return err == nil
}

// PipInstall runs pip install inside env.
func (c *Client) PipInstall(ctx context.Context, env string, args ...string) error {
	if err := c.Exec(ctx, env, "", append([]string{"pip", "install"}, args...)...); err != nil {
		return fmt.Errorf("pip install in %s: %w", env, err)
	}
	return nil
}

// PipUninstall removes a package from env.
func (c *Client) PipUninstall(ctx context.Context, env, pkg string) error {
	if err := c.Exec(ctx, env, "", "pip", "uninstall", "-y", pkg); err != nil {
		return fmt.Errorf("pip uninstall %s in %s: %w", pkg, env, err)
	}
	return nil
}

// RunScript runs a Python script inside env with the given arguments.
func (c *Client) RunScript(ctx context.Context, env, script string, args ...string) error {
	if err := c.Exec(ctx, env, "", append([]string{"python", script}, args...)...); err != nil {
		return fmt.Errorf("running %s: %w", script, err)
	}
	return nil
}
