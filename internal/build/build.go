// Package build clones and builds PyMOL and OpenVR from source.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pymol-wizard/installer/internal/conda"
	"github.com/pymol-wizard/installer/internal/layout"
	"github.com/pymol-wizard/installer/internal/runner"
)

const (
	OpenVRRepo = "git@github.com:ValveSoftware/openvr.git"
	PyMOLRepo  = "git@github.com:schrodinger/pymol-open-source.git"

	openVRDir = "openvr"
	pymolDir  = "pymol-open-source"
)

// Builder builds dependencies inside a clone directory.
type Builder struct {
	run      runner.Runner
	conda    *conda.Client
	layout   *layout.Layout
	cloneDir string
}

// New creates a Builder that keeps its checkouts in cloneDir.
func New(r runner.Runner, c *conda.Client, l *layout.Layout, cloneDir string) *Builder {
	return &Builder{run: r, conda: c, layout: l, cloneDir: cloneDir}
}

// CloneDir returns where sources are checked out.
func (b *Builder) CloneDir() string {
	return b.cloneDir
}

// clone checks out repo at version into cloneDir/name unless it is already there.
func (b *Builder) clone(ctx context.Context, repo, version, name string) (string, error) {
	dest := filepath.Join(b.cloneDir, name)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(b.cloneDir, 0o755); err != nil {
		return "", fmt.Errorf("creating clone directory: %w", err)
	}

	_, err := b.run.Run(ctx, runner.Command{
		Name:   "git",
		Args:   []string{"clone", "-b", version, repo, dest},
		Stream: true,
	})
	if err != nil {
		return "", fmt.Errorf("cloning %s: %w", repo, err)
	}
	return dest, nil
}

// ClonePyMOL checks out PyMOL at version.
func (b *Builder) ClonePyMOL(ctx context.Context, version string) (string, error) {
	return b.clone(ctx, PyMOLRepo, version, pymolDir)
}

// CloneOpenVR checks out OpenVR at version.
func (b *Builder) CloneOpenVR(ctx context.Context, version string) (string, error) {
	return b.clone(ctx, OpenVRRepo, version, openVRDir)
}

// InstallPyMOL clones PyMOL and pip installs it into env.
func (b *Builder) InstallPyMOL(ctx context.Context, env, version string, useOpenVR bool) error {
	src, err := b.ClonePyMOL(ctx, version)
	if err != nil {
		return err
	}
	return b.conda.PipInstall(ctx, env, "--config-settings", "openvr="+pythonBool(useOpenVR), src)
}

// InstallOpenVR clones, builds and installs OpenVR into env.
func (b *Builder) InstallOpenVR(ctx context.Context, env, version string) error {
	src, err := b.CloneOpenVR(ctx, version)
	if err != nil {
		return err
	}

	prefix := b.layout.Prefix(env)
	if b.layout.Windows() {
		err = b.installOpenVRWindows(ctx, env, src, prefix)
	} else {
		err = b.installOpenVRUnix(ctx, env, src)
	}
	if err != nil {
		return fmt.Errorf("building OpenVR: %w", err)
	}

	includeDir := filepath.Join(prefix, "include")
	if err := CopyFile(filepath.Join(src, "headers", "openvr.h"), filepath.Join(includeDir, "openvr.h")); err != nil {
		return fmt.Errorf("copying openvr.h: %w", err)
	}
	return nil
}

func (b *Builder) installOpenVRUnix(ctx context.Context, env, src string) error {
	steps := []struct {
		dir  string
		args []string
	}{
		{src, []string{"cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Release"}},
		{src, []string{"cmake", "--build", "build", "--config", "Release"}},
		{filepath.Join(src, "build"), []string{"sudo", "make", "install"}},
	}
	for _, step := range steps {
		if err := b.conda.Exec(ctx, env, step.dir, step.args...); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) installOpenVRWindows(ctx context.Context, env, src, prefix string) error {
	if err := b.conda.Exec(ctx, env, src,
		"cmake", "-S", ".", "-B", "build", "-DCMAKE_INSTALL_PREFIX="+prefix, "-DBUILD_SHARED=1"); err != nil {
		return err
	}
	if err := b.conda.Exec(ctx, env, src,
		"cmake", "--build", "build", "--config", "Release", "--target", "install"); err != nil {
		return err
	}

	// PyMOL links against openvr_api.lib and loads the dll from Library/bin.
	libDir := filepath.Join(prefix, "Lib")
	if err := os.Rename(filepath.Join(libDir, "openvr_api64.lib"), filepath.Join(libDir, "openvr_api.lib")); err != nil {
		return err
	}
	binDir := filepath.Join(prefix, "Library", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	return moveFile(filepath.Join(libDir, "openvr_api64.dll"), filepath.Join(binDir, "openvr_api64.dll"))
}

// pythonBool formats b the way Python prints booleans.
func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// CopyFile copies src to dst with src's permissions, creating dst's directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// moveFile renames src to dst, copying when they live on different volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
