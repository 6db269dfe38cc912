// Package installer installs and uninstalls PyMOL wizards in conda environments.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pymol-wizard/installer/internal/build"
	"github.com/pymol-wizard/installer/internal/conda"
	"github.com/pymol-wizard/installer/internal/layout"
	"github.com/pymol-wizard/installer/internal/metadata"
	"github.com/pymol-wizard/installer/internal/patch"
	"github.com/pymol-wizard/installer/internal/prompt"
	"github.com/pymol-wizard/installer/internal/runner"
	"github.com/pymol-wizard/installer/internal/types"
	"github.com/pymol-wizard/installer/internal/ui"
)

var (
	// ErrAborted is returned when the user declines to continue.
	ErrAborted = prompt.ErrAborted
	// ErrNoCondaEnv is returned when no conda environment is active.
	ErrNoCondaEnv = errors.New("could not detect conda environment, is conda installed?")
	// ErrActiveEnv is returned when asked to overwrite the active environment.
	ErrActiveEnv = errors.New("cannot overwrite an active environment, please deactivate it before retrying")
)

// cloneDirName is where sources are checked out, relative to the wizard root.
const cloneDirName = "tmp"

// Config holds the options of one install or uninstall run.
type Config struct {
	WizardRoot string
	EnvName    string // requested environment; empty means current (install) or recorded (uninstall)
	CurrentEnv string // value of CONDA_DEFAULT_ENV
	Fast       bool   // only pip install and copy the wizard
	GOOS       string

	// SkipMissingMenus skips a menu whose file is absent instead of failing.
	SkipMissingMenus bool
}

// Installer runs install and uninstall flows.
type Installer struct {
	cfg    Config
	run    runner.Runner
	conda  *conda.Client
	prompt *prompt.Prompter
	out    *ui.Printer
	meta   *metadata.Handler
	engine *patch.Engine
}

// New creates an Installer.
func New(cfg Config, r runner.Runner, p *prompt.Prompter, out *ui.Printer) *Installer {
	return &Installer{
		cfg:    cfg,
		run:    r,
		conda:  conda.New(r),
		prompt: p,
		out:    out,
		meta:   metadata.New(),
		engine: patch.New(false),
	}
}

// session is the state resolved at the start of a run.
type session struct {
	root   string
	meta   types.Metadata
	layout *layout.Layout
}

func (i *Installer) start(ctx context.Context) (*session, error) {
	root, err := filepath.Abs(i.cfg.WizardRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving wizard root: %w", err)
	}

	meta, err := i.meta.Load(root)
	if err != nil {
		return nil, err
	}
	for _, w := range i.meta.Validate(meta).Warnings {
		i.out.Warning("%s", w)
	}

	base, err := i.conda.BasePath(ctx)
	if err != nil {
		return nil, err
	}

	return &session{root: root, meta: meta, layout: layout.New(i.cfg.GOOS, base)}, nil
}

// Install runs the fast or full installation.
func (i *Installer) Install(ctx context.Context) error {
	if i.cfg.CurrentEnv == "" {
		return ErrNoCondaEnv
	}

	s, err := i.start(ctx)
	if err != nil {
		return err
	}
	i.out.Header("Installing the %s wizard", s.meta.Name)

	env := i.cfg.EnvName
	if env != "" {
		i.out.Info("Using provided environment name: %s.", env)
	} else {
		env = i.cfg.CurrentEnv
		i.out.Info("Using current environment: %s.", env)
	}

	if i.cfg.Fast {
		if err := i.fastInstall(ctx, s, env); err != nil {
			return err
		}
	} else {
		env, err = i.chooseEnv(ctx, s, env)
		if err != nil {
			return err
		}
		if err := i.fullInstall(ctx, s, env); err != nil {
			return err
		}
	}

	pymolDir := s.layout.PyMOLDir(s.layout.Prefix(env), s.meta.PythonVersion)
	if err := saveRecord(s.root, Record{EnvName: env, WizardDir: s.layout.WizardDir(pymolDir)}); err != nil {
		return err
	}

	i.out.Info("Remember to activate the %s conda environment before running PyMOL.", env)
	return nil
}

func (i *Installer) chooseEnv(ctx context.Context, s *session, env string) (string, error) {
	if env != i.cfg.CurrentEnv {
		return env, i.createEnv(ctx, s, env, "u")
	}

	create, err := i.prompt.Confirm(fmt.Sprintf(
		"You are currently about to install the %s wizard in the %s environment. Do you wish to create a new conda environment instead?",
		s.meta.Name, env), true)
	if err != nil {
		return "", err
	}
	if !create {
		i.out.Info("Using existing environment %s.", env)
		return env, nil
	}

	env, err = i.prompt.Ask(fmt.Sprintf("Please enter the name of the new environment (%s):", s.meta.DefaultEnv), s.meta.DefaultEnv)
	if err != nil {
		return "", err
	}
	return env, i.createEnv(ctx, s, env, "")
}

// createEnv creates env, or handles an existing one according to answer
// (o: overwrite, u: use, a: abort). An empty answer asks the user.
func (i *Installer) createEnv(ctx context.Context, s *session, env, answer string) error {
	envFile, err := s.layout.EnvFile(s.root)
	if err != nil {
		return err
	}

	if !i.conda.EnvExists(ctx, env) {
		i.out.Info("Creating new environment %s.", env)
		return i.conda.CreateEnv(ctx, env, envFile)
	}

	if answer == "" {
		answer, err = i.prompt.Choose(fmt.Sprintf(
			"Environment %s already exists. Do you wish to overwrite it, use it or abort? (o/u/A)", env),
			[]string{"o", "u", "a"}, "a")
		if err != nil {
			return err
		}
	}

	switch answer {
	case "o":
		i.out.Info("Overwriting existing environment %s.", env)
		if env == i.cfg.CurrentEnv {
			return ErrActiveEnv
		}
		if err := i.conda.RemoveEnv(ctx, env); err != nil {
			return err
		}
		return i.conda.CreateEnv(ctx, env, envFile)
	case "u":
		i.out.Info("Using existing environment %s.", env)
		return i.conda.UpdateEnv(ctx, env, envFile)
	default:
		return ErrAborted
	}
}

func (i *Installer) fastInstall(ctx context.Context, s *session, env string) error {
	i.out.Info("Quick installation mode enabled.")
	if err := i.installPackage(ctx, s, env); err != nil {
		return err
	}
	pymolDir := s.layout.PyMOLDir(s.layout.Prefix(env), s.meta.PythonVersion)
	return i.copyWizard(s, pymolDir)
}

func (i *Installer) fullInstall(ctx context.Context, s *session, env string) error {
	pymolDir := s.layout.PyMOLDir(s.layout.Prefix(env), s.meta.PythonVersion)

	if err := i.ensurePyMOL(ctx, s, env); err != nil {
		return err
	}

	if s.meta.PreScript != "" {
		i.out.Info("Running pre-installation script for the %s wizard...", s.meta.Name)
		if err := i.runAuxScript(ctx, s, env, s.meta.PreScript); err != nil {
			return err
		}
	}

	if err := i.installPackage(ctx, s, env); err != nil {
		return err
	}
	if err := i.copyWizard(s, pymolDir); err != nil {
		return err
	}
	if err := i.registerMenus(s, pymolDir); err != nil {
		return err
	}

	i.out.Success("The %s wizard has been successfully installed.", s.meta.Name)

	if s.meta.PostScript != "" {
		i.out.Info("Running post-installation script for the %s wizard...", s.meta.Name)
		if err := i.runAuxScript(ctx, s, env, s.meta.PostScript); err != nil {
			return err
		}
	}

	return i.cleanup(s)
}

func (i *Installer) ensurePyMOL(ctx context.Context, s *session, env string) error {
	if i.conda.HasModule(ctx, env, "pymol") {
		i.out.Info("PyMOL is already installed, skipping...")
		return nil
	}

	install, err := i.prompt.Confirm(fmt.Sprintf(
		"PyMOL is not installed in the %s environment. Do you wish to install it?", env), true)
	if err != nil || !install {
		return err
	}

	useOpenVR, err := i.prompt.Confirm("Do you wish to enable OpenVR support?", true)
	if err != nil {
		return err
	}

	b := build.New(i.run, i.conda, s.layout, filepath.Join(s.root, cloneDirName))
	if useOpenVR {
		if err := b.InstallOpenVR(ctx, env, s.meta.OpenVRVersion); err != nil {
			return err
		}
	}
	return b.InstallPyMOL(ctx, env, s.meta.PyMOLVersion, useOpenVR)
}

func (i *Installer) runAuxScript(ctx context.Context, s *session, env, script string) error {
	path, err := layout.ResolveWithin(s.root, script)
	if err != nil {
		return err
	}
	if err := i.conda.RunScript(ctx, env, path, s.root, env); err != nil {
		return fmt.Errorf("failed to run auxiliary installation script: %w", err)
	}
	return nil
}

func (i *Installer) installPackage(ctx context.Context, s *session, env string) error {
	i.out.Info("Installing package in the %s environment...", env)
	if err := i.conda.PipInstall(ctx, env, s.root); err != nil {
		return fmt.Errorf("failed to install package: %w", err)
	}
	return nil
}

func (i *Installer) copyWizard(s *session, pymolDir string) error {
	wizardDir := s.layout.WizardDir(pymolDir)
	file := s.meta.Name + ".py"

	i.out.Info("Copying the %s wizard to %s...", s.meta.Name, wizardDir)
	if err := build.CopyFile(filepath.Join(s.root, file), filepath.Join(wizardDir, file)); err != nil {
		return fmt.Errorf("failed to copy files: %w", err)
	}
	return nil
}

// menus returns the menus a wizard is listed in. Absent menu files are
// left to fail in the patch engine unless SkipMissingMenus is set.
func (i *Installer) menus(meta types.Metadata, pymolDir string) []patch.Menu {
	wanted := []patch.Menu{patch.ExternalMenu}
	if meta.WantsVR() {
		wanted = patch.Menus
	}
	if !i.cfg.SkipMissingMenus {
		return wanted
	}

	var found []patch.Menu
	for _, m := range wanted {
		if !m.HasMenu(pymolDir) {
			i.out.Warning("No %s menu in %s, skipping.", m, pymolDir)
			continue
		}
		found = append(found, m)
	}
	return found
}

func (i *Installer) registerMenus(s *session, pymolDir string) error {
	for _, m := range i.menus(s.meta, pymolDir) {
		i.out.Info("Adding %s entry...", m)
		results, err := i.engine.AddEntries(pymolDir, s.meta.MenuEntry, s.meta.Name, m)
		if err != nil {
			return err
		}
		for _, r := range results {
			i.out.PatchResult(r)
		}
	}
	return nil
}

func (i *Installer) cleanup(s *session) error {
	dir := filepath.Join(s.root, cloneDirName)
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	remove, err := i.prompt.Confirm("Do you wish to clear the installation files?", false)
	if err != nil {
		return err
	}
	if !remove {
		i.out.Info("Installation files are kept in %s, if you want to manually delete them.", dir)
		return nil
	}

	if err := removeTree(dir); err != nil {
		return fmt.Errorf("removing installation files: %w", err)
	}
	i.out.Success("Files removed.")
	return nil
}

// removeTree deletes dir, clearing read-only bits (git packs on Windows) if needed.
func removeTree(dir string) error {
	if err := os.RemoveAll(dir); err == nil {
		return nil
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		mode := os.FileMode(0o600)
		if d.IsDir() {
			mode = 0o700
		}
		_ = os.Chmod(path, mode)
		return nil
	})
	return os.RemoveAll(dir)
}
