package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/agentx-labs/skillkit/internal/config"
)

// Installer performs the two external operations the orchestrator needs.
type Installer interface {
	// List returns the raw listing output for source.
	List(ctx context.Context, source string) (string, error)
	// Install installs one skill from source.
	Install(ctx context.Context, source, skill string) error
}

// Commander is implemented by installers that can describe the command they
// run, for display before each step.
type Commander interface {
	ListCommand(source string) string
	InstallCommand(source, skill string) string
}

// InstallError records a failed install of one skill. It does not abort the
// remaining installs.
type InstallError struct {
	Source string
	Skill  string
	Err    error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing skill %s from %s: %v", e.Skill, e.Source, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// NPXInstaller runs `<command> <package> add ...` as a subprocess.
type NPXInstaller struct {
	Command string // e.g., "npx"
	Package string // e.g., "skills"
	Agent   string // e.g., "github-copilot"

	// Dir is the working directory for the subprocess, normally the project root.
	Dir string

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewNPXInstaller returns an installer configured from cfg that runs in dir.
func NewNPXInstaller(cfg config.InstallerConfig, dir string) *NPXInstaller {
	return &NPXInstaller{
		Command: cfg.Command,
		Package: cfg.Package,
		Agent:   cfg.Agent,
		Dir:     dir,
	}
}

// List runs the listing command and returns its stdout. Stderr is streamed
// to the configured writer.
func (n *NPXInstaller) List(ctx context.Context, source string) (string, error) {
	bin, err := n.lookPath()
	if err != nil {
		return "", err
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, n.listArgs(source)...)
	cmd.Dir = n.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = n.stderr()

	if err := cmd.Run(); err != nil {
		return stdout.String(), n.runError(err)
	}
	return stdout.String(), nil
}

// Install runs the install command with output streamed to the configured
// writers. A non-zero exit is returned as an error.
func (n *NPXInstaller) Install(ctx context.Context, source, skill string) error {
	bin, err := n.lookPath()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, bin, n.installArgs(source, skill)...)
	cmd.Dir = n.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = n.stdout()
	cmd.Stderr = n.stderr()

	if err := cmd.Run(); err != nil {
		return n.runError(err)
	}
	return nil
}

func (n *NPXInstaller) runError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s exited with code %d", n.command(), exitErr.ExitCode())
	}
	return fmt.Errorf("running %s: %w", n.command(), err)
}

// ListCommand returns the listing command line, shell-quoted for display.
func (n *NPXInstaller) ListCommand(source string) string {
	return commandLine(n.command(), n.listArgs(source))
}

// InstallCommand returns the install command line, shell-quoted for display.
func (n *NPXInstaller) InstallCommand(source, skill string) string {
	return commandLine(n.command(), n.installArgs(source, skill))
}

func (n *NPXInstaller) listArgs(source string) []string {
	return []string{n.pkg(), "add", source, "-l"}
}

func (n *NPXInstaller) installArgs(source, skill string) []string {
	return []string{n.pkg(), "add", source, "-s", skill, "-a", n.agent(), "-y"}
}

func (n *NPXInstaller) lookPath() (string, error) {
	bin, err := exec.LookPath(n.command())
	if err != nil {
		return "", fmt.Errorf("installing skills requires %s: %w", n.command(), err)
	}
	return bin, nil
}

func (n *NPXInstaller) command() string {
	if n.Command == "" {
		return config.DefaultInstallerCommand
	}
	return n.Command
}

func (n *NPXInstaller) pkg() string {
	if n.Package == "" {
		return config.DefaultInstallerPackage
	}
	return n.Package
}

func (n *NPXInstaller) agent() string {
	if n.Agent == "" {
		return config.DefaultInstallerAgent
	}
	return n.Agent
}

func (n *NPXInstaller) stdout() io.Writer {
	if n.Stdout == nil {
		return os.Stdout
	}
	return n.Stdout
}

func (n *NPXInstaller) stderr() io.Writer {
	if n.Stderr == nil {
		return os.Stderr
	}
	return n.Stderr
}

// commandLine joins name and args, quoting each word for bash.
func commandLine(name string, args []string) string {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{name}, args...) {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = w
		}
		words = append(words, q)
	}
	return strings.Join(words, " ")
}
