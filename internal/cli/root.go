package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/config"
	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/registry"
	"github.com/agentx-labs/skillkit/internal/syncer"
	"github.com/agentx-labs/skillkit/internal/ui"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectFlag string
	verboseFlag bool
)

// newInstaller builds the Installer used by add-skill and install-skills.
// Tests replace it with a fake.
var newInstaller = func(cfg config.InstallerConfig, dir string, stdout, stderr io.Writer) installer.Installer {
	n := installer.NewNPXInstaller(cfg, dir)
	n.Stdout = stdout
	n.Stderr = stderr
	return n
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps agent skills in sync between a project's ` + branding.HomeDir() + ` directory
and the one in your home directory, and records which skills a project installs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project directory (default: nearest parent with "+branding.HomeDir()+", .git, package.json or go.mod)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print debug logs to stderr")
}

// Execute runs the root command with build info injected via ldflags. Errors
// are printed to stderr along with any remediation hint.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err and, for known error types, a hint on how to fix it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "\n%s %s\n", ui.Cross(), ui.Error("Error: "+err.Error()))

	var missing *syncer.MissingSourceError
	var same *syncer.SameLocationError
	var lockErr *lockfile.ParseError
	var regErr *registry.ParseError
	switch {
	case errors.As(err, &missing):
		if missing.Hint != "" {
			fmt.Fprintln(w, missing.Hint)
		}
	case errors.As(err, &same):
		fmt.Fprintln(w, "Run from inside a project directory, or pass --project.")
	case errors.As(err, &lockErr):
		fmt.Fprintf(w, "Fix or remove %s and try again.\n", lockErr.Path)
	case errors.As(err, &regErr):
		fmt.Fprintf(w, "Fix %s, or remove it and re-add skills with %q.\n", regErr.Path, branding.CLIName()+" add-skill")
	}
}

// session holds what every command needs: the resolved configuration, the
// project root, both Locations, and a logger.
type session struct {
	cfg         *config.Config
	projectRoot string
	repo        location.Location
	home        location.Location
	log         *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	root, err := resolveProjectRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	layout := location.LayoutFromConfig(cfg)
	home, err := location.Home(layout)
	if err != nil {
		return nil, err
	}
	repo := location.Repo(root, layout)

	log := logging.New(cmd.ErrOrStderr(), verboseFlag)
	log.Debug("session",
		zap.String("project", root),
		zap.String("repo", repo.Root),
		zap.String("home", home.Root))

	return &session{
		cfg:         cfg,
		projectRoot: root,
		repo:        repo,
		home:        home,
		log:         log,
	}, nil
}

// resolveProjectRoot returns --project as an absolute path, or the nearest
// project root above the working directory.
func resolveProjectRoot() (string, error) {
	if projectFlag != "" {
		abs, err := filepath.Abs(projectFlag)
		if err != nil {
			return "", fmt.Errorf("resolving project directory %s: %w", projectFlag, err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	root, err := location.FindProjectRoot(wd)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	return root, nil
}
