package location

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/config"
)

// Location names.
const (
	NameRepo = "repo"
	NameHome = "home"
)

// projectMarkers identify a project root when walking up from a directory.
var projectMarkers = []string{".agents", ".git", "package.json", "go.mod"}

// Layout holds the file and directory names inside a Location.
type Layout struct {
	LockfileName string
	RegistryName string
	SkillsDir    string
}

// LayoutFromConfig builds a Layout from the resolved configuration.
func LayoutFromConfig(cfg *config.Config) Layout {
	return Layout{
		LockfileName: cfg.LockfileName,
		RegistryName: cfg.RegistryName,
		SkillsDir:    cfg.SkillsDir,
	}
}

// DefaultLayout returns the layout used by the skills CLI.
func DefaultLayout() Layout {
	return LayoutFromConfig(config.Default())
}

// Location is a root directory holding a lockfile, a registry, and skill
// directories.
type Location struct {
	Name   string
	Root   string
	Layout Layout
}

// New returns a Location rooted at root.
func New(name, root string, layout Layout) Location {
	return Location{Name: name, Root: root, Layout: layout}
}

// LockfilePath returns <root>/.skill-lock.json.
func (l Location) LockfilePath() string {
	return filepath.Join(l.Root, l.Layout.LockfileName)
}

// RegistryPath returns <root>/skills.json.
func (l Location) RegistryPath() string {
	return filepath.Join(l.Root, l.Layout.RegistryName)
}

// SkillsDir returns <root>/skills.
func (l Location) SkillsDir() string {
	return filepath.Join(l.Root, l.Layout.SkillsDir)
}

// SkillDir returns <root>/skills/<name>.
func (l Location) SkillDir(name string) string {
	return filepath.Join(l.SkillsDir(), name)
}

// String returns "<name> (<root>)".
func (l Location) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Root)
}

// Repo returns the project-local Location for projectRoot.
// SKILLKIT_REPO_AGENTS overrides the root directory.
func Repo(projectRoot string, layout Layout) Location {
	if v := os.Getenv(branding.EnvVar("REPO_AGENTS")); v != "" {
		return New(NameRepo, v, layout)
	}
	return New(NameRepo, filepath.Join(projectRoot, branding.HomeDir()), layout)
}

// Home returns the user-global Location (~/.agents).
// SKILLKIT_HOME_AGENTS overrides the root directory.
func Home(layout Layout) (Location, error) {
	if v := os.Getenv(branding.EnvVar("HOME_AGENTS")); v != "" {
		return New(NameHome, v, layout), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Location{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return New(NameHome, filepath.Join(home, branding.HomeDir()), layout), nil
}

// FindProjectRoot walks up from start to the first directory containing a
// project marker (.agents, .git, package.json, go.mod). The search stops below
// the user's home directory, whose .agents is the home Location rather than a
// project. If no marker is found, start itself is returned.
func FindProjectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	home := ""
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		home = filepath.Clean(h)
	}

	dir := abs
	for {
		if dir == home {
			return abs, nil
		}
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("checking %s: %w", filepath.Join(dir, marker), err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
