//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/skillkit/internal/location"
)

// testEnv holds the two Locations of an isolated test run.
type testEnv struct {
	ProjectDir string
	Repo       location.Location
	Home       location.Location
}

// setupTestEnv creates a project directory and a home Location in temp
// directories and points SKILLKIT_HOME_AGENTS at the latter.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	project := t.TempDir()
	homeRoot := filepath.Join(t.TempDir(), ".agents")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKILLKIT_HOME_AGENTS", homeRoot)

	layout := location.DefaultLayout()
	home, err := location.Home(layout)
	if err != nil {
		t.Fatalf("resolving home location: %v", err)
	}

	return &testEnv{
		ProjectDir: project,
		Repo:       location.Repo(project, layout),
		Home:       home,
	}
}

// skillsCLI stands in for the external installer. Install writes the skill
// into the home Location and records it in the home lockfile, as
// `npx skills add` does.
type skillsCLI struct {
	t        *testing.T
	home     location.Location
	catalog  map[string][]string // source -> skill names
	failures map[string]bool
}

func (s *skillsCLI) List(_ context.Context, source string) (string, error) {
	names, ok := s.catalog[source]
	if !ok {
		return "", errors.New("repository not found")
	}
	var b strings.Builder
	b.WriteString("◇  Source: " + source + "\n│\n●  Available Skills\n│\n")
	for _, n := range names {
		b.WriteString("│    " + n + "\n│\n│      Description of " + n + "\n│\n")
	}
	b.WriteString("└  Use --skill <name> to install specific skills\n")
	return b.String(), nil
}

func (s *skillsCLI) Install(_ context.Context, source, skill string) error {
	if s.failures[skill] {
		return errors.New("exit status 1")
	}
	writeFile(s.t, filepath.Join(s.home.SkillDir(skill), "SKILL.md"),
		"---\nname: "+skill+"\ndescription: from "+source+"\n---\n")

	lock := map[string]any{"version": 3, "skills": map[string]any{}}
	if data, err := os.ReadFile(s.home.LockfilePath()); err == nil {
		if err := json.Unmarshal(data, &lock); err != nil {
			return err
		}
	}
	lock["skills"].(map[string]any)[skill] = map[string]any{"source": source, "sourceType": "github"}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return err
	}
	writeFile(s.t, s.home.LockfilePath(), string(data)+"\n")
	return nil
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
