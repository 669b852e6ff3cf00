package location

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocationPaths(t *testing.T) {
	loc := New(NameRepo, "/tmp/proj/.agents", DefaultLayout())

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"lockfile", loc.LockfilePath(), "/tmp/proj/.agents/.skill-lock.json"},
		{"registry", loc.RegistryPath(), "/tmp/proj/.agents/skills.json"},
		{"skills dir", loc.SkillsDir(), "/tmp/proj/.agents/skills"},
		{"skill dir", loc.SkillDir("find-skills"), "/tmp/proj/.agents/skills/find-skills"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, tt.got)
		}
	}
}

func TestCustomLayout(t *testing.T) {
	loc := New(NameHome, "/h", Layout{LockfileName: "lock.json", RegistryName: "reg.json", SkillsDir: "bundles"})
	if loc.LockfilePath() != "/h/lock.json" {
		t.Errorf("unexpected lockfile path %s", loc.LockfilePath())
	}
	if loc.SkillDir("x") != "/h/bundles/x" {
		t.Errorf("unexpected skill dir %s", loc.SkillDir("x"))
	}
}

func TestRepo_Default(t *testing.T) {
	t.Setenv("SKILLKIT_REPO_AGENTS", "")
	loc := Repo("/work/project", DefaultLayout())
	if loc.Root != "/work/project/.agents" {
		t.Errorf("expected /work/project/.agents, got %s", loc.Root)
	}
	if loc.Name != NameRepo {
		t.Errorf("expected name %s, got %s", NameRepo, loc.Name)
	}
}

func TestRepo_EnvOverride(t *testing.T) {
	t.Setenv("SKILLKIT_REPO_AGENTS", "/tmp/repo-agents")
	loc := Repo("/work/project", DefaultLayout())
	if loc.Root != "/tmp/repo-agents" {
		t.Errorf("expected /tmp/repo-agents, got %s", loc.Root)
	}
}

func TestHome_Default(t *testing.T) {
	t.Setenv("SKILLKIT_HOME_AGENTS", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	loc, err := Home(DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Root != filepath.Join(home, ".agents") {
		t.Errorf("expected %s, got %s", filepath.Join(home, ".agents"), loc.Root)
	}
}

func TestHome_EnvOverride(t *testing.T) {
	t.Setenv("SKILLKIT_HOME_AGENTS", "/tmp/home-agents")
	loc, err := Home(DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Root != "/tmp/home-agents" {
		t.Errorf("expected /tmp/home-agents, got %s", loc.Root)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".agents"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}

	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("expected %s, got %s", want, gotResolved)
	}
}

func TestFindProjectRoot_StopsAtHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".agents", "skills"), 0755); err != nil {
		t.Fatal(err)
	}
	notes := filepath.Join(home, "notes")
	if err := os.MkdirAll(notes, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(notes)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if got != notes {
		t.Errorf("expected %s, got %s", notes, got)
	}

	loc, err := Home(DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	if repo := Repo(got, DefaultLayout()); repo.Root == loc.Root {
		t.Errorf("repo and home resolved to the same root %s", repo.Root)
	}
}

func TestFindProjectRoot_ProjectInsideHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".agents"), 0755); err != nil {
		t.Fatal(err)
	}
	project := filepath.Join(home, "code", "app")
	if err := os.MkdirAll(filepath.Join(project, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(project, "cmd")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if got != project {
		t.Errorf("expected %s, got %s", project, got)
	}
}
