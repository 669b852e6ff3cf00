//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/mirror"
	"github.com/agentx-labs/skillkit/internal/registry"
	"github.com/agentx-labs/skillkit/internal/syncer"
)

// TestFullFlowAddSyncRestore tests the complete flow:
// add skills -> sync home into the repo -> restore a fresh home from the repo
// -> replay the registry.
func TestFullFlowAddSyncRestore(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	cli := &skillsCLI{
		t:        t,
		home:     env.Home,
		catalog:  map[string][]string{"vercel-labs/skills": {"find-skills", "broken", "skill-creator"}},
		failures: map[string]bool{"broken": true},
	}

	// Step 1: add every skill the source offers.
	o := &installer.Orchestrator{
		Installer:    cli,
		RegistryPath: env.Repo.RegistryPath(),
		Logger:       zap.NewNop(),
	}
	result, err := o.Install(ctx, "vercel-labs/skills", "")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if result.InstalledCount() != 2 || result.FailedCount() != 1 {
		t.Fatalf("Installed=%d Failed=%d, want 2 and 1", result.InstalledCount(), result.FailedCount())
	}
	assertFileExists(t, env.Repo.RegistryPath())
	assertFileContains(t, env.Repo.RegistryPath(), `"skill": "find-skills"`)

	// Step 2: bring the home skills into the repository.
	r := &syncer.Reconciler{Logger: zap.NewNop()}
	res, err := r.Sync(ctx, syncer.FromHome, env.Home, env.Repo)
	if err != nil {
		t.Fatalf("Sync home -> repo: %v", err)
	}
	if res.SyncedCount() != 2 || res.SkippedCount() != 0 {
		t.Errorf("Synced=%d Skipped=%d, want 2 and 0", res.SyncedCount(), res.SkippedCount())
	}
	assertDirExists(t, env.Repo.SkillDir("find-skills"))
	assertDirExists(t, env.Repo.SkillDir("skill-creator"))
	assertFileNotExists(t, env.Repo.SkillDir("broken"))
	assertSameLockfile(t, env.Home.LockfilePath(), env.Repo.LockfilePath())

	// Step 3: restore a fresh home from the repository.
	fresh := location.New(location.NameHome, filepath.Join(t.TempDir(), ".agents"), env.Repo.Layout)
	if _, err := r.Sync(ctx, syncer.ToHome, env.Repo, fresh); err != nil {
		t.Fatalf("Sync repo -> fresh home: %v", err)
	}
	assertFileContains(t, filepath.Join(fresh.SkillDir("find-skills"), "SKILL.md"), "from vercel-labs/skills")
	assertSameLockfile(t, env.Repo.LockfilePath(), fresh.LockfilePath())

	report, err := syncer.Compare(env.Repo, fresh, mirror.Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !report.LockfilesMatch || len(report.Pending()) != 0 {
		t.Errorf("fresh home should match the repo: %+v", report)
	}

	// Step 4: replay the registry without rewriting it.
	before, err := os.ReadFile(env.Repo.RegistryPath())
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Read(env.Repo.RegistryPath())
	if err != nil {
		t.Fatalf("Read registry: %v", err)
	}
	replay, err := o.InstallAll(ctx, reg)
	if err != nil {
		t.Fatalf("InstallAll: %v", err)
	}
	if replay.InstalledCount() != 2 {
		t.Errorf("replayed %d installs, want 2", replay.InstalledCount())
	}
	after, _ := os.ReadFile(env.Repo.RegistryPath())
	if !bytes.Equal(before, after) {
		t.Error("InstallAll must not rewrite the registry")
	}
}

// TestSyncDoesNotPrune verifies that directories not named by the source
// lockfile survive a sync.
func TestSyncDoesNotPrune(t *testing.T) {
	env := setupTestEnv(t)

	writeFile(t, env.Repo.LockfilePath(), `{"version":"1","skills":{"kept":{}}}`+"\n")
	writeFile(t, filepath.Join(env.Repo.SkillDir("kept"), "SKILL.md"), "# kept")
	writeFile(t, filepath.Join(env.Home.SkillDir("local-only"), "SKILL.md"), "# local")

	r := &syncer.Reconciler{}
	if _, err := r.Sync(context.Background(), syncer.ToHome, env.Repo, env.Home); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	assertFileExists(t, filepath.Join(env.Home.SkillDir("kept"), "SKILL.md"))
	assertFileExists(t, filepath.Join(env.Home.SkillDir("local-only"), "SKILL.md"))
}

func assertSameLockfile(t *testing.T, a, b string) {
	t.Helper()
	la, err := lockfile.Load(a)
	if err != nil {
		t.Fatalf("loading %s: %v", a, err)
	}
	lb, err := lockfile.Load(b)
	if err != nil {
		t.Fatalf("loading %s: %v", b, err)
	}
	da, _ := lockfile.Marshal(la)
	db, _ := lockfile.Marshal(lb)
	if !bytes.Equal(da, db) {
		t.Errorf("lockfiles differ:\n%s\n%s", da, db)
	}
}
