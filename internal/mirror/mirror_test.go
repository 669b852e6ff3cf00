package mirror

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestReplaceCopiesTree(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src", "find-skills")
	dst := filepath.Join(tmpDir, "dst", "skills", "find-skills")

	writeFile(t, filepath.Join(src, "SKILL.md"), "---\nname: find-skills\n---\n", 0644)
	writeFile(t, filepath.Join(src, "scripts", "run.sh"), "#!/bin/sh\necho hi\n", 0755)
	writeFile(t, filepath.Join(src, "refs", "deep", "a.txt"), "hello", 0644)

	if err := Replace(src, dst, Options{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got := readFile(t, filepath.Join(dst, "refs", "deep", "a.txt")); got != "hello" {
		t.Errorf("a.txt = %q, want %q", got, "hello")
	}
	if got := readFile(t, filepath.Join(dst, "SKILL.md")); got != "---\nname: find-skills\n---\n" {
		t.Errorf("SKILL.md = %q", got)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dst, "scripts", "run.sh"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("run.sh mode = %v, want 0755", info.Mode().Perm())
		}
	}
}

func TestReplaceRemovesStaleFiles(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")

	writeFile(t, filepath.Join(src, "keep.txt"), "new", 0644)
	writeFile(t, filepath.Join(dst, "keep.txt"), "old", 0644)
	writeFile(t, filepath.Join(dst, "stale.txt"), "stale", 0644)

	if err := Replace(src, dst, Options{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got := readFile(t, filepath.Join(dst, "keep.txt")); got != "new" {
		t.Errorf("keep.txt = %q, want %q", got, "new")
	}
	if _, err := os.Stat(filepath.Join(dst, "stale.txt")); err == nil {
		t.Error("stale.txt should be removed by a full replace")
	}
}

func TestReplaceIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "hello", 0644)

	if err := Replace(src, dst, Options{}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := Replace(src, dst, Options{}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "a.txt")); got != "hello" {
		t.Errorf("a.txt = %q", got)
	}
}

func TestReplaceExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")

	writeFile(t, filepath.Join(src, "SKILL.md"), "skill", 0644)
	writeFile(t, filepath.Join(src, ".DS_Store"), "", 0644)
	writeFile(t, filepath.Join(src, "node_modules", "dep", "index.js"), "x", 0644)
	writeFile(t, filepath.Join(src, "docs", "notes.tmp"), "tmp", 0644)

	opts := Options{Exclude: []string{".DS_Store", "node_modules", "**/*.tmp"}}
	if err := Replace(src, dst, opts); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "SKILL.md")); err != nil {
		t.Error("SKILL.md should be copied")
	}
	for _, excluded := range []string{".DS_Store", "node_modules", filepath.Join("docs", "notes.tmp")} {
		if _, err := os.Stat(filepath.Join(dst, excluded)); err == nil {
			t.Errorf("%s should not be copied", excluded)
		}
	}
}

func TestReplaceInvalidPattern(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	writeFile(t, filepath.Join(src, "a.txt"), "a", 0644)

	if err := Replace(src, filepath.Join(tmpDir, "dst"), Options{Exclude: []string{"[unclosed"}}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestReplaceSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require developer mode on Windows")
	}
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")
	writeFile(t, filepath.Join(src, "real.txt"), "real", 0644)
	if err := os.Symlink("real.txt", filepath.Join(src, "link.txt")); err != nil {
		t.Fatal(err)
	}

	if err := Replace(src, dst, Options{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dst, "link.txt"))
	if err != nil {
		t.Fatalf("link.txt should be a symlink: %v", err)
	}
	if target != "real.txt" {
		t.Errorf("link target = %q, want %q", target, "real.txt")
	}
}

func TestReplaceMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	if err := Replace(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "dst"), Options{}); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestReplaceSourceIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "file.txt")
	writeFile(t, src, "x", 0644)
	if err := Replace(src, filepath.Join(tmpDir, "dst"), Options{}); err == nil {
		t.Error("expected error when source is a file")
	}
}

func TestIsDir(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f")
	writeFile(t, file, "x", 0644)

	tests := []struct {
		path string
		want bool
	}{
		{tmpDir, true},
		{file, false},
		{filepath.Join(tmpDir, "missing"), false},
	}
	for _, tt := range tests {
		got, err := IsDir(tt.path)
		if err != nil {
			t.Fatalf("IsDir(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("IsDir(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestShouldExclude(t *testing.T) {
	patterns := []string{"node_modules", ".git", "**/*.log"}
	tests := []struct {
		rel      string
		expected bool
	}{
		{"node_modules", true},
		{"sub/node_modules", true},
		{".git", true},
		{"logs/out.log", true},
		{"SKILL.md", false},
		{"src/index.mjs", false},
	}

	for _, tt := range tests {
		if got := shouldExclude(tt.rel, patterns); got != tt.expected {
			t.Errorf("shouldExclude(%q) = %v, want %v", tt.rel, got, tt.expected)
		}
	}
}
