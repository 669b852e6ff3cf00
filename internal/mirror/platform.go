package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// chmod sets permission bits. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// createSymlink creates link pointing to target. On Windows without
// developer mode, os.Symlink fails; the target is then copied in place of
// the link when it resolves to a regular file.
func createSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(link), target)
	}
	info, statErr := os.Stat(resolved)
	if statErr != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("creating symlink %s -> %s: %w", link, target, err)
	}
	return copyFile(resolved, link)
}
