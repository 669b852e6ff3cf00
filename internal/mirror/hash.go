package mirror

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// HashDir returns a content digest of the tree at root: relative paths,
// symlink targets, and file bytes, walked in lexical order. Entries matching
// opts.Exclude are skipped so a source and its mirror hash the same.
func HashDir(root string, opts Options) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if shouldExclude(rel, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(h, "L %s -> %s\n", rel, target)
		case d.IsDir():
			fmt.Fprintf(h, "D %s\n", rel)
		case d.Type().IsRegular():
			fmt.Fprintf(h, "F %s\n", rel)
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(h, f)
			f.Close()
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", root, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
