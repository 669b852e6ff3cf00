// Package mirror replaces a skill's content directory at a destination with a
// recursive copy of the source directory. Replacement is always a full
// remove-then-copy; there is no incremental diff. Symlinks inside a skill are
// recreated rather than followed.
package mirror
