// Package lockfile loads and saves the versioned skill manifest
// (.skill-lock.json) of a Location. Skill metadata is opaque: it is carried
// through Load and Save unchanged apart from indentation. Unknown top-level
// keys are preserved as well.
package lockfile
