package syncer

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/location"
)

// Direction identifies which way a sync runs.
type Direction int

const (
	// ToHome copies the repo Location into the home Location.
	ToHome Direction = iota
	// FromHome copies the home Location into the repo Location.
	FromHome
)

// String returns "repo → home" or "home → repo".
func (d Direction) String() string {
	switch d {
	case ToHome:
		return "repo → home"
	case FromHome:
		return "home → repo"
	default:
		return "unknown"
	}
}

// Hint returns the remediation printed when the source lockfile is missing.
func (d Direction) Hint() string {
	switch d {
	case ToHome:
		return fmt.Sprintf("Run %q first to sync from the home directory.", branding.CLIName()+" sync")
	case FromHome:
		return fmt.Sprintf("Run %q (or install a skill) first to create the home lockfile.", branding.CLIName()+" sync-to-home")
	default:
		return ""
	}
}

// MissingSourceError reports that the source Location has no lockfile.
type MissingSourceError struct {
	Path string
	Hint string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source lockfile not found at %s", e.Path)
}

// SameLocationError reports a sync whose source and destination resolve to
// the same directory. Replacing a skill directory with itself would delete it.
type SameLocationError struct {
	Source string
	Dest   string
}

func (e *SameLocationError) Error() string {
	if e.Source == e.Dest {
		return fmt.Sprintf("source and destination are the same directory: %s", e.Source)
	}
	return fmt.Sprintf("source %s and destination %s are the same directory", e.Source, e.Dest)
}

// SkillError records a per-skill failure during sync. It does not abort the
// rest of the sync.
type SkillError struct {
	Skill string
	Err   error
}

func (e *SkillError) Error() string {
	return fmt.Sprintf("syncing skill %s: %v", e.Skill, e.Err)
}

func (e *SkillError) Unwrap() error { return e.Err }

// Status is the per-skill outcome of a sync.
type Status string

const (
	StatusSynced  Status = "synced"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Event is passed to a Reconciler's Progress callback after each skill.
type Event struct {
	Skill  string
	Status Status
	Err    error
}

// Result summarizes a completed sync.
type Result struct {
	Direction Direction
	Source    location.Location
	Dest      location.Location

	Version        string
	VersionWarning string
	Total          int
	// PreviousCount is the skill count of the destination lockfile before it
	// was overwritten, or -1 if there was none.
	PreviousCount int

	Synced  []string
	Skipped []string
	Failed  []*SkillError
}

// SyncedCount returns the number of skill directories copied.
func (r *Result) SyncedCount() int { return len(r.Synced) }

// SkippedCount returns the number of skills whose source directory was absent.
func (r *Result) SkippedCount() int { return len(r.Skipped) }

// FailedCount returns the number of skills that could not be copied.
func (r *Result) FailedCount() int { return len(r.Failed) }
