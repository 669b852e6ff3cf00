package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/mirror"
	"go.uber.org/zap"
)

// Reconciler runs one-directional syncs between Locations.
type Reconciler struct {
	Mirror mirror.Options
	Logger *zap.Logger
	// Progress, if set, is called after each skill is processed.
	Progress func(Event)
}

// Sync copies the source lockfile to dest and replaces every skill directory
// it names. Missing source lockfiles return *MissingSourceError and
// unparsable ones *lockfile.ParseError; both are fatal, as is
// *SameLocationError when src and dst resolve to one directory. Per-skill copy
// failures are collected in Result.Failed and do not stop the loop.
func (r *Reconciler) Sync(ctx context.Context, dir Direction, src, dst location.Location) (*Result, error) {
	log := logging.OrNop(r.Logger).With(zap.String("direction", dir.String()))

	if err := checkDistinct(src, dst); err != nil {
		return nil, err
	}

	lf, err := lockfile.Load(src.LockfilePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSourceError{Path: src.LockfilePath(), Hint: dir.Hint()}
		}
		return nil, err
	}

	result := &Result{
		Direction:      dir,
		Source:         src,
		Dest:           dst,
		Version:        lf.Version,
		VersionWarning: lockfile.CheckVersion(lf.Version),
		Total:          lf.Count(),
		PreviousCount:  previousCount(dst, log),
	}

	// The destination lockfile is replaced, never merged.
	if err := lockfile.Save(dst.LockfilePath(), lf); err != nil {
		return nil, err
	}
	log.Debug("lockfile written", zap.String("path", dst.LockfilePath()), zap.Int("skills", lf.Count()))

	for _, name := range lf.SkillNames() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		status, err := r.syncSkill(name, src, dst)
		switch status {
		case StatusSynced:
			result.Synced = append(result.Synced, name)
			log.Debug("skill synced", zap.String("skill", name))
		case StatusSkipped:
			result.Skipped = append(result.Skipped, name)
			log.Debug("skill skipped, no source directory", zap.String("skill", name))
		case StatusFailed:
			skillErr := &SkillError{Skill: name, Err: err}
			result.Failed = append(result.Failed, skillErr)
			log.Warn("skill sync failed", zap.String("skill", name), zap.Error(err))
		}

		if r.Progress != nil {
			r.Progress(Event{Skill: name, Status: status, Err: err})
		}
	}

	return result, nil
}

// syncSkill replaces one skill directory at dst with the copy from src.
func (r *Reconciler) syncSkill(name string, src, dst location.Location) (Status, error) {
	if err := ValidateSkillName(name); err != nil {
		return StatusFailed, err
	}

	srcDir := src.SkillDir(name)
	ok, err := mirror.IsDir(srcDir)
	if err != nil {
		return StatusFailed, fmt.Errorf("checking %s: %w", srcDir, err)
	}
	if !ok {
		return StatusSkipped, nil
	}

	if err := mirror.Replace(srcDir, dst.SkillDir(name), r.Mirror); err != nil {
		return StatusFailed, err
	}
	return StatusSynced, nil
}

// checkDistinct returns *SameLocationError if src and dst share a root.
func checkDistinct(src, dst location.Location) error {
	a, err := filepath.Abs(src.Root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", src.Root, err)
	}
	b, err := filepath.Abs(dst.Root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dst.Root, err)
	}
	if a == b {
		return &SameLocationError{Source: a, Dest: b}
	}

	sa, errA := os.Stat(a)
	sb, errB := os.Stat(b)
	if errA == nil && errB == nil && os.SameFile(sa, sb) {
		return &SameLocationError{Source: a, Dest: b}
	}
	return nil
}

// previousCount reads the destination lockfile only to report how many
// skills it held. An unreadable destination lockfile is treated as absent.
func previousCount(dst location.Location, log *zap.Logger) int {
	existing, err := lockfile.Load(dst.LockfilePath())
	if err == nil {
		return existing.Count()
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Warn("ignoring unreadable destination lockfile", zap.String("path", dst.LockfilePath()), zap.Error(err))
	}
	return -1
}

// ValidateSkillName rejects names that would resolve outside the skills
// directory when used as a path element.
func ValidateSkillName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid skill name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid skill name %q: must be a single path element", name)
	}
	return nil
}
