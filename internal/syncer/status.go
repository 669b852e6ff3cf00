package syncer

import (
	"bytes"
	"errors"
	"io/fs"
	"sort"

	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/mirror"
)

// State describes how one skill compares between two Locations.
type State string

const (
	StateInSync     State = "in sync"
	StateDiffers    State = "differs"
	StateSourceOnly State = "only in source"
	StateDestOnly   State = "only in destination"
	StateMissing    State = "missing directory"
)

// SkillStatus is the comparison result for one skill name.
type SkillStatus struct {
	Name  string
	State State
}

// Report compares two Locations without modifying either.
type Report struct {
	SourceLockfile bool
	DestLockfile   bool
	LockfilesMatch bool
	Skills         []SkillStatus
}

// Compare reports, for every skill named by either lockfile, whether a sync
// from src to dst would change it. Lockfiles that are absent count as empty;
// unparsable ones return an error.
func Compare(src, dst location.Location, opts mirror.Options) (*Report, error) {
	srcLf, srcFound, err := loadOptional(src.LockfilePath())
	if err != nil {
		return nil, err
	}
	dstLf, dstFound, err := loadOptional(dst.LockfilePath())
	if err != nil {
		return nil, err
	}

	report := &Report{SourceLockfile: srcFound, DestLockfile: dstFound}
	if srcFound && dstFound {
		a, err := lockfile.Marshal(srcLf)
		if err != nil {
			return nil, err
		}
		b, err := lockfile.Marshal(dstLf)
		if err != nil {
			return nil, err
		}
		report.LockfilesMatch = bytes.Equal(a, b)
	}

	names := map[string]bool{}
	for _, n := range srcLf.SkillNames() {
		names[n] = true
	}
	for _, n := range dstLf.SkillNames() {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		state, err := compareSkill(name, srcLf, src, dst, opts)
		if err != nil {
			return nil, err
		}
		report.Skills = append(report.Skills, SkillStatus{Name: name, State: state})
	}
	return report, nil
}

// Pending returns the skills a sync would copy: those only in source or
// differing from the destination.
func (r *Report) Pending() []string {
	var names []string
	for _, s := range r.Skills {
		if s.State == StateSourceOnly || s.State == StateDiffers {
			names = append(names, s.Name)
		}
	}
	return names
}

func compareSkill(name string, srcLf *lockfile.Lockfile, src, dst location.Location, opts mirror.Options) (State, error) {
	if err := ValidateSkillName(name); err != nil {
		return StateMissing, nil
	}

	if !srcLf.Has(name) {
		return StateDestOnly, nil
	}

	srcDir := src.SkillDir(name)
	srcOK, err := mirror.IsDir(srcDir)
	if err != nil {
		return "", err
	}
	if !srcOK {
		return StateMissing, nil
	}

	dstDir := dst.SkillDir(name)
	dstOK, err := mirror.IsDir(dstDir)
	if err != nil {
		return "", err
	}
	if !dstOK {
		return StateSourceOnly, nil
	}

	srcHash, err := mirror.HashDir(srcDir, opts)
	if err != nil {
		return "", err
	}
	dstHash, err := mirror.HashDir(dstDir, opts)
	if err != nil {
		return "", err
	}
	if srcHash != dstHash {
		return StateDiffers, nil
	}
	return StateInSync, nil
}

func loadOptional(path string) (*lockfile.Lockfile, bool, error) {
	lf, err := lockfile.Load(path)
	if err == nil {
		return lf, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return lockfile.New(""), false, nil
	}
	return nil, false, err
}
