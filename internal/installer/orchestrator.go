package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/registry"
)

// EventKind identifies a step reported to an Orchestrator's Progress callback.
type EventKind int

const (
	EventListing    EventKind = iota // about to list a source
	EventListed                      // listing parsed; Skills holds the candidates
	EventInstalling                  // about to install Skill
	EventInstalled                   // Skill installed
	EventFailed                      // Skill failed; Err is set
)

// Event describes one step of an install run.
type Event struct {
	Kind    EventKind
	Source  string
	Skill   string
	Command string   // display form of the command about to run, if known
	Output  string   // raw listing output, for EventListed
	Skills  []string // candidates, for EventListed
	Updated bool     // EventInstalled: the registry already had this pair
	Err     error
}

// Result summarizes an install run.
type Result struct {
	RunID      string
	Source     string // empty for InstallAll
	// Candidates are the skills an install was attempted for. Skills never
	// reached because ctx was cancelled are not included.
	Candidates []registry.Key
	Installed  []registry.Key
	Failed     []*InstallError

	// Added and Updated count registry changes made by Install.
	Added   int
	Updated int

	// NoneFound is set when a listing produced no skill names.
	NoneFound bool

	// RegistryPath is set when Install saved the registry.
	RegistryPath string
}

// InstalledCount returns the number of successful installs.
func (r *Result) InstalledCount() int { return len(r.Installed) }

// FailedCount returns the number of failed installs.
func (r *Result) FailedCount() int { return len(r.Failed) }

// Orchestrator installs skills through an Installer and records successes in
// the registry at RegistryPath.
type Orchestrator struct {
	Installer    Installer
	RegistryPath string
	Logger       *zap.Logger

	// Progress, if set, is called before and after each step.
	Progress func(Event)

	// Now returns the time recorded in registry entries. Defaults to time.Now.
	Now func() time.Time
}

// Install installs explicitSkill from source, or every skill the source
// lists when explicitSkill is empty. Skills are installed one at a time; a
// failed install is recorded in the result and the rest continue. Each
// success is upserted into the registry, which is saved once at the end.
//
// A listing failure is returned as an error and nothing is written. A
// listing with no skill names sets NoneFound and also writes nothing. If ctx
// is cancelled no further install is started; the registry is still saved
// with the installs that completed and ctx.Err() is returned.
func (o *Orchestrator) Install(ctx context.Context, source, explicitSkill string) (*Result, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("source is required")
	}

	result := &Result{RunID: uuid.NewString(), Source: source}
	log := logging.OrNop(o.Logger).With(zap.String("run", result.RunID), zap.String("source", source))

	var names []string
	if explicitSkill != "" {
		names = []string{explicitSkill}
	} else {
		listed, err := o.list(ctx, source, log)
		if err != nil {
			return result, err
		}
		if len(listed) == 0 {
			result.NoneFound = true
			log.Debug("listing contained no skills")
			return result, nil
		}
		names = listed
	}

	reg := registry.Load(o.RegistryPath, log)

	var ctxErr error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		result.Candidates = append(result.Candidates, registry.Key{Source: source, Skill: name})

		if err := o.installOne(ctx, source, name, log); err != nil {
			result.Failed = append(result.Failed, err)
			continue
		}

		existed := reg.Upsert(source, name, o.now(), nil)
		if existed {
			result.Updated++
		} else {
			result.Added++
		}
		result.Installed = append(result.Installed, registry.Key{Source: source, Skill: name})
		o.emit(Event{Kind: EventInstalled, Source: source, Skill: name, Updated: existed})
	}

	if err := registry.Save(o.RegistryPath, reg); err != nil {
		return result, err
	}
	result.RegistryPath = o.RegistryPath
	log.Debug("registry saved",
		zap.String("path", o.RegistryPath),
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated))

	return result, ctxErr
}

// InstallAll replays every entry of reg in order with the same per-skill
// failure isolation as Install. The registry is neither modified nor saved.
// The returned error is non-nil only if ctx was cancelled.
func (o *Orchestrator) InstallAll(ctx context.Context, reg *registry.Registry) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := logging.OrNop(o.Logger).With(zap.String("run", result.RunID))

	for _, e := range reg.Entries() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		key := e.Key()
		result.Candidates = append(result.Candidates, key)

		if err := o.installOne(ctx, e.Source, e.Skill, log); err != nil {
			result.Failed = append(result.Failed, err)
			continue
		}
		result.Installed = append(result.Installed, key)
		o.emit(Event{Kind: EventInstalled, Source: e.Source, Skill: e.Skill})
	}

	log.Debug("replay finished",
		zap.Int("installed", len(result.Installed)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (o *Orchestrator) list(ctx context.Context, source string, log *zap.Logger) ([]string, error) {
	o.emit(Event{Kind: EventListing, Source: source, Command: o.listCommand(source)})

	output, err := o.Installer.List(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("listing skills from %s: %w", source, err)
	}

	names := ParseSkillList(output)
	log.Debug("parsed listing", zap.Strings("skills", names))
	o.emit(Event{Kind: EventListed, Source: source, Output: output, Skills: names})
	return names, nil
}

func (o *Orchestrator) installOne(ctx context.Context, source, skill string, log *zap.Logger) *InstallError {
	o.emit(Event{Kind: EventInstalling, Source: source, Skill: skill, Command: o.installCommand(source, skill)})

	if err := o.Installer.Install(ctx, source, skill); err != nil {
		ierr := &InstallError{Source: source, Skill: skill, Err: err}
		log.Warn("install failed", zap.String("skill", skill), zap.Error(err))
		o.emit(Event{Kind: EventFailed, Source: source, Skill: skill, Err: ierr})
		return ierr
	}
	log.Debug("installed", zap.String("skill", skill))
	return nil
}

func (o *Orchestrator) listCommand(source string) string {
	if c, ok := o.Installer.(Commander); ok {
		return c.ListCommand(source)
	}
	return ""
}

func (o *Orchestrator) installCommand(source, skill string) string {
	if c, ok := o.Installer.(Commander); ok {
		return c.InstallCommand(source, skill)
	}
	return ""
}

func (o *Orchestrator) emit(ev Event) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
