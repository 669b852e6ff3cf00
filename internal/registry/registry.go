package registry

import (
	"encoding/json"
	"time"
)

// Registry is the ordered list of install requests. Order is insertion order.
type Registry struct {
	entries []*Entry
	extra   map[string]json.RawMessage
	dropped int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns copies of all entries in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out
}

// Find returns the entry for (source, skill), or nil.
func (r *Registry) Find(source, skill string) *Entry {
	for _, e := range r.entries {
		if e.Source == source && e.Skill == skill {
			return e
		}
	}
	return nil
}

// Upsert records an install request at time at. If (source, skill) is
// already present, extra is merged over the existing entry, Updated is set,
// and Added is kept; Upsert then returns true. Otherwise a new entry is
// appended with Added = at and no Updated, and Upsert returns false.
func (r *Registry) Upsert(source, skill string, at time.Time, extra map[string]any) bool {
	if e := r.Find(source, skill); e != nil {
		for k, v := range extra {
			if isReserved(k) {
				continue
			}
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}
			e.Extra[k] = v
		}
		updated := at
		e.Updated = &updated
		return true
	}

	e := &Entry{Source: source, Skill: skill, Added: at}
	for k, v := range extra {
		if isReserved(k) {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[k] = v
	}
	r.entries = append(r.entries, e)
	return false
}

// Dropped returns how many duplicate entries were discarded when the
// registry was read.
func (r *Registry) Dropped() int {
	return r.dropped
}

// dedupe keeps the first entry for each (source, skill).
func (r *Registry) dedupe() {
	seen := make(map[Key]bool, len(r.entries))
	kept := r.entries[:0]
	for _, e := range r.entries {
		if seen[e.Key()] {
			r.dropped++
			continue
		}
		seen[e.Key()] = true
		kept = append(kept, e)
	}
	r.entries = kept
}

// MarshalJSON writes {"skills": [...]} plus any preserved top-level keys.
func (r *Registry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.extra)+1)
	for k, v := range r.extra {
		out[k] = v
	}
	entries := r.entries
	if entries == nil {
		entries = []*Entry{}
	}
	out["skills"] = entries
	return json.Marshal(out)
}

// UnmarshalJSON reads {"skills": [...]}, keeping unknown top-level keys.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.entries = nil
	r.extra = nil
	r.dropped = 0

	for k, v := range raw {
		if k == "skills" {
			if err := json.Unmarshal(v, &r.entries); err != nil {
				return err
			}
			continue
		}
		if r.extra == nil {
			r.extra = make(map[string]json.RawMessage)
		}
		r.extra[k] = v
	}

	r.dedupe()
	return nil
}
