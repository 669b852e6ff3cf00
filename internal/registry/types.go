package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// timeLayout writes UTC timestamps with millisecond precision, e.g.
// 2025-01-15T08:00:00.123Z.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one explicit install request.
type Entry struct {
	Source  string     // e.g., "https://github.com/vercel-labs/skills"
	Skill   string     // e.g., "find-skills"
	Added   time.Time  // first time the pair was added
	Updated *time.Time // last re-add; nil if added once

	// Extra holds any other keys found in the file or merged in by Upsert.
	Extra map[string]any
}

// Key identifies an entry.
type Key struct {
	Source string
	Skill  string
}

// Key returns the entry's (source, skill) identity.
func (e *Entry) Key() Key {
	return Key{Source: e.Source, Skill: e.Skill}
}

// String returns "<source> (skill: <skill>)".
func (e *Entry) String() string {
	return fmt.Sprintf("%s (skill: %s)", e.Source, e.Skill)
}

// MarshalJSON writes source, skill, added, and updated first, followed by
// extra keys in sorted order.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	if err := write("source", e.Source); err != nil {
		return nil, err
	}
	if err := write("skill", e.Skill); err != nil {
		return nil, err
	}
	if !e.Added.IsZero() {
		if err := write("added", formatTime(e.Added)); err != nil {
			return nil, err
		}
	}
	if e.Updated != nil {
		if err := write("updated", formatTime(*e.Updated)); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		if isReserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, e.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an entry. Files written by older tooling use "repo"
// instead of "source"; it is accepted when "source" is absent.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Entry{}

	if v, ok := raw["source"]; ok {
		if err := json.Unmarshal(v, &e.Source); err != nil {
			return fmt.Errorf("decoding source: %w", err)
		}
		delete(raw, "source")
	} else if v, ok := raw["repo"]; ok {
		if err := json.Unmarshal(v, &e.Source); err != nil {
			return fmt.Errorf("decoding repo: %w", err)
		}
		delete(raw, "repo")
	}

	if v, ok := raw["skill"]; ok {
		if err := json.Unmarshal(v, &e.Skill); err != nil {
			return fmt.Errorf("decoding skill: %w", err)
		}
		delete(raw, "skill")
	}

	if v, ok := raw["added"]; ok {
		t, err := parseTime(v)
		if err != nil {
			return fmt.Errorf("decoding added: %w", err)
		}
		e.Added = t
		delete(raw, "added")
	}

	if v, ok := raw["updated"]; ok {
		t, err := parseTime(v)
		if err != nil {
			return fmt.Errorf("decoding updated: %w", err)
		}
		e.Updated = &t
		delete(raw, "updated")
	}

	for k, v := range raw {
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return fmt.Errorf("decoding %s: %w", k, err)
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[k] = value
	}
	return nil
}

func isReserved(key string) bool {
	switch key {
	case "source", "skill", "added", "updated":
		return true
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}
