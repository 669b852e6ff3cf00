package lockfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/agentx-labs/skillkit/internal/schema"
)

//go:embed schema/lockfile.schema.json
var schemaBytes []byte

var validator = schema.New("lockfile.schema.json", schemaBytes)

// Lockfile is the manifest of skills known to a Location.
type Lockfile struct {
	Version string
	Skills  map[string]json.RawMessage

	// rawVersion keeps the on-disk encoding of version (string or number)
	// so a numeric version is not rewritten as a string.
	rawVersion json.RawMessage
	// noSkillsKey records that the file had no "skills" key at all.
	noSkillsKey bool
	extra       map[string]json.RawMessage
}

// ParseError reports a lockfile that exists but cannot be parsed or does not
// match the lockfile schema.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing lockfile %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// New returns an empty lockfile with the given version.
func New(version string) *Lockfile {
	return &Lockfile{Version: version, Skills: map[string]json.RawMessage{}}
}

// Load reads and parses the lockfile at path. A missing file returns an
// error matching os.ErrNotExist; malformed content returns *ParseError.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	lf, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return lf, nil
}

// Parse decodes lockfile JSON and validates it against the lockfile schema.
func Parse(data []byte) (*Lockfile, error) {
	result, err := validator.Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid lockfile: %s", result.Summary())
	}

	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

// Save writes lf to path as two-space indented JSON with a trailing newline,
// creating parent directories as needed. Existing content is replaced.
func Save(path string, lf *Lockfile) error {
	data, err := Marshal(lf)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lockfile %s: %w", path, err)
	}
	return nil
}

// Marshal returns the stable on-disk encoding of lf. HTML characters are
// written as-is rather than as \u escapes.
func Marshal(lf *Lockfile) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lf); err != nil {
		return nil, fmt.Errorf("encoding lockfile: %w", err)
	}
	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SkillNames returns the lockfile's skill names in sorted order.
func (lf *Lockfile) SkillNames() []string {
	names := make([]string, 0, len(lf.Skills))
	for name := range lf.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of skills in the lockfile.
func (lf *Lockfile) Count() int {
	return len(lf.Skills)
}

// Has reports whether name is a key of the skills mapping.
func (lf *Lockfile) Has(name string) bool {
	_, ok := lf.Skills[name]
	return ok
}

// MarshalJSON writes version, skills, and any preserved top-level keys.
func (lf *Lockfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(lf.extra)+2)
	for k, v := range lf.extra {
		out[k] = v
	}

	if lf.rawVersion != nil || lf.Version != "" {
		version, err := lf.encodeVersion()
		if err != nil {
			return nil, err
		}
		out["version"] = version
	}

	if !lf.noSkillsKey || len(lf.Skills) > 0 {
		skills := lf.Skills
		if skills == nil {
			skills = map[string]json.RawMessage{}
		}
		encoded, err := marshal(skills)
		if err != nil {
			return nil, fmt.Errorf("encoding skills: %w", err)
		}
		out["skills"] = encoded
	}

	return marshal(out)
}

// UnmarshalJSON accepts a string or numeric version and keeps unknown keys.
func (lf *Lockfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lf.Version = ""
	lf.rawVersion = nil
	lf.Skills = map[string]json.RawMessage{}
	lf.extra = nil
	_, hasSkills := raw["skills"]
	lf.noSkillsKey = !hasSkills

	for key, value := range raw {
		switch key {
		case "version":
			v, err := decodeVersion(value)
			if err != nil {
				return err
			}
			lf.Version = v
			lf.rawVersion = value
		case "skills":
			if string(bytes.TrimSpace(value)) == "null" {
				continue
			}
			if err := json.Unmarshal(value, &lf.Skills); err != nil {
				return fmt.Errorf("decoding skills: %w", err)
			}
		default:
			if lf.extra == nil {
				lf.extra = make(map[string]json.RawMessage)
			}
			lf.extra[key] = value
		}
	}
	return nil
}

func (lf *Lockfile) encodeVersion() (json.RawMessage, error) {
	if lf.rawVersion != nil {
		if v, err := decodeVersion(lf.rawVersion); err == nil && v == lf.Version {
			return lf.rawVersion, nil
		}
	}
	return marshal(lf.Version)
}

func decodeVersion(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("decoding version: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", fmt.Errorf("decoding version: %w", err)
	}
	return n.String(), nil
}
