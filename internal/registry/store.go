package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/schema"
	"go.uber.org/zap"
)

//go:embed schema/registry.schema.json
var schemaBytes []byte

var validator = schema.New("registry.schema.json", schemaBytes)

// ParseError reports a registry file that exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing registry %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Read reads the registry at path strictly. A missing file returns an error
// matching os.ErrNotExist; unparsable content returns *ParseError.
func Read(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return reg, nil
}

// Parse decodes registry JSON after validating it against the registry schema.
func Parse(data []byte) (*Registry, error) {
	result, err := validator.Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid registry: %s", result.Summary())
	}

	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Load reads the registry at path for updating. A missing file yields an
// empty registry. An unreadable or corrupt file is logged as a warning and
// also yields an empty registry, so a bad skills.json never blocks an
// installation.
func Load(path string, logger *zap.Logger) *Registry {
	log := logging.OrNop(logger)

	reg, err := Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not parse existing registry, starting a new one", zap.String("path", path), zap.Error(err))
		}
		return New()
	}

	if n := reg.Dropped(); n > 0 {
		log.Warn("dropped duplicate registry entries", zap.String("path", path), zap.Int("count", n))
	}
	return reg
}

// Save writes reg to path as two-space indented JSON with a trailing
// newline, replacing any existing file and creating parent directories.
func Save(path string, reg *Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing registry %s: %w", path, err)
	}
	return nil
}
