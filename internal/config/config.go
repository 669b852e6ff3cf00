package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	fileName = "skillkit"
	fileType = "yaml"
)

// Default values applied when a key is not set anywhere.
const (
	DefaultLockfileName     = ".skill-lock.json"
	DefaultRegistryName     = "skills.json"
	DefaultSkillsDir        = "skills"
	DefaultInstallerCommand = "npx"
	DefaultInstallerPackage = "skills"
	DefaultInstallerAgent   = "github-copilot"
)

// Config is the resolved skillkit configuration.
type Config struct {
	LockfileName string          `mapstructure:"lockfile_name" yaml:"lockfile_name"`
	RegistryName string          `mapstructure:"registry_name" yaml:"registry_name"`
	SkillsDir    string          `mapstructure:"skills_dir" yaml:"skills_dir"`
	Installer    InstallerConfig `mapstructure:"installer" yaml:"installer"`
	Mirror       MirrorConfig    `mapstructure:"mirror" yaml:"mirror"`
}

// InstallerConfig describes the external package-manager command used to
// list and install skills.
type InstallerConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
	Package string `mapstructure:"package" yaml:"package"`
	Agent   string `mapstructure:"agent" yaml:"agent"`
}

// MirrorConfig controls skill directory copies during sync.
type MirrorConfig struct {
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

// Dir returns the home Location directory (~/.agents/), where the
// user-level skillkit.yaml lives.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user-level config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// ProjectFilePath returns the project-level config file path for projectRoot.
func ProjectFilePath(projectRoot string) string {
	return filepath.Join(projectRoot, branding.HomeDir(), fileName+"."+fileType)
}

// Load resolves configuration for projectRoot. Sources in increasing
// precedence: defaults, ~/.agents/skillkit.yaml, <project>/.agents/skillkit.yaml,
// <project>/.env, and SKILLKIT_* environment variables.
func Load(projectRoot string) (*Config, error) {
	// Existing environment variables win over .env entries.
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))

	v := viper.New()
	setDefaults(v)

	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, path := range []string{FilePath(), ProjectFilePath(projectRoot)} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	applyDefaults(cfg)

	return cfg, nil
}

// mergeFile merges a YAML config file into v. A missing file is not an error.
func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("lockfile_name", DefaultLockfileName)
	v.SetDefault("registry_name", DefaultRegistryName)
	v.SetDefault("skills_dir", DefaultSkillsDir)
	v.SetDefault("installer.command", DefaultInstallerCommand)
	v.SetDefault("installer.package", DefaultInstallerPackage)
	v.SetDefault("installer.agent", DefaultInstallerAgent)
	v.SetDefault("mirror.exclude", []string{})
}

// applyDefaults fills fields that were explicitly set to empty strings.
func applyDefaults(cfg *Config) {
	if cfg.LockfileName == "" {
		cfg.LockfileName = DefaultLockfileName
	}
	if cfg.RegistryName == "" {
		cfg.RegistryName = DefaultRegistryName
	}
	if cfg.SkillsDir == "" {
		cfg.SkillsDir = DefaultSkillsDir
	}
	if cfg.Installer.Command == "" {
		cfg.Installer.Command = DefaultInstallerCommand
	}
	if cfg.Installer.Package == "" {
		cfg.Installer.Package = DefaultInstallerPackage
	}
	if cfg.Installer.Agent == "" {
		cfg.Installer.Agent = DefaultInstallerAgent
	}
}

// Default returns a Config holding only default values.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
