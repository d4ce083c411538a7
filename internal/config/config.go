package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// Config represents the top-level stmtimport.yaml configuration.
type Config struct {
	ImportDir    string        `yaml:"import_dir"`
	ProcessedDir string        `yaml:"processed_dir"`
	LogFile      string        `yaml:"log_file"`
	Defaults     model.Options `yaml:"defaults"`
	Profiles     []Profile     `yaml:"profiles,omitempty"`
}

// Profile overrides default options for files whose base name matches a
// glob. Only the keys present under options are overridden.
type Profile struct {
	Name    string    `yaml:"name"`
	Match   string    `yaml:"match"` // filepath.Match pattern, e.g. "chase-*.csv"
	Options yaml.Node `yaml:"options"`
}

// Load reads a stmtimport.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, p := range cfg.Profiles {
		if _, err := filepath.Match(p.Match, ""); err != nil {
			return nil, fmt.Errorf("profile %q: bad match pattern: %w", p.Name, err)
		}
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		ImportDir:    "import",
		ProcessedDir: "import/processed",
		LogFile:      "logs/import-log.csv",
		Defaults:     model.DefaultOptions(),
	}
}

// Profile returns the first profile matching fileName's base name, or nil.
func (c *Config) Profile(fileName string) *Profile {
	base := filepath.Base(fileName)
	for i := range c.Profiles {
		if ok, _ := filepath.Match(c.Profiles[i].Match, base); ok {
			return &c.Profiles[i]
		}
	}
	return nil
}

// OptionsFor returns the defaults overlaid with the matching profile, if any.
func (c *Config) OptionsFor(fileName string) (model.Options, error) {
	opts := c.Defaults
	p := c.Profile(fileName)
	if p == nil || p.Options.Kind == 0 {
		return opts, nil
	}
	if err := p.Options.Decode(&opts); err != nil {
		return model.Options{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return opts, nil
}

// ResolvePaths makes the relative directory and log paths relative to base,
// normally the directory holding the config file.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{&c.ImportDir, &c.ProcessedDir, &c.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
