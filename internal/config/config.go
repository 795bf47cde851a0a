package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sort"

	"github.com/vango-dev/vlite/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vlite.json"

	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultHistory is the default number of pass reports devtools keeps.
	DefaultHistory = 100

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = ".vlite/snapshots"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vlite"

	// DefaultMaxPasses bounds consecutive render passes.
	DefaultMaxPasses = 25
)

// Config represents the vlite.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Templates are glob patterns of template files.
	Templates []string `json:"templates,omitempty"`

	// Data is a YAML or JSON file with the values for ${name} slots.
	Data string `json:"data,omitempty"`

	// Debug enables hook order validation.
	Debug bool `json:"debug,omitempty"`

	// MaxPasses bounds consecutive render passes.
	MaxPasses int `json:"maxPasses,omitempty"`

	// CacheSize is the number of parsed templates cached (0 = default).
	CacheSize int `json:"cacheSize,omitempty"`

	// Devtools contains inspector settings.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// Snapshot contains snapshot storage settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevtoolsConfig contains inspector settings.
type DevtoolsConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// History is the number of pass reports kept.
	History int `json:"history,omitempty"`
}

// SnapshotConfig contains snapshot storage settings. S3, when set, takes
// precedence over Dir.
type SnapshotConfig struct {
	// Dir is the snapshot directory.
	Dir string `json:"dir,omitempty"`

	// S3 stores snapshots in a bucket instead.
	S3 *S3Config `json:"s3,omitempty"`
}

// S3Config names a bucket location.
type S3Config struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for vlite.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("no %s found in %s", ConfigFileName, filepath.Dir(path)).
				WithSuggestion("create " + ConfigFileName + " or pass template files as arguments")
		}
		return nil, errors.New(errors.CodeConfigNotFound).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("failed to parse %s: %v", path, err).
			WithSuggestion("check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or "." when the
// config was not loaded from a file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// Resolve returns path relative to the config directory unless it is
// absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// TemplateFiles expands the template patterns, sorted and without
// duplicates.
func (c *Config) TemplateFiles() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Templates {
		matches, err := filepath.Glob(c.Resolve(pattern))
		if err != nil {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("bad template pattern %q: %v", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.MaxPasses == 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Devtools.History == 0 {
		c.Devtools.History = DefaultHistory
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxPasses < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("maxPasses must not be negative, got %d", c.MaxPasses)
	}
	if c.CacheSize < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("cacheSize must not be negative, got %d", c.CacheSize)
	}
	if c.Devtools.History < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("devtools.history must not be negative, got %d", c.Devtools.History)
	}
	if _, _, err := net.SplitHostPort(c.Devtools.Addr); err != nil {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("devtools.addr %q: %v", c.Devtools.Addr, err).
			WithSuggestion(`use host:port, e.g. "localhost:7070"`)
	}
	if s3 := c.Snapshot.S3; s3 != nil && (s3.Bucket == "" || s3.Region == "") {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("snapshot.s3 needs both bucket and region")
	}
	return nil
}
