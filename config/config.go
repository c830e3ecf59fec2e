// Package config loads pdftree settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdftree/objtree"
	"github.com/tsawler/pdftree/reader"
	"github.com/tsawler/pdftree/serialize"
)

// EnvVar names the environment variable holding a config file path
const EnvVar = "PDFTREE_CONFIG"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the complete set of settings
type Config struct {
	Limits   LimitsConfig `yaml:"limits"`
	Reader   ReaderConfig `yaml:"reader"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level"`
}

// LimitsConfig bounds tree builds
type LimitsConfig struct {
	DefaultDepth    int  `yaml:"default_depth"`
	DepthCeiling    int  `yaml:"depth_ceiling"`
	ScanWidth       int  `yaml:"scan_width"`
	ObjectBudget    int  `yaml:"object_budget"`
	InitialChildren int  `yaml:"initial_children"`
	SerializerDepth int  `yaml:"serializer_depth"`
	ExpandStreams   bool `yaml:"expand_streams"`
}

// ReaderConfig configures file access
type ReaderConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Format       string `yaml:"format"`
	Color        bool   `yaml:"color"`
	DecodeText   bool   `yaml:"decode_text"`
	PreviewWidth int    `yaml:"preview_width"`
}

// Default returns the built-in settings
func Default() *Config {
	l := objtree.DefaultLimits()
	return &Config{
		Limits: LimitsConfig{
			DefaultDepth:    l.DefaultDepth,
			DepthCeiling:    l.DepthCeiling,
			ScanWidth:       l.ScanWidth,
			ObjectBudget:    l.ObjectBudget,
			InitialChildren: l.InitialChildren,
			SerializerDepth: serialize.DefaultMaxDepth,
		},
		Reader: ReaderConfig{
			CacheSize: reader.DefaultCacheSize,
		},
		Output: OutputConfig{
			Format:       FormatText,
			Color:        true,
			PreviewWidth: 80,
		},
		LogLevel: "warning",
	}
}

// Load reads the file at path over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path, or the file named by EnvVar when path is empty, or
// the defaults when neither is set.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects settings a build cannot run with
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"limits.default_depth", c.Limits.DefaultDepth},
		{"limits.depth_ceiling", c.Limits.DepthCeiling},
		{"limits.scan_width", c.Limits.ScanWidth},
		{"limits.object_budget", c.Limits.ObjectBudget},
		{"limits.initial_children", c.Limits.InitialChildren},
		{"limits.serializer_depth", c.Limits.SerializerDepth},
		{"reader.cache_size", c.Reader.CacheSize},
		{"output.preview_width", c.Output.PreviewWidth},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.Limits.DefaultDepth > c.Limits.DepthCeiling {
		return errors.Errorf("limits.default_depth %d exceeds limits.depth_ceiling %d",
			c.Limits.DefaultDepth, c.Limits.DepthCeiling)
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Errorf("unknown output.format %q", c.Output.Format)
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, errors.Wrap(err, "log_level")
	}
	return lvl, nil
}

// TreeLimits converts the limits section for the tree builder
func (c *Config) TreeLimits() objtree.Limits {
	return objtree.Limits{
		DefaultDepth:    c.Limits.DefaultDepth,
		DepthCeiling:    c.Limits.DepthCeiling,
		ScanWidth:       c.Limits.ScanWidth,
		ObjectBudget:    c.Limits.ObjectBudget,
		InitialChildren: c.Limits.InitialChildren,
		ExpandStreams:   c.Limits.ExpandStreams,
	}
}

// Serializer returns a serializer configured from the settings
func (c *Config) Serializer() *serialize.Serializer {
	return &serialize.Serializer{
		MaxDepth:   c.Limits.SerializerDepth,
		DecodeText: c.Output.DecodeText,
	}
}

// ReaderOptions returns the reader options the settings imply
func (c *Config) ReaderOptions() []reader.Option {
	return []reader.Option{reader.WithCacheSize(c.Reader.CacheSize)}
}

// Marshal renders the settings as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
