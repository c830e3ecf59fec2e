package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftree/objtree"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, objtree.DefaultLimits(), cfg.TreeLimits())
	assert.Equal(t, 10, cfg.Serializer().MaxDepth)
	assert.Equal(t, FormatText, cfg.Output.Format)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, lvl)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
limits:
  default_depth: 4
  scan_width: 10
  expand_streams: true
reader:
  cache_size: 16
output:
  format: json
  decode_text: true
log_level: debug
`))
	require.NoError(t, err)

	limits := cfg.TreeLimits()
	assert.Equal(t, 4, limits.DefaultDepth)
	assert.Equal(t, 10, limits.ScanWidth)
	assert.True(t, limits.ExpandStreams)
	assert.Equal(t, objtree.DefaultObjectBudget, limits.ObjectBudget)
	assert.Equal(t, 16, cfg.Reader.CacheSize)
	assert.Len(t, cfg.ReaderOptions(), 1)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Serializer().DecodeText)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative depth", "limits:\n  default_depth: -1\n"},
		{"zero budget", "limits:\n  object_budget: 0\n"},
		{"default above ceiling", "limits:\n  default_depth: 20\n  depth_ceiling: 10\n"},
		{"unknown format", "output:\n  format: xml\n"},
		{"unknown level", "log_level: loud\n"},
		{"unknown key", "limits:\n  depth: 3\n"},
		{"not yaml", "limits: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdftree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reader:\n  cache_size: 8\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Reader.CacheSize)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	t.Setenv(EnvVar, path)
	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Reader.CacheSize)

	t.Setenv(EnvVar, "")
	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "object_budget: 1000000")

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
