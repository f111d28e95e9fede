package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "knowledge.xml", cfg.Knowledge.Path)
	assert.Equal(t, 60, cfg.Session.TTLMinutes)
	assert.False(t, cfg.Transcript.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"empty knowledge path", func(c *Config) { c.Knowledge.Path = "" }},
		{"zero session ttl", func(c *Config) { c.Session.TTLMinutes = 0 }},
		{"zero session capacity", func(c *Config) { c.Session.MaxSessions = 0 }},
		{"zero fallback timeout", func(c *Config) { c.Fallback.TimeoutSeconds = 0 }},
		{"transcript enabled without path", func(c *Config) { c.Transcript.Enabled = true; c.Transcript.Path = "" }},
		{"negative rps", func(c *Config) { c.RateLimit.RPS = -1 }},
		{"rps without burst", func(c *Config) { c.RateLimit.RPS = 10; c.RateLimit.Burst = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tanya.toml")
	content := `
[server]
port = 9001
allowed_origins = ["http://localhost:3000"]

[knowledge]
path = "kb/testdata/knowledge.xml"

[session]
ttl_minutes = 5
max_sessions = 16
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Session.TTLMinutes)
	assert.Equal(t, 16, cfg.Session.MaxSessions)
	// Defaults fill the sections the file omits
	assert.Equal(t, 5, cfg.Fallback.TimeoutSeconds)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
