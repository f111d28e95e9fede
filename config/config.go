// Package config loads and validates the tanya process configuration.
//
// Configuration comes from a TOML file merged with TANYA_* environment
// variables. Knowledge-base settings (thresholds, languages, fallback URL)
// live in the knowledge file itself, not here; this package only covers
// process-level concerns: transport, session bounds, logging, transcript.
package config

import "time"

// Config represents the tanya process configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	Session    SessionConfig    `mapstructure:"session"`
	Fallback   FallbackConfig   `mapstructure:"fallback"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

// ServerConfig configures the HTTP/WebSocket server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // ["*"] allows any origin
}

// KnowledgeConfig locates the knowledge-base source file
type KnowledgeConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig bounds the in-memory session store
type SessionConfig struct {
	TTLMinutes  int `mapstructure:"ttl_minutes"`  // idle lifetime before a session expires
	MaxSessions int `mapstructure:"max_sessions"` // LRU capacity
}

// FallbackConfig bounds the outbound call to the external fallback service.
// The endpoint URL is authored in the knowledge file; only the time budget
// is a process concern.
type FallbackConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// TranscriptConfig configures the optional SQLite conversation log
type TranscriptConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures logger output
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// RateLimitConfig configures the token-bucket limiter on the query endpoints
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`   // sustained requests per second, 0 disables limiting
	Burst int     `mapstructure:"burst"` // bucket size
}

// SessionTTL returns the configured session lifetime as a duration
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// FallbackTimeout returns the configured outbound fallback budget as a duration
func (c *Config) FallbackTimeout() time.Duration {
	return time.Duration(c.Fallback.TimeoutSeconds) * time.Second
}
