package config

import "github.com/wicaksana/tanya/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.Newf("server.port must be positive, got %d", c.Server.Port)
	}

	if c.Knowledge.Path == "" {
		return errors.New("knowledge.path cannot be empty")
	}

	if c.Session.TTLMinutes <= 0 {
		return errors.Newf("session.ttl_minutes must be > 0, got %d", c.Session.TTLMinutes)
	}
	if c.Session.MaxSessions <= 0 {
		return errors.Newf("session.max_sessions must be > 0, got %d", c.Session.MaxSessions)
	}

	if c.Fallback.TimeoutSeconds <= 0 {
		return errors.Newf("fallback.timeout_seconds must be > 0, got %d", c.Fallback.TimeoutSeconds)
	}

	if c.Transcript.Enabled && c.Transcript.Path == "" {
		return errors.New("transcript.path cannot be empty when transcript.enabled is true")
	}

	// 0 rps = limiter disabled, negative = invalid
	if c.RateLimit.RPS < 0 {
		return errors.Newf("ratelimit.rps must be >= 0, got %f", c.RateLimit.RPS)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return errors.Newf("ratelimit.burst must be > 0 when ratelimit.rps is set, got %d", c.RateLimit.Burst)
	}

	return nil
}
