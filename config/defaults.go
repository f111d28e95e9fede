package config

import "github.com/spf13/viper"

// DefaultServerPort is used when no port is configured
const DefaultServerPort = 8487

// SetDefaults registers default values for all configuration keys
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("knowledge.path", "knowledge.xml")

	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("session.max_sessions", 4096)

	v.SetDefault("fallback.timeout_seconds", 5)

	v.SetDefault("transcript.enabled", false)
	v.SetDefault("transcript.path", "tanya.db")

	v.SetDefault("log.json", false)

	v.SetDefault("ratelimit.rps", 50.0)
	v.SetDefault("ratelimit.burst", 100)
}
