package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AnalysePath is the expensive endpoint guarded by the strictest limit.
const AnalysePath = "/analyse"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration through getenv.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	analyse := EndpointConfig{
		Path:   AnalysePath,
		Method: "POST",
		Limit:  env.integer("RATE_LIMIT_ANALYSE_LIMIT", 10),
		Window: env.duration("RATE_LIMIT_ANALYSE_WINDOW", time.Hour),
		Burst:  env.integer("RATE_LIMIT_ANALYSE_BURST", 2),
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: []EndpointConfig{analyse},
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return LoadConfigFrom(func(string) string { return "" }).EndpointConfigs
}

type envReader func(string) string

func (r envReader) str(key, defaultValue string) string {
	if value := strings.TrimSpace(r(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r envReader) integer(key string, defaultValue int) int {
	if v, err := strconv.Atoi(r.str(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func (r envReader) boolean(key string, defaultValue bool) bool {
	switch value := strings.ToLower(r.str(key, "")); value {
	case "yes":
		return true
	case "no":
		return false
	default:
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func (r envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(r.str(key, "")); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
