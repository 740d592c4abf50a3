// Package config provides the runtime configuration for the analyser, read
// from the process environment with an optional JSON file as defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Production is the APP_ENV value that selects production mode.
const Production = "production"

// Defaults applied when neither the environment nor a config file sets a value.
const (
	DefaultDevProvider    = "ollama"
	DefaultOllamaBaseURL  = "http://localhost:11434/v1"
	DefaultRequestTimeout = 120 * time.Second
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Env is the configuration surface of the analyser. It is a plain value:
// tests construct it directly instead of mutating the process environment.
type Env struct {
	AppEnv         string        // APP_ENV; "production" selects production mode
	DevProvider    string        // DEV_AI_PROVIDER: openai, ollama or mock
	OpenAIAPIKey   string        // OPENAI_API_KEY
	OllamaBaseURL  string        // OLLAMA_BASE_URL
	LocalDevModel  string        // LOCAL_DEV_AI_MODEL
	ForceAIInDev   bool          // FORCE_AI_IN_DEV
	RequestTimeout time.Duration // AI_REQUEST_TIMEOUT
	Port           int           // PORT
	LogLevel       string        // LOG_LEVEL
	LogFormat      string        // LOG_FORMAT: text or json
}

// IsProduction reports whether the process runs in production mode.
func (e Env) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(e.AppEnv), Production)
}

// Load reads the configuration from the process environment.
func Load() Env {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Unset or unparsable
// values fall back to the defaults.
func LoadFrom(getenv func(string) string) Env {
	r := reader{getenv: getenv}
	return Env{
		AppEnv:         r.str("APP_ENV", "development"),
		DevProvider:    r.str("DEV_AI_PROVIDER", DefaultDevProvider),
		OpenAIAPIKey:   r.str("OPENAI_API_KEY", ""),
		OllamaBaseURL:  r.str("OLLAMA_BASE_URL", DefaultOllamaBaseURL),
		LocalDevModel:  r.str("LOCAL_DEV_AI_MODEL", ""),
		ForceAIInDev:   r.boolean("FORCE_AI_IN_DEV", false),
		RequestTimeout: r.duration("AI_REQUEST_TIMEOUT", DefaultRequestTimeout),
		Port:           r.integer("PORT", DefaultPort),
		LogLevel:       r.str("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      r.str("LOG_FORMAT", DefaultLogFormat),
	}
}

// Validate checks that the configuration has usable values. Provider
// requirements are checked by the model resolver at call time, not here.
func (e Env) Validate() error {
	if e.RequestTimeout <= 0 {
		return fmt.Errorf("config error: 'AI_REQUEST_TIMEOUT' must be positive")
	}
	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("config error: 'PORT' must be between 1 and 65535, got %d", e.Port)
	}
	switch strings.ToLower(e.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config error: 'LOG_FORMAT' must be text or json, got %q", e.LogFormat)
	}
	return nil
}

// fileConfig is the on-disk form of Env. All fields are optional.
type fileConfig struct {
	AppEnv         string `json:"app_env,omitempty"`
	DevProvider    string `json:"dev_provider,omitempty"`
	OllamaBaseURL  string `json:"ollama_base_url,omitempty"`
	LocalDevModel  string `json:"local_dev_model,omitempty"`
	ForceAIInDev   bool   `json:"force_ai_in_dev,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"` // Go duration, e.g. "90s"
	Port           int    `json:"port,omitempty"`
	LogLevel       string `json:"log_level,omitempty"`
	LogFormat      string `json:"log_format,omitempty"`
}

// LoadFile loads configuration defaults from a JSON file. Credentials are
// never read from the file; OPENAI_API_KEY comes from the environment only.
func LoadFile(path string) (*Env, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	env := Env{
		AppEnv:        fc.AppEnv,
		DevProvider:   fc.DevProvider,
		OllamaBaseURL: fc.OllamaBaseURL,
		LocalDevModel: fc.LocalDevModel,
		ForceAIInDev:  fc.ForceAIInDev,
		Port:          fc.Port,
		LogLevel:      fc.LogLevel,
		LogFormat:     fc.LogFormat,
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid 'request_timeout' %q: %w", fc.RequestTimeout, err)
		}
		env.RequestTimeout = d
	}
	return &env, nil
}

// LoadWithFile reads the process environment, filling values the
// environment leaves unset from the JSON file at path.
func LoadWithFile(path string) (Env, error) {
	file, err := LoadFile(path)
	if err != nil {
		return Env{}, err
	}
	return LoadFrom(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file.lookup(key)
	}), nil
}

// lookup returns the file value for an environment key as a string.
func (e *Env) lookup(key string) string {
	switch key {
	case "APP_ENV":
		return e.AppEnv
	case "DEV_AI_PROVIDER":
		return e.DevProvider
	case "OLLAMA_BASE_URL":
		return e.OllamaBaseURL
	case "LOCAL_DEV_AI_MODEL":
		return e.LocalDevModel
	case "FORCE_AI_IN_DEV":
		if e.ForceAIInDev {
			return "true"
		}
	case "AI_REQUEST_TIMEOUT":
		if e.RequestTimeout > 0 {
			return e.RequestTimeout.String()
		}
	case "PORT":
		if e.Port > 0 {
			return strconv.Itoa(e.Port)
		}
	case "LOG_LEVEL":
		return e.LogLevel
	case "LOG_FORMAT":
		return e.LogFormat
	}
	return ""
}

type reader struct {
	getenv func(string) string
}

func (r reader) str(key, defaultValue string) string {
	if value := strings.TrimSpace(r.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r reader) integer(key string, defaultValue int) int {
	if value := r.getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// boolean accepts strconv booleans and yes/no, in any case.
func (r reader) boolean(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(r.getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes":
		return true
	case "no":
		return false
	}
	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}
	return defaultValue
}

func (r reader) duration(key string, defaultValue time.Duration) time.Duration {
	if value := r.getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
