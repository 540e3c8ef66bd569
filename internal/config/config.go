// Package config loads application configuration from flags, environment variables, a .env file, and a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
	"github.com/tvrec/tvrec-server/internal/validation"
)

// DefaultConfigFile is read when no --config flag is given and the file exists.
const DefaultConfigFile = "config.yaml"

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Server      ServerConfig
	TMDB        TMDBConfig
	Ratings     RatingsConfig
	GenAI       GenAIConfig
	ImageSearch ImageSearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              string        `validate:"required,numeric"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	CORSOrigins       []string
	RequestsPerMinute int `validate:"gte=0"` // 0 disables throttling
}

// TMDBConfig holds The Movie Database client configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string        `validate:"required,url"`
	ImageBaseURL string        `validate:"required,url"`
	Timeout      time.Duration `validate:"gt=0"`
}

// RatingsConfig holds the default ratings source.
type RatingsConfig struct {
	SourceURL    string
	FetchTimeout time.Duration `validate:"gt=0"`
	// Watch reloads ratings when SourceURL is a local file that changes.
	Watch bool
}

// GenAIConfig holds the generative-text client configuration.
type GenAIConfig struct {
	APIKey  string
	BaseURL string        `validate:"required,url"`
	Model   string        `validate:"required"`
	Timeout time.Duration `validate:"gt=0"`
}

// ImageSearchConfig holds Google Custom Search credentials for character images.
// Both fields empty disables the lookup.
type ImageSearchConfig struct {
	APIKey   string
	EngineID string `validate:"required_with=APIKey"`
}

// Enabled reports whether character image lookups are configured.
func (c ImageSearchConfig) Enabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}

// Flags carries command-line overrides. Empty fields fall through to the next source.
type Flags struct {
	ConfigFile    string
	EnvFile       string
	Environment   string
	LogLevel      string
	Port          string
	RatingsSource string
}

// legacyKeys maps keys accepted in the YAML file to their canonical names.
var legacyKeys = map[string]string{
	"GOOGLE_CSV_LINK":          "RATINGS_SOURCE_URL",
	"GOOGLE_AI_STUDIO_API_KEY": "GENAI_API_KEY",
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file.
// 5. Default values (lowest priority).
func Load(flags Flags) (*Config, error) {
	src, err := newSources(flags)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: src.get(flags.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(src.get(flags.LogLevel, "LOG_LEVEL", "info")),
		},
		Server: ServerConfig{
			Port:        src.get(flags.Port, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(src.get("", "CORS_ALLOWED_ORIGINS", "*")),
		},
		TMDB: TMDBConfig{
			APIKey:       src.get("", "TMDB_API_KEY", ""),
			BaseURL:      src.get("", "TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: src.get("", "TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		},
		Ratings: RatingsConfig{
			SourceURL: src.get(flags.RatingsSource, "RATINGS_SOURCE_URL", ""),
			Watch:     parseBool(src.get("", "RATINGS_WATCH", ""), false),
		},
		GenAI: GenAIConfig{
			APIKey:  src.get("", "GENAI_API_KEY", ""),
			BaseURL: src.get("", "GENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:   src.get("", "GENAI_MODEL", "gemini-2.0-flash"),
		},
		ImageSearch: ImageSearchConfig{
			APIKey:   src.get("", "IMAGE_SEARCH_API_KEY", ""),
			EngineID: src.get("", "IMAGE_SEARCH_ENGINE_ID", ""),
		},
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"TMDB_TIMEOUT", "10s", &cfg.TMDB.Timeout},
		{"RATINGS_FETCH_TIMEOUT", "15s", &cfg.Ratings.FetchTimeout},
		{"GENAI_TIMEOUT", "45s", &cfg.GenAI.Timeout},
	}
	for _, d := range durations {
		raw := src.get("", d.key, d.def)
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.key, raw, err)
		}
		*d.dst = v
	}

	rpm := src.get("", "API_REQUESTS_PER_MINUTE", "120")
	cfg.Server.RequestsPerMinute, err = strconv.Atoi(rpm)
	if err != nil {
		return nil, fmt.Errorf("invalid API_REQUESTS_PER_MINUTE %q: %w", rpm, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural constraints. Credentials are checked per component
// by the Require* methods so the CLI can run commands that do not need them.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// RequireTMDB reports whether the catalog client can be built.
func (c *Config) RequireTMDB() error {
	if c.TMDB.APIKey == "" {
		return domainerrors.Unavailable("TMDB_API_KEY is not set")
	}
	return nil
}

// RequireGenAI reports whether the generative-text client can be built.
func (c *Config) RequireGenAI() error {
	if c.GenAI.APIKey == "" {
		return domainerrors.Unavailable("GENAI_API_KEY is not set")
	}
	return nil
}

// RequireRatings reports whether a default ratings source is configured.
func (c *Config) RequireRatings() error {
	if c.Ratings.SourceURL == "" {
		return domainerrors.Unavailable("RATINGS_SOURCE_URL is not set")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// sources resolves a key through every configuration layer below flags.
type sources struct {
	dotenv map[string]string
	file   map[string]string
}

func newSources(flags Flags) (*sources, error) {
	s := &sources{}

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		s.dotenv = dotenv
	case errors.Is(err, os.ErrNotExist) && flags.EnvFile == "":
		// No .env in the working directory.
	default:
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	path := flags.ConfigFile
	if path == "" {
		path = DefaultConfigFile
	}
	file, err := readYAML(path)
	switch {
	case err == nil:
		s.file = file
	case errors.Is(err, os.ErrNotExist) && flags.ConfigFile == "":
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	return s, nil
}

// get returns the first non-empty value from flag, env var, .env, config file, or default.
func (s *sources) get(flagValue, key, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.dotenv[key]; v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return defaultValue
}

// readYAML reads a flat KEY: value document. Scalars of any type are kept as
// their string form; legacy key names are folded onto canonical ones.
func readYAML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- config path comes from the operator
	if err != nil {
		return nil, err
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := make(map[string]string, len(raw))
	for k, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("key %s: expected a scalar value", k)
		}
		out[strings.ToUpper(k)] = node.Value
	}
	for legacy, canonical := range legacyKeys {
		if v, ok := out[legacy]; ok {
			if _, set := out[canonical]; !set {
				out[canonical] = v
			}
			delete(out, legacy)
		}
	}
	return out, nil
}

// parseBool accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func parseBool(v string, defaultValue bool) bool {
	if v == "" {
		return defaultValue
	}
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
