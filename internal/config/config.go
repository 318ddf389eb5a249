package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/mirror-api/internal/common"
)

// Render engines accepted by RENDER_ENGINE.
const (
	EngineMaroto   = "maroto"
	EngineChromium = "chromium"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	// TrustedProxies are the load balancers allowed to forward client
	// addresses. Empty means clients connect directly.
	TrustedProxies common.Proxies

	SupabaseURL         string
	SupabaseAnonKey     string
	SupabaseJWTSecret   string
	SupabaseTimeout     time.Duration
	SupabaseMaxAttempts int

	RedisURL    string
	DatabaseURL string

	Timezone      string
	Location      *time.Location
	StatsCacheTTL time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	RenderEngine  string
	ChromePath    string
	RenderTimeout time.Duration

	Obs Observability
}

// Observability groups logging, metrics and tracing switches.
type Observability struct {
	LogFormat        string
	LogLevel         string
	EnablePrometheus bool
	MetricsNamespace string
	MetricsBuckets   string
	// MetricsToken lets scrapers read /metrics with a static bearer token.
	// Without it /metrics needs a user token like any other route.
	MetricsToken  string
	EnableTracing bool
	OTLPEndpoint  string
	SamplingRatio float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		MaxBodyBytes:       int64(parseInt(k.String("MAX_BODY_BYTES"), 1<<20)),

		SupabaseURL:         strings.TrimRight(strings.TrimSpace(k.String("SUPABASE_URL")), "/"),
		SupabaseAnonKey:     strings.TrimSpace(k.String("SUPABASE_ANON_KEY")),
		SupabaseJWTSecret:   strings.TrimSpace(k.String("SUPABASE_JWT_SECRET")),
		SupabaseTimeout:     parseDuration(k.String("SUPABASE_TIMEOUT"), "10s"),
		SupabaseMaxAttempts: parseInt(k.String("SUPABASE_MAX_ATTEMPTS"), 3),

		RedisURL:    strings.TrimSpace(k.String("REDIS_URL")),
		DatabaseURL: strings.TrimSpace(k.String("DATABASE_URL")),

		Timezone:      valueOrDefault(k.String("TIMEZONE"), "Asia/Kolkata"),
		StatsCacheTTL: parseDuration(k.String("STATS_CACHE_TTL"), "5m"),

		LoginRateLimit:  parseInt(k.String("LOGIN_RATE_LIMIT"), 10),
		LoginRateWindow: parseDuration(k.String("LOGIN_RATE_WINDOW"), "1m"),

		RenderEngine:  strings.ToLower(valueOrDefault(k.String("RENDER_ENGINE"), EngineMaroto)),
		ChromePath:    strings.TrimSpace(k.String("CHROME_PATH")),
		RenderTimeout: parseDuration(k.String("RENDER_TIMEOUT"), "30s"),

		Obs: Observability{
			LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			EnablePrometheus: parseBoolDefault(k.String("OBS_ENABLE_PROMETHEUS"), true),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "mirror"),
			MetricsBuckets:   k.String("OBS_METRICS_BUCKETS_MS"),
			MetricsToken:     strings.TrimSpace(k.String("OBS_METRICS_TOKEN")),
			EnableTracing:    parseBoolDefault(k.String("OBS_ENABLE_TRACING"), false),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
		},
	}

	if cfg.SupabaseURL == "" {
		return nil, errors.New("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, errors.New("SUPABASE_ANON_KEY is required")
	}
	switch cfg.RenderEngine {
	case EngineMaroto, EngineChromium:
	default:
		return nil, fmt.Errorf("RENDER_ENGINE must be %q or %q, got %q", EngineMaroto, EngineChromium, cfg.RenderEngine)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	proxies, err := common.ParseProxies(splitAndTrim(k.String("TRUSTED_PROXIES")))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// AllowedOrigins returns the CORS origins, defaulting to any origin.
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.CORSAllowedOrigins
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
