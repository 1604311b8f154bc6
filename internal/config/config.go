package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the front end.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Backend BackendConfig
	Session SessionConfig
	UI      UIConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
	// Output is a zap sink such as stdout, stderr or a file path.
	Output string
}

// BackendConfig points at the invoicing REST backend.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig controls the browser session cookie and its Redis record.
type SessionConfig struct {
	Store      string
	CookieName string
	TTLMinutes int
	Secure     bool
}

// UIConfig holds screen behavior knobs.
type UIConfig struct {
	RedirectDelayMillis int
	SkeletonRows        int
	RenderWaitMillis    int
	ScreenIdleMinutes   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "invoich-web"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_BASE_URL", "https://invoich-backend.onrender.com"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", "redis")),
			CookieName: getEnv("SESSION_COOKIE_NAME", "invoich_session"),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 24*60),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		UI: UIConfig{
			RedirectDelayMillis: getEnvAsInt("UI_REDIRECT_DELAY_MS", 1500),
			SkeletonRows:        getEnvAsInt("UI_SKELETON_ROWS", 5),
			RenderWaitMillis:    getEnvAsInt("UI_RENDER_WAIT_MS", 1500),
			ScreenIdleMinutes:   getEnvAsInt("UI_SCREEN_IDLE_MINUTES", 30),
		},
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL must not be empty")
	}
	if cfg.Session.Store != "redis" && cfg.Session.Store != "memory" {
		return nil, fmt.Errorf("invalid SESSION_STORE %q: want redis or memory", cfg.Session.Store)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call timeout for backend requests.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// RedirectDelay is the pause between a success notice and the follow-up navigation.
func (u UIConfig) RedirectDelay() time.Duration {
	return time.Duration(u.RedirectDelayMillis) * time.Millisecond
}

// RenderWait bounds how long a page render waits for a pending load to settle.
func (u UIConfig) RenderWait() time.Duration {
	return time.Duration(u.RenderWaitMillis) * time.Millisecond
}

// ScreenIdle is how long an untouched screen survives before it is torn down.
func (u UIConfig) ScreenIdle() time.Duration {
	if u.ScreenIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(u.ScreenIdleMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
