package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the resolved client configuration.
type Config struct {
	Env      string // local | staging | prod
	LogLevel string

	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Client-side throttle for outgoing requests (0 = disabled)
	RateLimitRPS   int
	RateLimitBurst int

	// Cache
	CacheTTL time.Duration

	// Session
	TokenPath string

	// Reports
	ReportsDir string

	// Chat
	ChatKeepSession bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	// LOG_LEVEL (default: debug)
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	baseURL := strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	// HTTP_TIMEOUT_SECONDS (default: 30, enforce > 0)
	timeoutSeconds := envInt("HTTP_TIMEOUT_SECONDS", 30)
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	// CACHE_TTL_SECONDS (default: 300 = 5 minutes)
	cacheTTLSeconds := envInt("CACHE_TTL_SECONDS", 300)
	if cacheTTLSeconds < 0 {
		log.Printf("WARNING: negative CACHE_TTL_SECONDS=%d, fallback to 300", cacheTTLSeconds)
		cacheTTLSeconds = 300
	}

	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// TOKEN_PATH (default: ~/.nutritrack/token)
	tokenPath := strings.TrimSpace(os.Getenv("TOKEN_PATH"))
	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		tokenPath = filepath.Join(home, ".nutritrack", "token")
	}

	// REPORTS_DIR (default: current directory)
	reportsDir := strings.TrimSpace(os.Getenv("REPORTS_DIR"))
	if reportsDir == "" {
		reportsDir = "."
	}

	// CHAT_KEEP_SESSION (default: true). Set to 0 to start a fresh chat
	// session on every message
	chatKeepSession := true
	if os.Getenv("CHAT_KEEP_SESSION") != "" {
		chatKeepSession = parseBoolEnv("CHAT_KEEP_SESSION")
	}

	return &Config{
		Env:      env,
		LogLevel: logLevel,

		APIBaseURL:  baseURL,
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		CacheTTL: time.Duration(cacheTTLSeconds) * time.Second,

		TokenPath: tokenPath,

		ReportsDir: reportsDir,

		ChatKeepSession: chatKeepSession,
	}
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
