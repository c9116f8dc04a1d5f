// apps/go-server/internal/config/config.go
//
// Environment-driven configuration for the game server.
// `.env` is loaded first (development convenience); real environment
// variables always win.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port          string        // PORT
	LogLevel      string        // LOG_LEVEL: trace|debug|info|warn|error
	LogFormat     string        // LOG_FORMAT: json|console
	Store         string        // STORE: memory|sqlite
	DatabasePath  string        // DATABASE_PATH (sqlite store only)
	SessionSecret string        // SESSION_SECRET signs session cookies
	SessionTTL    time.Duration // SESSION_TTL_DAYS
	ClientOrigin  string        // CLIENT_ORIGIN for CORS
	Production    bool          // NODE_ENV=production → Secure cookies
}

// Load reads `.env` (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
		Store:         strings.ToLower(getEnv("STORE", "memory")),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/checkers.db"),
		SessionSecret: getEnv("SESSION_SECRET", "dev_secret_change_me"),
		SessionTTL:    time.Duration(envInt("SESSION_TTL_DAYS", 14)) * 24 * time.Hour,
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:    os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive int, falling back to def.
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}
