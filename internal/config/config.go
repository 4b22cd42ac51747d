// ABOUTME: Configuration loader for the swaphub client
// ABOUTME: Loads settings from environment variables and an optional .env file

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL matches the backend's local development address
const DefaultAPIURL = "http://localhost:5000/api"

type Config struct {
	APIURL   string        // backend base URL including the /api prefix
	Timeout  time.Duration // per-request timeout
	LogLevel string        // debug, info, warn, error
}

// Load reads configuration with an optional .env file in the working
// directory. Real environment variables win over .env entries.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:   ensureScheme(getEnv("SWAPHUB_API_URL", DefaultAPIURL)),
		Timeout:  time.Duration(getEnvInt("SWAPHUB_TIMEOUT", 20)) * time.Second,
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv returns the environment variable or a default
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the environment variable parsed as int or a default
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ensureScheme prepends https:// when the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}
