package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CONSOLE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading; variables
// already set in the environment win over both files.
func Load() error {
	envFile := os.Getenv("CONSOLE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// APIURL is the base URL of the remote SUMP API, read once at startup.
func APIURL() string {
	u := os.Getenv("API_URL")
	if u == "" {
		return apiclient.DefaultBaseURL
	}
	return u
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 3000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL enables Postgres-backed tenant ids when set.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// IdentityDir keeps tenant ids as files when set and DATABASE_URL is not.
func IdentityDir() string {
	return os.Getenv("IDENTITY_DIR")
}

// WorkspaceIdleTTL is how long an unused browser workspace is kept.
// Defaults to 24h if not set or invalid.
func WorkspaceIdleTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("WORKSPACE_IDLE_TTL"))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// CookieSecure marks the device cookie Secure. Defaults to false.
func CookieSecure() bool {
	v, err := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	return err == nil && v
}

// RateLimitRPS returns the per-browser limit for login and tenant creation.
// Defaults to 10 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 10
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
