package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vidysea/notes/internal/client"
)

// Config holds all configuration for the web frontend
type Config struct {
	// Backend Configuration
	API APIConfig

	// HTTP Configuration
	HTTP HTTPConfig

	// Database Configuration
	Database DatabaseConfig

	// Browser Session Configuration
	Sessions SessionsConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the notes backend configuration
type APIConfig struct {
	URL string
}

// HTTPConfig holds listener and browser-facing settings
type HTTPConfig struct {
	ListenAddr   string
	CookieSecure bool     // mark the session cookie Secure (HTTPS deployments)
	CORSOrigins  []string // empty disables CORS
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// SessionsConfig holds browser session lifetime settings
type SessionsConfig struct {
	MaxAge        time.Duration // cookie lifetime and purge threshold
	SweepSchedule string        // cron expression for purging expired sessions
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := strings.TrimRight(os.Getenv("NOTES_API_URL"), "/")
	if apiURL == "" {
		apiURL = client.DefaultBaseURL
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	// Session database - a local SQLite file by default
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "notes-web.sqlite"
	}

	cookieSecure := false
	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE %q: %w", raw, err)
		}
		cookieSecure = v
	}

	var corsOrigins []string
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsOrigins = append(corsOrigins, origin)
		}
	}

	maxAge := 7 * 24 * time.Hour
	if raw := os.Getenv("SESSION_MAX_AGE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_MAX_AGE %q: must be a positive duration", raw)
		}
		maxAge = d
	}

	sweepSchedule := os.Getenv("SESSION_SWEEP_SCHEDULE")
	if sweepSchedule == "" {
		sweepSchedule = "0 * * * *"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		API: APIConfig{
			URL: apiURL,
		},
		HTTP: HTTPConfig{
			ListenAddr:   listenAddr,
			CookieSecure: cookieSecure,
			CORSOrigins:  corsOrigins,
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Sessions: SessionsConfig{
			MaxAge:        maxAge,
			SweepSchedule: sweepSchedule,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
