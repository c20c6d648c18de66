package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default account service endpoint; %s is replaced by the player fingerprint.
const DefaultAccountServiceURL = "https://forum.openra.net/openra/info/%s"

// AccountServiceOff disables account lookups; only cached accounts resolve.
const AccountServiceOff = "off"

type Config struct {
	DBPath            string
	Ranking           string
	Period            string
	Start             string
	End               string
	BansFile          string
	LogLevel          string
	LockTimeout       time.Duration
	AccountServiceURL string
	AccountTimeout    time.Duration
	ParseWorkers      int
	ResultPaths       []string

	// Season batch only.
	OutputDir  string
	Prefix     string
	Mod        string
	Year       int
	StartMonth int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid. Command line flags
// are layered on top by the commands.
func Load() Config {
	// Ignore error so the tools still run when .env is absent.
	_ = godotenv.Load()

	return Config{
		DBPath:            envOr("DB_PATH", "db.sqlite3"),
		Ranking:           envOr("RANKING", "elo"),
		Period:            envOr("PERIOD", ""),
		BansFile:          envOr("BANS_FILE", ""),
		LogLevel:          envOr("LOG_LEVEL", "WARNING"),
		LockTimeout:       envDurationOr("LOCK_TIMEOUT", time.Second),
		AccountServiceURL: envOr("ACCOUNT_SERVICE_URL", DefaultAccountServiceURL),
		AccountTimeout:    envDurationOr("ACCOUNT_TIMEOUT", 15*time.Second),
		ParseWorkers:      envIntOr("PARSE_WORKERS", 4),
		OutputDir:         envOr("OUTPUT_DIR", "."),
		Prefix:            envOr("DB_PREFIX", "db"),
		Mod:               envOr("MOD", "hv"),
		Year:              envIntOr("YEAR", time.Now().Year()),
		StartMonth:        envIntOr("START_MONTH", 1),
	}
}

// Validate checks the values shared by both commands.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Ranking == "" {
		return fmt.Errorf("RANKING cannot be empty")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive, got %s", c.LockTimeout)
	}
	if !c.Offline() && !strings.Contains(c.AccountServiceURL, "%s") {
		return fmt.Errorf("ACCOUNT_SERVICE_URL must contain %%s for the fingerprint, got %q", c.AccountServiceURL)
	}
	if c.ParseWorkers < 1 {
		return fmt.Errorf("PARSE_WORKERS must be at least 1, got %d", c.ParseWorkers)
	}
	return nil
}

// Offline reports whether account lookups are disabled.
func (c Config) Offline() bool {
	return c.AccountServiceURL == "" || c.AccountServiceURL == AccountServiceOff
}

// ValidateSeasons checks the season batch parameters.
func (c Config) ValidateSeasons() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.StartMonth < 1 || c.StartMonth > 12 {
		return fmt.Errorf("START_MONTH must be between 1 and 12, got %d", c.StartMonth)
	}
	if c.Year < 1990 {
		return fmt.Errorf("YEAR must be 1990 or later, got %d", c.Year)
	}
	if c.Mod == "" {
		return fmt.Errorf("MOD cannot be empty")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
