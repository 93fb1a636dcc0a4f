package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Schedule data comes either from the seed JSON
// file (dev/test) or from the schedule database; the DB_* variables are only
// required for the latter.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	ScheduleSource string        // "seed" or "db"
	SeedPath       string        // path to the train seed JSON when source is "seed"
	DBUser         string        // schedule database username
	DBPass         string        // schedule database password (optional)
	DBHost         string        // schedule database host address
	DBPort         string        // schedule database port number
	DBName         string        // schedule database name
	PaymentTTL     time.Duration // how long an unpaid order holds its seats
	ExpirySweep    time.Duration // how often the expiry worker sweeps unpaid orders
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		ScheduleSource: getenv("SCHEDULE_SOURCE", "seed"),
		SeedPath:       getenv("SCHEDULE_SEED", "data/trains.json"),
		PaymentTTL:     time.Duration(envInt("PAYMENT_TTL_MIN", 20)) * time.Minute,
		ExpirySweep:    time.Duration(envInt("EXPIRY_SWEEP_SEC", 30)) * time.Second,
	}
	if cfg.ScheduleSource == "db" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("var", key).Msg("missing required env var")
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an integer variable, falling back to the default on absence
// or parse failure.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
