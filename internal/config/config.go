// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Durations govern the reservation protocol: the
// seat lock TTL bounds how long a crashed reservation attempt can block a
// seat, and the reservation window is how long a PENDING booking may stay
// unpaid before the expiry worker reclaims its seat.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	ReservationWindow time.Duration // PENDING booking lifetime (default 15m)
	SeatLockTTL       time.Duration // lock:seat:<id> TTL (default 5s)
	AvailableCacheTTL time.Duration // seats:available TTL (default 10s)
	ExpiryMaxAttempts int           // retry budget for expiry jobs
	ExpiryRetryDelay  time.Duration // delay between expiry job retries
	SweepInterval     time.Duration // reconciliation sweep period
}

// Load reads configuration from the environment, consulting a .env file
// first when one is present. Required variables are enforced by must();
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:    getenv("APP_ENV", "dev"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		ReservationWindow: getdur("RESERVATION_WINDOW", 15*time.Minute),
		SeatLockTTL:       getdur("SEAT_LOCK_TTL", 5*time.Second),
		AvailableCacheTTL: getdur("AVAILABLE_CACHE_TTL", 10*time.Second),
		ExpiryMaxAttempts: getint("EXPIRY_MAX_ATTEMPTS", 3),
		ExpiryRetryDelay:  getdur("EXPIRY_RETRY_DELAY", 5*time.Second),
		SweepInterval:     getdur("SWEEP_INTERVAL", time.Minute),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getdur(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}
