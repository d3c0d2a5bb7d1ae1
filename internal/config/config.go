package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration shared by the devboard binaries. Each
// field corresponds to an environment variable. The JWT secret and token TTL
// are deliberately read from the same variables in every service: a token
// minted by the API server must verify identically at the gateway and the
// notifier, and the only thing they share is this configuration.
type Config struct {
	Env         string // application environment (dev/test/prod)
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // shared secret used to sign and verify tokens
	TokenTTLMin int    // access token time-to-live in minutes (one value for all services)
	BcryptCost  int    // bcrypt cost for password hashing
	RabbitURL   string // AMQP broker URL for domain events
	GithubToken string // static token injected by the gateway toward the GitHub upstream
	ServerURL   string // gateway only: upstream URL of the core API server
	NotifierURL string // gateway only: upstream URL of the notification service
}

// Load reads the core API server configuration. Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message. A .env file in the working directory is honoured when
// present so local development matches the deployed environment shape.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLMin: intOr("TOKEN_TTL_MIN", 60),
		BcryptCost:  intOr("BCRYPT_COST", 12),
		RabbitURL:   os.Getenv("RABBITMQ_URL"),
	}
	checkSecret(cfg.JWTSecret)
	return cfg
}

// LoadGateway reads the gateway configuration. The gateway holds no database
// connection; it needs the shared secret for token validation, the upstream
// addresses it proxies to, and the static GitHub integration token.
func LoadGateway() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		JWTSecret:   must("JWT_SECRET"),
		GithubToken: os.Getenv("GITHUB_TOKEN"),
		ServerURL:   must("SERVER_URL"),
		NotifierURL: must("NOTIFIER_URL"),
	}
	checkSecret(cfg.JWTSecret)
	return cfg
}

// LoadNotifier reads the notification service configuration.
func LoadNotifier() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),
		RabbitURL: os.Getenv("RABBITMQ_URL"),
	}
	checkSecret(cfg.JWTSecret)
	return cfg
}

// checkSecret enforces the minimum secret length at startup rather than at
// first use. A short HMAC secret weakens every token in the system, so a
// misconfigured service must not come up at all.
func checkSecret(secret string) {
	if len(secret) < 32 {
		log.Fatalf("JWT_SECRET must be at least 32 bytes, got %d", len(secret))
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

// intOr retrieves an integer environment variable, falling back to a default
// when unset. Invalid values are fatal.
func intOr(key string, def int) int {
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
