package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AdapterPostgres = "postgres"
	AdapterSQLite   = "sqlite"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	DBAdapter        string
	DatabaseURL      string
	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration
	DBQueryTimeout   time.Duration
	SQLiteFile       string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins       []string
	RateLimitRPM      int
	AuthRateLimitRPM  int
	AllowRegistration bool

	SeedUserName     string
	SeedUserEmail    string
	SeedUserPassword string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadStore reads the same environment as Load but only validates the database
// settings. Operational tools that never issue tokens use it.
func LoadStore() (*Config, error) {
	cfg := load()
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "5000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DBAdapter:               strings.ToLower(getEnv("DB_ADAPTER", AdapterPostgres)),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 0)),
		DBConnectTimeout:        getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBQueryTimeout:          getDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		SQLiteFile:              getEnv("SQLITE_FILE", "./data/candidates.db"),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:                  getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		AllowRegistration:       getBool("ALLOW_REGISTRATION", true),
		SeedUserName:            getEnv("SEED_USER_NAME", "Admin"),
		SeedUserEmail:           strings.TrimSpace(os.Getenv("SEED_USER_EMAIL")),
		SeedUserPassword:        os.Getenv("SEED_USER_PASSWORD"),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}

	if cfg.DBAdapter == AdapterPostgres && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = BuildPostgresDSN(
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "candidates"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	return cfg
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	// A store call must give up before the request deadline so it surfaces as UNAVAILABLE.
	if c.DBQueryTimeout >= c.RequestTimeout {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be less than REQUEST_TIMEOUT")
	}

	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func (c *Config) validateStore() error {
	if c.DBQueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive")
	}

	switch c.DBAdapter {
	case AdapterPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL cannot be empty")
		}
		if c.DBMaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
		}
	case AdapterSQLite:
		if strings.TrimSpace(c.SQLiteFile) == "" {
			return fmt.Errorf("SQLITE_FILE cannot be empty")
		}
	default:
		return fmt.Errorf("DB_ADAPTER must be %q or %q, got %q", AdapterPostgres, AdapterSQLite, c.DBAdapter)
	}

	return nil
}

// BuildPostgresDSN assembles a postgres:// URL from discrete connection settings.
func BuildPostgresDSN(host string, port string, user string, password string, name string, sslMode string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
