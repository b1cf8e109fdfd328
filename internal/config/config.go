// Package config assembles runtime settings from an optional .env file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// DSN assembles a lib/pq connection URL.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.DB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Config struct {
	Addr         string
	Store        string
	Postgres     Postgres
	DatabaseURL  string
	SQLitePath   string
	RosterFile   string
	Quorum       int
	Timezone     string
	Location     *time.Location
	StoreTimeout time.Duration
	JWTSecret    string
	TokenTTL     time.Duration
	CookieDomain string
	CookieSecure bool
	LogLevel     string
	LogFormat    string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// PostgresDSN prefers DATABASE_URL over the assembled POSTGRES_* settings.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.Postgres.DSN()
}

// Load registers the shared flags on fset, parses args and validates the
// result. Callers may register their own flags on fset beforehand.
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	c := &Config{EnvFileLoaded: true}
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		c.EnvFileLoaded = false
	}

	var envErrs []error
	quorum, err := envInt("QUORUM_THRESHOLD", 5)
	envErrs = append(envErrs, err)
	storeTimeout, err := envDuration("STORE_TIMEOUT", 5*time.Second)
	envErrs = append(envErrs, err)
	tokenTTL, err := envDuration("TOKEN_TTL", 30*time.Minute)
	envErrs = append(envErrs, err)
	cookieSecure, err := envBool("COOKIE_SECURE", false)
	envErrs = append(envErrs, err)
	if err := errors.Join(envErrs...); err != nil {
		return nil, err
	}

	fset.StringVar(&c.Addr, "addr", envOr("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fset.StringVar(&c.Store, "store", envOr("STORE", StorePostgres), "vote store: postgres, sqlite or memory")
	fset.StringVar(&c.Postgres.Host, "db-host", envOr("POSTGRES_HOST", "localhost"), "Database host")
	fset.StringVar(&c.Postgres.Port, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fset.StringVar(&c.Postgres.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fset.StringVar(&c.Postgres.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fset.StringVar(&c.Postgres.DB, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fset.StringVar(&c.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection URL, overrides -db-*")
	fset.StringVar(&c.SQLitePath, "sqlite-path", envOr("SQLITE_PATH", "queridometro.db"), "SQLite database file")
	fset.StringVar(&c.RosterFile, "roster", os.Getenv("ROSTER_FILE"), "roster YAML file, built-in roster when empty")
	fset.IntVar(&c.Quorum, "quorum", quorum, "distinct voters required before results are disclosed")
	fset.StringVar(&c.Timezone, "tz", envOr("TIMEZONE", "UTC"), "IANA timezone that defines the voting day")
	fset.DurationVar(&c.StoreTimeout, "store-timeout", storeTimeout, "bound on each store call")
	fset.DurationVar(&c.TokenTTL, "token-ttl", tokenTTL, "session token lifetime")
	fset.StringVar(&c.CookieDomain, "cookie-domain", os.Getenv("COOKIE_DOMAIN"), "domain of the session cookie")
	fset.BoolVar(&c.CookieSecure, "cookie-secure", cookieSecure, "mark the session cookie Secure (enable behind HTTPS)")
	fset.StringVar(&c.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "debug, info, warn or error")
	fset.StringVar(&c.LogFormat, "log-format", envOr("LOG_FORMAT", "text"), "text or json")
	c.JWTSecret = os.Getenv("JWT_SECRET")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.Store {
	case StorePostgres, StoreSQLite, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if c.Store == StoreSQLite && c.SQLitePath == "" {
		errs = append(errs, errors.New("sqlite store needs a database path"))
	}
	if c.Quorum < 1 {
		errs = append(errs, fmt.Errorf("quorum threshold must be at least 1, got %d", c.Quorum))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	c.Location = loc

	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
