package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

func newFlagSet() *flag.FlagSet {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	return fset
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", c.Addr)
	assert.Equal(t, StorePostgres, c.Store)
	assert.Equal(t, 5, c.Quorum)
	assert.Equal(t, time.UTC, c.Location)
	assert.Equal(t, 5*time.Second, c.StoreTimeout)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
	assert.False(t, c.CookieSecure)
	assert.False(t, c.EnvFileLoaded)
}

func TestLoad_EnvironmentThenFlags(t *testing.T) {
	t.Setenv("STORE", "sqlite")
	t.Setenv("QUORUM_THRESHOLD", "3")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("COOKIE_SECURE", "true")

	c, err := Load(newFlagSet(), []string{"-quorum", "7", "-sqlite-path", "/tmp/votes.db"})
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, c.Store)
	assert.Equal(t, 7, c.Quorum)
	assert.Equal(t, "/tmp/votes.db", c.SQLitePath)
	assert.Equal(t, "America/Sao_Paulo", c.Location.String())
	assert.Equal(t, 2*time.Second, c.StoreTimeout)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.True(t, c.CookieSecure)
}

func TestLoad_ExtraFlags(t *testing.T) {
	fset := newFlagSet()
	day := fset.String("day", "", "")

	_, err := Load(fset, []string{"-store", "memory", "-day", "2026-10-16"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", *day)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][]string{
		"unknown store": {"-store", "redis"},
		"zero quorum":   {"-quorum", "0"},
		"bad timezone":  {"-tz", "Mars/Olympus"},
		"bad level":     {"-log-level", "loud"},
		"bad format":    {"-log-format", "xml"},
		"bad timeout":   {"-store-timeout", "0s"},
		"unknown flag":  {"-nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(newFlagSet(), args)
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("QUORUM_THRESHOLD", "five")

	_, err := Load(newFlagSet(), nil)
	assert.ErrorContains(t, err, "QUORUM_THRESHOLD")
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{Postgres: Postgres{Host: "db", Port: "5432", User: "queridometro", Password: "p@ss", DB: "votes"}}
	assert.Equal(t, "postgres://queridometro:p%40ss@db:5432/votes?sslmode=disable", c.PostgresDSN())

	c.DatabaseURL = "postgres://other/db"
	assert.Equal(t, "postgres://other/db", c.PostgresDSN())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := c.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "day", "2026-10-16")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"day":"2026-10-16"`)
}

func TestLoadRoster_Default(t *testing.T) {
	roster, err := LoadRoster("")
	require.NoError(t, err)

	people := roster.People()
	assert.Len(t, people, 14)
	assert.Equal(t, domain.Person("Augusto"), people[0])
	assert.Equal(t, domain.Person("Vini"), people[13])
	assert.Len(t, roster.Emojis(), 10)

	p, ok := roster.Match("joão")
	assert.True(t, ok)
	assert.Equal(t, domain.Person("Joao"), p)
}

func TestLoadRoster_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("people: [Bea, Ana]\nemojis: [\"🐍\"]\n"), 0o600))

	roster, err := LoadRoster(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ana", "Bea"}, roster.People())
}

func TestLoadRoster_Errors(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseRoster([]byte("people: [João, joao]\nemojis: [x]\n"))
	assert.ErrorIs(t, err, domain.ErrAmbiguousRoster)

	_, err = ParseRoster([]byte("people: [\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidRoster)
}
