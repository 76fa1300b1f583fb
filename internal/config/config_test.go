package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "APP_ENV", "PORT", "LISTEN_ADDR", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
		"DATABASE_URL", "DB_DSN", "FIRESTORE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"STORE_DRIVER", "AUTO_MIGRATE", "AUTH_MODE", "JWT_SECRET", "IDENTITY_URL", "IDENTITY_API_KEY",
		"ORACLE_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "ORACLE_MODEL",
		"ORACLE_TIMEOUT", "MATCH_CONCURRENCY", "MATCH_MAX_CANDIDATES", "SWAGGER_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWithoutStoreAreDegraded(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.ErrorIs(t, err, ErrNoStore)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, AuthDev, cfg.Auth.Mode)
	assert.Equal(t, 4, cfg.Match.Concurrency)
	assert.Equal(t, 50, cfg.Match.MaxCandidates)
	assert.Equal(t, 15*time.Second, cfg.Oracle.Timeout)
}

func TestLoad_DatabaseURLImpliesPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_YAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "regresa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: memory
oracle:
  provider: gemini
  model: gemini-2.5-flash
  timeout: 7s
matching:
  concurrency: 2
  max_candidates: 10
`), 0o600))

	t.Setenv("GEMINI_API_KEY", "k-1")
	t.Setenv("MATCH_CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, OracleGemini, cfg.Oracle.Provider)
	assert.Equal(t, "k-1", cfg.Oracle.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 7*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 8, cfg.Match.Concurrency)
	assert.Equal(t, 10, cfg.Match.MaxCandidates)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"postgres without dsn":  func(c *Config) { c.Store.Driver = DriverPostgres },
		"firestore w/o project": func(c *Config) { c.Store.Driver = DriverFirestore },
		"unknown driver":        func(c *Config) { c.Store.Driver = "mongo" },
		"jwt without secret":    func(c *Config) { c.Auth.Mode = AuthJWT },
		"identity without url":  func(c *Config) { c.Auth.Mode = AuthIdentity },
		"unknown oracle":        func(c *Config) { c.Oracle.Provider = "claude" },
		"zero concurrency":      func(c *Config) { c.Match.Concurrency = 0 },
		"zero candidate cap":    func(c *Config) { c.Match.MaxCandidates = 0 },
		"unknown auth mode":     func(c *Config) { c.Auth.Mode = "saml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
