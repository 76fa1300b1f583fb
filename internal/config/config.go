package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Drivers de almacenamiento soportados. Vacío = sin store configurado (modo degradado).
const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Modos de autenticación.
const (
	AuthDev      = "dev"      // X-Debug-User-ID, sin verificación
	AuthJWT      = "jwt"      // Bearer HS256 firmado con JWTSecret
	AuthIdentity = "identity" // Bearer verificado contra el proveedor remoto
)

// Proveedores del oráculo de similitud.
const (
	OracleNone   = ""
	OracleGemini = "gemini"
	OracleOpenAI = "openai"
)

var ErrNoStore = errors.New("config: no store configured, running degraded")

type Config struct {
	Env string `yaml:"env"`

	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Match   MatchConfig   `yaml:"matching"`
	Swagger SwaggerConfig `yaml:"swagger"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	FirestoreProject     string `yaml:"firestore_project"`
	FirestoreCredentials string `yaml:"firestore_credentials"`
}

type AuthConfig struct {
	Mode        string `yaml:"mode"`
	JWTSecret   string `yaml:"jwt_secret"`
	IdentityURL string `yaml:"identity_url"`
	IdentityKey string `yaml:"identity_api_key"`
}

type OracleConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MatchConfig struct {
	Concurrency   int `yaml:"concurrency"`
	MaxCandidates int `yaml:"max_candidates"`
}

type SwaggerConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "regresa",
		},
		Store: StoreConfig{
			AutoMigrate: true,
		},
		Auth: AuthConfig{
			Mode: AuthDev,
		},
		Oracle: OracleConfig{
			Timeout: 15 * time.Second,
		},
		Match: MatchConfig{
			Concurrency:   4,
			MaxCandidates: 50,
		},
		Swagger: SwaggerConfig{
			Enabled: true,
		},
	}
}

// Load arma la config: defaults -> archivo YAML (opcional) -> env.
// Si no hay store configurado devuelve la config junto con ErrNoStore;
// el caller decide (el server arranca degradado).
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Store.Driver == "" {
		return cfg, ErrNoStore
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "", DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("config: store.dsn is required for postgres")
		}
	case DriverFirestore:
		if c.Store.FirestoreProject == "" {
			return errors.New("config: store.firestore_project is required for firestore")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("config: auth.jwt_secret is required for jwt mode")
		}
	case AuthIdentity:
		if c.Auth.IdentityURL == "" {
			return errors.New("config: auth.identity_url is required for identity mode")
		}
	default:
		return fmt.Errorf("config: unknown auth mode %q", c.Auth.Mode)
	}

	switch c.Oracle.Provider {
	case OracleNone, OracleGemini, OracleOpenAI:
	default:
		return fmt.Errorf("config: unknown oracle provider %q", c.Oracle.Provider)
	}

	if c.Match.Concurrency < 1 {
		return errors.New("config: matching.concurrency must be >= 1")
	}
	if c.Match.MaxCandidates < 1 {
		return errors.New("config: matching.max_candidates must be >= 1")
	}
	return nil
}

func applyEnv(c *Config) {
	c.Env = getenv("APP_ENV", c.Env)

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	c.Server.Addr = getenv("LISTEN_ADDR", c.Server.Addr)

	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("LOG_FORMAT", c.Log.Format)
	c.Log.App = getenv("APP_NAME", c.Log.App)

	// DATABASE_URL / DB_DSN implican postgres salvo que STORE_DRIVER diga otra cosa.
	dsn := getenv("DATABASE_URL", getenv("DB_DSN", ""))
	if dsn != "" {
		c.Store.DSN = dsn
		if c.Store.Driver == "" {
			c.Store.Driver = DriverPostgres
		}
	}
	c.Store.FirestoreProject = getenv("FIRESTORE_PROJECT_ID", c.Store.FirestoreProject)
	c.Store.FirestoreCredentials = getenv("GOOGLE_APPLICATION_CREDENTIALS", c.Store.FirestoreCredentials)
	c.Store.Driver = strings.ToLower(getenv("STORE_DRIVER", c.Store.Driver))
	c.Store.AutoMigrate = getenvBool("AUTO_MIGRATE", c.Store.AutoMigrate)

	c.Auth.Mode = strings.ToLower(getenv("AUTH_MODE", c.Auth.Mode))
	c.Auth.JWTSecret = getenv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.IdentityURL = getenv("IDENTITY_URL", c.Auth.IdentityURL)
	c.Auth.IdentityKey = getenv("IDENTITY_API_KEY", c.Auth.IdentityKey)

	c.Oracle.Provider = strings.ToLower(getenv("ORACLE_PROVIDER", c.Oracle.Provider))
	switch c.Oracle.Provider {
	case OracleGemini:
		c.Oracle.APIKey = getenv("GEMINI_API_KEY", c.Oracle.APIKey)
	case OracleOpenAI:
		c.Oracle.APIKey = getenv("OPENAI_API_KEY", c.Oracle.APIKey)
		c.Oracle.BaseURL = getenv("OPENAI_BASE_URL", c.Oracle.BaseURL)
	}
	c.Oracle.Model = getenv("ORACLE_MODEL", c.Oracle.Model)
	c.Oracle.Timeout = getenvDuration("ORACLE_TIMEOUT", c.Oracle.Timeout)

	c.Match.Concurrency = getenvInt("MATCH_CONCURRENCY", c.Match.Concurrency)
	c.Match.MaxCandidates = getenvInt("MATCH_MAX_CANDIDATES", c.Match.MaxCandidates)

	c.Swagger.Enabled = getenvBool("SWAGGER_ENABLED", c.Swagger.Enabled)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
