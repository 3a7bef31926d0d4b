package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env             string
	ListenAddr      string
	AreasPath       string
	DataPath        string
	IssuesPath      string
	ConcessionsPath string
	CurrentPath     string
	StoreDriver     string
	DatabaseURL     string
	SQLitePath      string
	LogLevel        string
	Debug           bool
	MaxConnections  int
	HTTPTimeout     time.Duration
	RetryMax        int
}

// SetDefaults registers every key with its default and enables environment
// lookup (key "config_path" reads CONFIG_PATH).
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", 5000)
	v.SetDefault("listen_addr", "")
	v.SetDefault("config_path", "./config/areas.json")
	v.SetDefault("data_path", "./data/threats.json")
	v.SetDefault("issues_path", "./data/issues.json")
	v.SetDefault("concessions_path", "./data/concessions.json")
	v.SetDefault("current_path", "./data/current.json")
	v.SetDefault("store_driver", DriverFile)
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "./data/threats.sqlite")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("max_connections", 0)
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("http_retry_max", 3)
	v.AutomaticEnv()
}

// LoadDotEnv reads .env files into the process environment. Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load resolves the configuration from v. A returned error with a usable
// Config means a soft problem the caller may log; validation failures are
// reported through Validate.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:            v.GetString("app_env"),
		ListenAddr:     v.GetString("listen_addr"),
		StoreDriver:    strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
		DatabaseURL:    v.GetString("database_url"),
		LogLevel:       v.GetString("log_level"),
		Debug:          v.GetBool("debug"),
		MaxConnections: v.GetInt("max_connections"),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		RetryMax:       v.GetInt("http_retry_max"),
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%d", v.GetInt("port"))
	}

	var errs []error
	expand := func(key string) string {
		raw := v.GetString(key)
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
			return raw
		}
		p, err := homedir.Expand(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return raw
		}
		return p
	}
	cfg.AreasPath = expand("config_path")
	cfg.DataPath = expand("data_path")
	cfg.IssuesPath = expand("issues_path")
	cfg.ConcessionsPath = expand("concessions_path")
	cfg.CurrentPath = expand("current_path")
	cfg.SQLitePath = expand("sqlite_path")
	return cfg, errors.Join(errs...)
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", c.StoreDriver, DriverFile, DriverPostgres, DriverSQLite)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("MAX_CONNECTIONS must not be negative")
	}
	return nil
}
