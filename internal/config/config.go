// Package config loads the crudgen command configuration from the
// .crudgen.yaml file, CRUDGEN_ environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/syssam/crudgen/dialect"
)

// Configuration keys.
const (
	KeySchema        = "schema"
	KeyOut           = "out"
	KeyPackage       = "package"
	KeyDialect       = "dialect"
	KeyDriver        = "driver"
	KeyDSN           = "dsn"
	KeySlowThreshold = "slow_threshold"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// EnvPrefix prefixes the environment variables of every key, e.g.
// CRUDGEN_LOG_LEVEL for log.level.
const EnvPrefix = "CRUDGEN"

// Config holds the command configuration.
type Config struct {
	// Schema is the path of the schema file.
	Schema string `mapstructure:"schema"`
	// Out is the output directory of generated code.
	Out string `mapstructure:"out"`
	// Package is the generated package name, the base name of Out when empty.
	Package string `mapstructure:"package"`
	// Dialect is the SQL dialect of the database.
	Dialect string `mapstructure:"dialect"`
	// Driver is the database/sql driver name, derived from Dialect when empty.
	Driver string `mapstructure:"driver"`
	// DSN is the data source name of the database.
	DSN string `mapstructure:"dsn"`
	// SlowThreshold is the duration above which queries are logged as slow.
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	Log           Log           `mapstructure:"log"`
}

// Log holds the logger configuration.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// drivers maps the supported driver names to their dialect.
var drivers = map[string]string{
	"postgres": dialect.Postgres,
	"pgx":      dialect.Postgres,
	"mysql":    dialect.MySQL,
	"sqlite":   dialect.SQLite,
}

// New returns a viper instance with the defaults and the environment
// bindings of every key.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".crudgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySchema, "crudgen.yaml")
	v.SetDefault(KeyOut, "./entity")
	v.SetDefault(KeyPackage, "")
	v.SetDefault(KeyDialect, dialect.Postgres)
	v.SetDefault(KeyDriver, "")
	v.SetDefault(KeyDSN, "")
	v.SetDefault(KeySlowThreshold, 200*time.Millisecond)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	return v
}

// Load reads .env and .env.local from fs into the process environment,
// then the config file, and returns the validated configuration. A
// missing config file is not an error. Variables already set in the
// environment win over .env; .env.local overrides both.
func Load(v *viper.Viper, fs afero.Fs) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := loadEnv(fs, ".env", false); err != nil {
		return nil, err
	}
	if err := loadEnv(fs, ".env.local", true); err != nil {
		return nil, err
	}
	v.SetFs(fs)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadEnv(fs afero.Fs, name string, overload bool) error {
	f, err := fs.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	for k, val := range env {
		if _, ok := os.LookupEnv(k); ok && !overload {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the dialect and driver and fills the driver default.
func (c *Config) Validate() error {
	if !dialect.Valid(c.Dialect) {
		return fmt.Errorf("config: unsupported dialect %q", c.Dialect)
	}
	if c.Driver == "" {
		c.Driver = c.Dialect
	}
	d, ok := drivers[c.Driver]
	switch {
	case !ok:
		return fmt.Errorf("config: unsupported driver %q", c.Driver)
	case d != c.Dialect:
		return fmt.Errorf("config: driver %q does not serve dialect %q", c.Driver, c.Dialect)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported log format %q", c.Log.Format)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}

// Logger returns a logger writing to w in the configured format and level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
