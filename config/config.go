// Package config loads gamegraph settings from defaults, an optional config
// file and GAMEGRAPH_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"gamegraph/graphdb"
)

// EnvPrefix is prepended to every environment variable, e.g. GAMEGRAPH_DATA_PATH
const EnvPrefix = "GAMEGRAPH"

// Config is the full application configuration
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Log       LogConfig       `mapstructure:"log"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Display   DisplayConfig   `mapstructure:"display"`
	Server    ServerConfig    `mapstructure:"server"`
}

// DataConfig locates the game catalog
type DataConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// RecommendConfig holds query defaults
type RecommendConfig struct {
	Limit int      `mapstructure:"limit" validate:"min=1"`
	Kinds []string `mapstructure:"kinds"`
}

// DisplayConfig selects the terminal rendering
type DisplayConfig struct {
	Format string `mapstructure:"format" validate:"oneof=table text"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "datasets/steam.csv")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("recommend.limit", graphdb.DefaultLimit)
	v.SetDefault("recommend.kinds", []string{"category", "genre", "tag", "developer"})

	v.SetDefault("display.format", "table")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
}

// New builds a viper instance with defaults and environment bindings. When
// configFile is not empty it is read as well; its type follows the extension.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := graphdb.ValidateStruct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if _, err := cfg.Recommend.KindSet(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// KindSet returns the configured default kinds. An empty list means every
// attribute kind.
func (c RecommendConfig) KindSet() (graphdb.KindSet, error) {
	return graphdb.ResolveKinds(c.Kinds, graphdb.AttributeKinds)
}

// Options converts the recommendation defaults for a GameDB
func (c *Config) Options() graphdb.Options {
	kinds, _ := c.Recommend.KindSet()
	return graphdb.Options{
		DefaultLimit: c.Recommend.Limit,
		DefaultKinds: kinds,
	}
}

// ConfigureLogging applies the level and formatter to logger
func ConfigureLogging(logger *logrus.Logger, c LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.Level)
	}
	logger.SetLevel(level)

	switch c.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
