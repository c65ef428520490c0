// Package config loads the describe tool configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tender-barbarian/go-describe/internal/gen"
)

// EnvPrefix prefixes every environment variable the configuration reads,
// e.g. DESCRIBE_ROOT or DESCRIBE_SERVER_NAME.
const EnvPrefix = "DESCRIBE"

// Config represents the describe configuration
type Config struct {
	Root        string       `mapstructure:"root"`
	Output      string       `mapstructure:"output"`
	LogLevel    string       `mapstructure:"log_level"`
	Development bool         `mapstructure:"development"`
	Server      ServerConfig `mapstructure:"server"`
}

// ServerConfig represents the MCP server identity
type ServerConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Load reads describe.yaml (or describe.yml) from the working directory, or
// file when it is not empty, and overlays DESCRIBE_* environment variables.
// A missing describe.yaml is not an error; a missing explicit file is.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("root", ".")
	v.SetDefault("output", gen.DefaultOutput)
	v.SetDefault("log_level", "info")
	v.SetDefault("development", false)
	v.SetDefault("server.name", "go-describe")
	v.SetDefault("server.version", "0.1.0")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("describe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("root must not be empty")
	}
	if c.Output != filepath.Base(c.Output) || filepath.Ext(c.Output) != ".go" {
		return fmt.Errorf("output must be a .go file name without directories, got: %q", c.Output)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Server.Name == "" {
		return errors.New("server.name must not be empty")
	}
	return nil
}

// Logger builds a zap logger writing to stderr at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func parseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
