// Package config loads settings for both binaries. Precedence, lowest first:
// the embedded defaults, an optional YAML file, HISAB_* environment variables.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed default.yaml
var defaultYAML []byte

// EnvPrefix prefixes every environment override, e.g. HISAB_JWT_SECRET.
const EnvPrefix = "HISAB"

// Config is the application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures cmd/server.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	DBPath      string `mapstructure:"db_path"`
	StaticPath  string `mapstructure:"static_path"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// JWTConfig configures token issuing.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// ClientConfig configures the device binary.
type ClientConfig struct {
	DataPath          string        `mapstructure:"data_path"`
	RemoteURL         string        `mapstructure:"remote_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	AnonymousFallback bool          `mapstructure:"anonymous_fallback"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration. configPath may be empty, in which case
// hisab.yaml is looked up in the working directory and in $HOME/.hisab.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		slog.Debug("Merged config file", "path", configPath)
	} else {
		external := viper.New()
		external.SetConfigName("hisab")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("$HOME/.hisab")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				return nil, fmt.Errorf("failed to merge config file: %w", err)
			}
			slog.Debug("Merged config file", "path", external.ConfigFileUsed())
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 720
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour
	cfg.Client.DataPath = os.ExpandEnv(cfg.Client.DataPath)
	cfg.Server.DBPath = os.ExpandEnv(cfg.Server.DBPath)

	if cfg.Client.Timeout <= 0 {
		return nil, fmt.Errorf("client.timeout must be positive, got %s", cfg.Client.Timeout)
	}
	return &cfg, nil
}

// ValidateServer checks the settings only the server needs.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required (set HISAB_JWT_SECRET)"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.DBPath == "" {
		errs = append(errs, errors.New("server.db_path is required"))
	}
	return errors.Join(errs...)
}

// ValidateClient checks the settings only the device binary needs.
func (c *Config) ValidateClient() error {
	var errs []error
	if c.Client.DataPath == "" {
		errs = append(errs, errors.New("client.data_path is required"))
	}
	if c.Client.RemoteURL == "" {
		errs = append(errs, errors.New("client.remote_url is required"))
	}
	return errors.Join(errs...)
}
