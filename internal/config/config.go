// Package config loads settings from flags, MYINVOIS_* environment
// variables, an optional .env file and an optional myinvois.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MYINVOIS_CLIENT_ID
const EnvPrefix = "MYINVOIS"

// Config holds all settings
type Config struct {
	Environment  string        `mapstructure:"environment"`
	BaseURL      string        `mapstructure:"base_url"`
	IdentityURL  string        `mapstructure:"identity_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	OnBehalfOf   string        `mapstructure:"on_behalf_of"`
	LogLevel     string        `mapstructure:"log_level"`
	Timeout      time.Duration `mapstructure:"timeout"`

	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Debug        bool          `mapstructure:"debug"`
}

// RedisConfig enables the shared token cache when Addr is set
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("environment", "sandbox")
	v.SetDefault("base_url", "")
	v.SetDefault("identity_url", "")
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("on_behalf_of", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.debug", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads .env, the config file (cfgFile, or myinvois.yaml in the
// working or user config directory) and the environment into a Config.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("myinvois")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/myinvois")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings every command needs
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Environment) {
	case "sandbox", "production":
	default:
		errs = append(errs, fmt.Errorf("environment: %q is not sandbox or production", c.Environment))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db: must not be negative, got %d", c.Redis.DB))
	}

	return errors.Join(errs...)
}

// ValidateCredentials checks the settings API commands need
func (c *Config) ValidateCredentials() error {
	if err := c.Validate(); err != nil {
		return err
	}

	var errs []error
	if c.ClientID == "" {
		errs = append(errs, fmt.Errorf("client_id: required (set %s_CLIENT_ID)", EnvPrefix))
	}
	if c.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("client_secret: required (set %s_CLIENT_SECRET)", EnvPrefix))
	}
	return errors.Join(errs...)
}
