package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read by corrinoctl
	EnvPrefix = "CORRINO"

	defaultTimeout = 30 * time.Second
)

// Config stores the settings shared by every command of one invocation.
// It is resolved once in the root command and passed down by reference.
type Config struct {
	APIURL    string        `mapstructure:"api_url"`    // Deployment API base URL
	Username  string        `mapstructure:"username"`   // Optional username, password is never configured
	VerifyTLS bool          `mapstructure:"verify_tls"` // Certificate validation, disabled by default
	Timeout   time.Duration `mapstructure:"timeout"`    // Read/write timeout per API request
	Log       LogConfig     `mapstructure:"log"`
}

// LogConfig configures the diagnostic logger
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// flagKeys maps viper keys to the cobra flag names that feed them
var flagKeys = map[string]string{
	"api_url":    "api-url",
	"username":   "username",
	"verify_tls": "verify-tls",
	"timeout":    "timeout",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// Load resolves configuration from command-line flags and CORRINO_*
// environment variables. Flags win over the environment, which wins over
// defaults. No configuration file is read.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_url", "")
	v.SetDefault("username", "")
	v.SetDefault("verify_tls", false)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.add_source", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.Username = strings.TrimSpace(cfg.Username)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that do not depend on the command being run
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	return nil
}

// RequireAPIURL reports an error when no API URL was configured
func (c *Config) RequireAPIURL() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required (use --api-url or %s_API_URL)", EnvPrefix)
	}
	return nil
}
