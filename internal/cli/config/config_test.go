package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.String("username", "", "")
	flags.Bool("verify-tls", false, "")
	flags.Duration("timeout", defaultTimeout, "")
	flags.String("log-level", "warn", "")
	flags.String("log-format", "text", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, "", cfg.APIURL)
	assert.False(t, cfg.VerifyTLS)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Error(t, cfg.RequireAPIURL())
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("CORRINO_API_URL", "https://env.example.com/")
	t.Setenv("CORRINO_USERNAME", "env-user")
	t.Setenv("CORRINO_LOG_LEVEL", "debug")

	t.Run("environment over defaults", func(t *testing.T) {
		cfg, err := Load(newFlagSet())
		require.NoError(t, err)

		assert.Equal(t, "https://env.example.com", cfg.APIURL)
		assert.Equal(t, "env-user", cfg.Username)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.NoError(t, cfg.RequireAPIURL())
	})

	t.Run("flags over environment", func(t *testing.T) {
		flags := newFlagSet()
		require.NoError(t, flags.Parse([]string{
			"--api-url", "https://flag.example.com",
			"--username", "flag-user",
			"--verify-tls",
			"--timeout", "5s",
		}))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, "https://flag.example.com", cfg.APIURL)
		assert.Equal(t, "flag-user", cfg.Username)
		assert.True(t, cfg.VerifyTLS)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "unknown log level",
			args:        []string{"--log-level", "loud"},
			errContains: "invalid log level",
		},
		{
			name:        "unknown log format",
			args:        []string{"--log-format", "xml"},
			errContains: "invalid log format",
		},
		{
			name:        "zero timeout",
			args:        []string{"--timeout", "0s"},
			errContains: "invalid timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlagSet()
			require.NoError(t, flags.Parse(tt.args))

			_, err := Load(flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
