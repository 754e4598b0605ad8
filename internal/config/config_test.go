package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"GROQ_API_KEY",
	"GROQ_API_KEY_PARAM",
	"GROQ_BASE_URL",
	"UPSTREAM_TIMEOUT",
	"LOG_FORMAT",
	"LOG_LEVEL",
	"HTTP_ADDR",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.groq.com/openai/v1", cfg.GroqBaseURL)
	require.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, ":3000", cfg.HTTPAddr)
	require.Empty(t, cfg.GroqAPIKey)
	require.False(t, cfg.HasCredentialSource())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "  gsk-test  ")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "gsk-test", cfg.GroqAPIKey)
	require.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.HasCredentialSource())
}

func TestLoad_ParamOnlyIsACredentialSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY_PARAM", "/vms/groq-api-key")

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.HasCredentialSource())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROQ_API_KEY=gsk-from-file\nHTTP_ADDR=:8080\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("GROQ_API_KEY")
		_ = os.Unsetenv("HTTP_ADDR")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gsk-from-file", cfg.GroqAPIKey)
	require.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.NoError(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad base url", key: "GROQ_BASE_URL", value: "not a url"},
		{name: "zero timeout", key: "UPSTREAM_TIMEOUT", value: "0s"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load("")
			require.Error(t, err)
			require.Contains(t, err.Error(), "config:")
		})
	}
}

func TestSlogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", (&Config{LogLevel: "debug"}).SlogLevel().String())
	require.Equal(t, "WARN", (&Config{LogLevel: "warn"}).SlogLevel().String())
	require.Equal(t, "ERROR", (&Config{LogLevel: "error"}).SlogLevel().String())
	require.Equal(t, "INFO", (&Config{LogLevel: "info"}).SlogLevel().String())
}
