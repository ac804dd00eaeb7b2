package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, "api/", cfg.API.PathPrefix)
	assert.Equal(t, "http://127.0.0.1:8000/api/", cfg.APIURL())
	assert.Equal(t, 7*24*time.Hour, cfg.Session.CredentialMaxAge)
	assert.Equal(t, "access_token", cfg.Session.CookieName)
	assert.Equal(t, "user", cfg.Session.ProfileKey)
	assert.Equal(t, filepath.Join(home, ".hirelink", "session.db"), cfg.Session.StorePath)
	assert.Equal(t, 1500*time.Millisecond, cfg.App.RedirectDelay)
	assert.False(t, cfg.API.CircuitBreaker.Enabled)
	assert.Empty(t, cfg.ConfigFileUsed())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HIRELINK_API_BASEURL", "https://jobs.example.com")
	t.Setenv("HIRELINK_APP_REDIRECTDELAY", "0s")
	t.Setenv("HIRELINK_APP_DEFAULTFORMAT", "json")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.example.com/api/", cfg.APIURL())
	assert.Equal(t, time.Duration(0), cfg.App.RedirectDelay)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "hirelink.yaml")
	content := `
api:
  baseURL: http://10.0.0.5:9000/
  circuitBreaker:
    enabled: true
    failureThreshold: 0.5
session:
  storePath: /tmp/hl/session.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFileUsed())
	assert.Equal(t, "http://10.0.0.5:9000/api/", cfg.APIURL())
	assert.True(t, cfg.API.CircuitBreaker.Enabled)
	assert.Equal(t, 0.5, cfg.API.CircuitBreaker.FailureThreshold)
	assert.Equal(t, "/tmp/hl/session.db", cfg.Session.StorePath)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    "http://127.0.0.1:8000",
			PathPrefix: "api/",
			Timeout:    time.Second,
		},
		Session: SessionConfig{
			StorePath:        "/tmp/session.db",
			CredentialMaxAge: time.Hour,
		},
		App: AppConfig{
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:        "relative base URL",
			mutate:      func(c *Config) { c.API.BaseURL = "127.0.0.1:8000" },
			expectError: true,
			errorMsg:    "absolute http(s) URL",
		},
		{
			name:        "non-http scheme",
			mutate:      func(c *Config) { c.API.BaseURL = "ftp://host" },
			expectError: true,
			errorMsg:    "absolute http(s) URL",
		},
		{
			name:        "prefix without trailing slash",
			mutate:      func(c *Config) { c.API.PathPrefix = "api" },
			expectError: true,
			errorMsg:    "must end with '/'",
		},
		{
			name:        "zero max-age",
			mutate:      func(c *Config) { c.Session.CredentialMaxAge = 0 },
			expectError: true,
			errorMsg:    "max-age must be positive",
		},
		{
			name:        "unsupported default format",
			mutate:      func(c *Config) { c.App.DefaultFormat = "xml" },
			expectError: true,
			errorMsg:    "invalid default format",
		},
		{
			name: "breaker threshold out of range",
			mutate: func(c *Config) {
				c.API.CircuitBreaker = CircuitBreakerConfig{Enabled: true, FailureThreshold: 1.5}
			},
			expectError: true,
			errorMsg:    "failure threshold",
		},
		{
			name:   "disabled breaker ignores threshold",
			mutate: func(c *Config) { c.API.CircuitBreaker.FailureThreshold = 7 },
		},
		{
			name: "rate limit without burst",
			mutate: func(c *Config) {
				c.API.RateLimit = RateLimitConfig{Enabled: true, RequestsPerSecond: 1}
			},
			expectError: true,
			errorMsg:    "burst",
		},
		{
			name:        "negative redirect delay",
			mutate:      func(c *Config) { c.App.RedirectDelay = -time.Second },
			expectError: true,
			errorMsg:    "redirect delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "x", "y.db"), expandHome("~/x/y.db"))
	assert.Equal(t, home+"/.hirelink/session.db", expandHome("$HOME/.hirelink/session.db"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
