package config

import (
	"os"
	"path/filepath"
	"strings"

	"hirelink/internal/errors"
)

// applyFallbacks applies derived defaults after unmarshaling
func (c *Config) applyFallbacks() {
	c.applyPathDefaults()
	c.applyObservabilityDefaults()
}

// applyPathDefaults expands $HOME and ~ in filesystem settings
func (c *Config) applyPathDefaults() {
	c.Session.StorePath = expandHome(c.Session.StorePath)
	c.App.DownloadDir = expandHome(c.App.DownloadDir)
	if c.API.PathPrefix != "" {
		c.API.PathPrefix = strings.TrimLeft(c.API.PathPrefix, "/")
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && c.Observability.Enabled && !c.Observability.ConsoleOutput && !c.Observability.OTLP.Enabled {
		c.Observability.ConsoleOutput = true
	}
}

func expandHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.ExpandEnv(path)
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return os.Expand(path, func(key string) string {
		if key == "HOME" {
			return home
		}
		return os.Getenv(key)
	})
}

// LogConfigurationSources logs a summary of configuration sources being used
func (c *Config) LogConfigurationSources(logger *errors.Logger) {
	if c.configFileUsed != "" {
		logger.Debug("[CONFIG] Config file loaded", "path", c.configFileUsed)
	} else {
		logger.Debug("[CONFIG] No config file found, using defaults and environment variables")
	}

	envVars := []string{
		"HIRELINK_API_BASEURL",
		"HIRELINK_API_TIMEOUT",
		"HIRELINK_SESSION_STOREPATH",
		"HIRELINK_APP_LOGLEVEL",
		"HIRELINK_APP_DEFAULTFORMAT",
		"HIRELINK_OBSERVABILITY_ENABLED",
		"HIRELINK_OBSERVABILITY_OTLP_ENDPOINT",
	}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			logger.Debug("[CONFIG] Environment override", "name", envVar, "value", value)
		}
	}

	headers := "none"
	if len(c.Observability.OTLP.Headers) > 0 {
		headers = "***MASKED***"
	}

	logger.Debug("[CONFIG] Key configuration values",
		"api_url", c.APIURL(),
		"api_timeout", c.API.Timeout.String(),
		"circuit_breaker", c.API.CircuitBreaker.Enabled,
		"rate_limit", c.API.RateLimit.Enabled,
		"session_store", c.Session.StorePath,
		"log_level", c.App.LogLevel,
		"observability", c.Observability.Enabled,
		"otlp_headers", headers,
	)
}
