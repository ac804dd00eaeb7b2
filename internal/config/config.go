package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Precedence Order:
// 1. Environment Variables (HIRELINK_API_BASEURL, etc.) - Highest priority
// 2. Config File values
// 3. Default values - Lowest priority
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Session       SessionConfig       `mapstructure:"session"`
	App           AppConfig           `mapstructure:"app"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	// configFileUsed is the file viper read, empty when none was found
	configFileUsed string
}

// APIConfig holds the external recruitment API connection settings
type APIConfig struct {
	BaseURL        string               `mapstructure:"baseURL"`
	PathPrefix     string               `mapstructure:"pathPrefix"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	UserAgent      string               `mapstructure:"userAgent"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	RateLimit      RateLimitConfig      `mapstructure:"rateLimit"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// RateLimitConfig holds outbound request pacing configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst"`
}

// SessionConfig holds the local session store settings
type SessionConfig struct {
	StorePath        string        `mapstructure:"storePath"`
	CredentialMaxAge time.Duration `mapstructure:"credentialMaxAge"`
	CookieName       string        `mapstructure:"cookieName"`
	ProfileKey       string        `mapstructure:"profileKey"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string        `mapstructure:"logLevel"`
	DefaultFormat    string        `mapstructure:"defaultFormat"`
	SupportedFormats []string      `mapstructure:"supportedFormats"`
	RedirectDelay    time.Duration `mapstructure:"redirectDelay"`
	MaxUploadSize    int64         `mapstructure:"maxUploadSize"`
	DownloadDir      string        `mapstructure:"downloadDir"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled        bool       `mapstructure:"enabled"`
	ServiceName    string     `mapstructure:"serviceName"`
	ServiceVersion string     `mapstructure:"serviceVersion"`
	ConsoleOutput  bool       `mapstructure:"consoleOutput"`
	PrettyPrint    bool       `mapstructure:"prettyPrint"`
	SampleRate     float64    `mapstructure:"sampleRate"`
	OTLP           OTLPConfig `mapstructure:"otlp"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file.
// An explicit configFile overrides the search paths.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HIRELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/hirelink/")
		v.AddConfigPath("$HOME/.hirelink")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configFileUsed = configFileUsed

	config.applyFallbacks()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ConfigFileUsed returns the path of the config file that was read, if any.
func (c *Config) ConfigFileUsed() string {
	return c.configFileUsed
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API base URL must be an absolute http(s) URL: %q", c.API.BaseURL)
	}

	if c.API.PathPrefix != "" && !strings.HasSuffix(c.API.PathPrefix, "/") {
		return fmt.Errorf("API path prefix must end with '/': %q", c.API.PathPrefix)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if cb := c.API.CircuitBreaker; cb.Enabled {
		if cb.FailureThreshold <= 0 || cb.FailureThreshold > 1 {
			return fmt.Errorf("circuit breaker failure threshold must be in (0, 1], got %v", cb.FailureThreshold)
		}
	}

	if rl := c.API.RateLimit; rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests per second must be positive")
		}
		if rl.Burst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1")
		}
	}

	if c.Session.StorePath == "" {
		return fmt.Errorf("session store path is required")
	}

	if c.Session.CredentialMaxAge <= 0 {
		return fmt.Errorf("credential max-age must be positive")
	}

	if c.App.RedirectDelay < 0 {
		return fmt.Errorf("redirect delay must not be negative")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return fmt.Errorf("observability sample rate must be in [0, 1]")
	}

	return nil
}

// APIURL joins the base URL and path prefix into the root every endpoint is
// resolved against.
func (c *Config) APIURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + "/" + c.API.PathPrefix
}
