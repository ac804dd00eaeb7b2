package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// External API
	v.SetDefault("api.baseURL", "http://127.0.0.1:8000")
	v.SetDefault("api.pathPrefix", "api/")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.userAgent", "hirelink-cli")

	// Circuit breaker is opt-in; a tripped breaker fails fast but never retries
	v.SetDefault("api.circuitBreaker.enabled", false)
	v.SetDefault("api.circuitBreaker.maxRequests", 1)
	v.SetDefault("api.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("api.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("api.circuitBreaker.minRequests", 3)
	v.SetDefault("api.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("api.rateLimit.enabled", false)
	v.SetDefault("api.rateLimit.requestsPerSecond", 5.0)
	v.SetDefault("api.rateLimit.burst", 5)

	// Session store
	v.SetDefault("session.storePath", "$HOME/.hirelink/session.db")
	v.SetDefault("session.credentialMaxAge", 7*24*time.Hour)
	v.SetDefault("session.cookieName", "access_token")
	v.SetDefault("session.profileKey", "user")

	// App Configuration
	v.SetDefault("app.logLevel", "warn")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text"})
	v.SetDefault("app.redirectDelay", 1500*time.Millisecond)
	v.SetDefault("app.maxUploadSize", 10*1024*1024)
	v.SetDefault("app.downloadDir", ".")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "hirelink")
	v.SetDefault("observability.serviceVersion", "dev")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.prettyPrint", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
}
