package gateway

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"hirelink/internal/config"
	"hirelink/internal/errors"
	"hirelink/internal/types"

	"github.com/sony/gobreaker/v2"
)

// serverFailure marks a 5xx response so the breaker counts it. It never
// leaves the package: Send turns the response into a StatusError.
type serverFailure struct{ status int }

func (e *serverFailure) Error() string { return fmt.Sprintf("server responded %d", e.status) }

// CircuitBreaker wraps API round trips with the circuit breaker pattern.
// Only transport errors and 5xx responses count as failures; a tripped
// breaker fails fast and nothing is ever retried.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*http.Response]
}

// NewCircuitBreaker creates a breaker from configuration. It returns nil
// when the breaker is disabled; a nil breaker executes calls directly.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = errors.Discard()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// Execute runs fn under breaker protection.
func (cb *CircuitBreaker) Execute(fn func() (*http.Response, error)) (*http.Response, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Status reports the breaker for the dashboard. A nil breaker is disabled
// and always healthy.
func (cb *CircuitBreaker) Status() types.BreakerStatus {
	if cb == nil || cb.cb == nil {
		return types.BreakerStatus{Healthy: true}
	}

	counts := cb.cb.Counts()
	return types.BreakerStatus{
		Enabled:  true,
		Name:     cb.cb.Name(),
		State:    cb.cb.State().String(),
		Healthy:  cb.IsHealthy(),
		Requests: counts.Requests,
		Failures: counts.TotalFailures,
	}
}

// IsHealthy reports whether calls go through, i.e. the breaker is closed.
func (cb *CircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

func isBreakerRejection(err error) bool {
	return stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests)
}
