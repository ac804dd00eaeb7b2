package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeDecode         ErrorType = "decode"
	ErrorTypeIO             ErrorType = "io"
	ErrorTypeConfig         ErrorType = "config"
	ErrorTypeInternal       ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// newAppError is an unexported helper to create AppError instances
func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewAuthenticationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAuthentication, code, message, cause)
}

func NewAuthorizationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAuthorization, code, message, cause)
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewDecodeError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeDecode, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is reports whether any AppError in err's chain has the given type.
func Is(err error, typ ErrorType) bool {
	var appErr *AppError
	for err != nil {
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == typ {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// Message returns the user-facing message of the outermost AppError in err's
// chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Rephrase wraps err in an AppError carrying message for display. The type
// and code of the outermost AppError in err's chain are kept.
func Rephrase(err error, message string) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return newAppError(appErr.Type, appErr.Code, message, err)
	}
	return newAppError(ErrorTypeInternal, ErrCodeUnknown, message, err)
}

// Sentinels matched with errors.Is.
var (
	// ErrSessionInvalidated is returned by the gateway after it cleared the
	// session in response to an authentication failure. A single coordinator
	// translates it into navigation to the anonymous landing route.
	ErrSessionInvalidated = stderrors.New("session invalidated")

	// ErrProfileCorrupt means a stored profile exists but cannot be decoded.
	ErrProfileCorrupt = stderrors.New("stored profile is corrupt")
)

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLoggerWithWriter creates a structured logger writing JSON to w
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)
	return &Logger{logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}

		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}

		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
	} else {
		logArgs := append([]any{"error", err.Error()}, args...)
		l.logger.Error(message, logArgs...)
	}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// With returns a child logger that always includes the given key-value pairs
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// ParseLevel converts a textual log level to slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// New creates a logger writing JSON lines to w at the named level
func New(w io.Writer, level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLoggerWithWriter(w, slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound       = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable    = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat      = "INVALID_FORMAT"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeNetworkTimeout     = "NETWORK_TIMEOUT"
	ErrCodeTransportFailed    = "TRANSPORT_FAILED"
	ErrCodeServerError        = "SERVER_ERROR"
	ErrCodeUnexpectedStatus   = "UNEXPECTED_STATUS"
	ErrCodeCircuitOpen        = "CIRCUIT_OPEN"
	ErrCodeBadCredentials     = "BAD_CREDENTIALS"
	ErrCodeSessionInvalidated = "SESSION_INVALIDATED"
	ErrCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	ErrCodeRoleMismatch       = "ROLE_MISMATCH"
	ErrCodeProfileCorrupt     = "PROFILE_CORRUPT"
	ErrCodeDecodeFailed       = "DECODE_FAILED"
	ErrCodeStoreFailed        = "STORE_FAILED"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeUnknown            = "UNKNOWN"
)
