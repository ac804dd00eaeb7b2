// Package gateway is the single outbound channel to the recruitment API.
//
// Every request goes through Gateway.Send, which chooses the body encoding,
// attaches the stored bearer credential and watches for authentication
// failures. A rejected credential on any endpoint other than login clears
// the whole session and is reported as errors.ErrSessionInvalidated; the
// caller's navigator turns that signal into a redirect. The gateway itself
// never navigates and never retries.
package gateway

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"hirelink/internal/config"
	"hirelink/internal/errors"
	"hirelink/internal/jsonx"
	"hirelink/internal/observability"
)

const (
	LoginPath  = "auth/login"
	SignupPath = "auth/signup"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// CredentialStore is the part of the session store the gateway needs.
type CredentialStore interface {
	Credential(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Request is one API call. Path is relative to the API root.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded, except on the login endpoint where it must be
	// url.Values or map[string]string and is form-encoded.
	Body any
	// Multipart takes precedence over Body.
	Multipart *Multipart

	// Credential overrides the stored credential when set.
	Credential string
	// ExpectBinary asks for a raw payload instead of JSON.
	ExpectBinary bool
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals a JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := jsonx.Unmarshal(r.Body, v); err != nil {
		return errors.NewDecodeError(errors.ErrCodeDecodeFailed, "Unexpected response from server", err)
	}
	return nil
}

// Options configure a Gateway. BaseURL is required.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	Transport    http.RoundTripper
	Breaker      *CircuitBreaker
	Limiter      *rate.Limiter
	Tracer       oteltrace.Tracer
	Metrics      *observability.Metrics
	Logger       *errors.Logger
	NewRequestID func() string
}

// Gateway sends requests to the API.
type Gateway struct {
	base      *url.URL
	client    *http.Client
	store     CredentialStore
	userAgent string
	breaker   *CircuitBreaker
	limiter   *rate.Limiter
	tracer    oteltrace.Tracer
	metrics   *observability.Metrics
	logger    *errors.Logger
	requestID func() string
}

// New creates a gateway over store.
func New(store CredentialStore, opts Options) (*Gateway, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid API base URL %q", opts.BaseURL), err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	g := &Gateway{
		base:      base,
		client:    &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		store:     store,
		userAgent: opts.UserAgent,
		breaker:   opts.Breaker,
		limiter:   opts.Limiter,
		tracer:    opts.Tracer,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		requestID: opts.NewRequestID,
	}
	if g.tracer == nil {
		g.tracer = noop.NewTracerProvider().Tracer("hirelink.gateway")
	}
	if g.metrics == nil {
		g.metrics = observability.NoopMetrics()
	}
	if g.logger == nil {
		g.logger = errors.Discard()
	}
	if g.requestID == nil {
		g.requestID = uuid.NewString
	}
	return g, nil
}

// FromConfig builds a gateway from application configuration.
func FromConfig(cfg *config.Config, store CredentialStore, om *observability.ObservabilityManager, logger *errors.Logger) (*Gateway, error) {
	var limiter *rate.Limiter
	if rl := cfg.API.RateLimit; rl.Enabled {
		limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst)
	}

	return New(store, Options{
		BaseURL:   cfg.APIURL(),
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Transport: om.HTTPTransport(nil),
		Breaker:   NewCircuitBreaker("hirelink-api", cfg.API.CircuitBreaker, logger),
		Limiter:   limiter,
		Tracer:    om.Tracer("hirelink.gateway"),
		Metrics:   om.GetMetrics(),
		Logger:    logger,
	})
}

func isLoginPath(path string) bool {
	return strings.Trim(path, "/") == LoginPath
}

func isSignupPath(path string) bool {
	return strings.Trim(path, "/") == SignupPath
}

// Send performs req. Non-2xx responses come back as an *errors.AppError
// wrapping a *StatusError. An authentication failure outside login clears
// the session first and wraps errors.ErrSessionInvalidated.
func (g *Gateway) Send(ctx context.Context, req Request) (*Response, error) {
	path := strings.TrimLeft(req.Path, "/")
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := g.tracer.Start(ctx, "gateway."+method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("api.path", path),
		))
	defer span.End()

	start := time.Now()
	resp, err := g.send(ctx, method, path, req, span)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else if code := StatusCode(err); code != 0 {
		status = code
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	g.metrics.RecordRequest(ctx, method, path, status, err, time.Since(start))

	return resp, err
}

func (g *Gateway) send(ctx context.Context, method, path string, req Request, span oteltrace.Span) (*Response, error) {
	httpReq, err := g.newHTTPRequest(ctx, method, path, req)
	if err != nil {
		return nil, err
	}
	requestID := httpReq.Header.Get(RequestIDHeader)
	log := g.logger.With("request_id", requestID, "method", method, "path", path)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "Request was cancelled", err)
		}
	}

	log.Debug("Sending API request", "authorized", httpReq.Header.Get("Authorization") != "")

	httpResp, err := g.breaker.Execute(func() (*http.Response, error) {
		resp, err := g.client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverFailure{status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil && httpResp == nil {
		return nil, g.transportError(ctx, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, g.transportError(ctx, err)
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		log.Debug("API request succeeded", "status", httpResp.StatusCode, "bytes", len(body))
		return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
	}

	statusErr := newStatusError(path, httpResp.StatusCode, body)

	if httpResp.StatusCode == http.StatusUnauthorized {
		return nil, g.authFailure(ctx, path, statusErr, span, log)
	}

	log.Debug("API request failed", "status", httpResp.StatusCode, "detail", statusErr.Detail)
	code := errors.ErrCodeUnexpectedStatus
	if httpResp.StatusCode >= http.StatusInternalServerError {
		code = errors.ErrCodeServerError
	}
	return nil, errors.NewNetworkError(code, statusErr.Error(), statusErr).
		WithContext("status", httpResp.StatusCode)
}

func (g *Gateway) newHTTPRequest(ctx context.Context, method, path string, req Request) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid request path", err)
	}
	target := g.base.ResolveReference(ref)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	body, err := encodeBody(path, req)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Request could not be encoded", err)
	}

	var reader io.Reader
	if body != nil {
		reader = body.reader
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidRequest, "Request could not be built", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", body.contentType)
	}
	if req.ExpectBinary {
		httpReq.Header.Set("Accept", "application/octet-stream, application/pdf, */*")
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}
	if g.userAgent != "" {
		httpReq.Header.Set("User-Agent", g.userAgent)
	}
	httpReq.Header.Set(RequestIDHeader, g.requestID())

	if token := g.credentialFor(ctx, path, req); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// credentialFor returns the token to attach: an explicit credential always
// wins; the stored one is never sent to login or signup.
func (g *Gateway) credentialFor(ctx context.Context, path string, req Request) string {
	if req.Credential != "" {
		return req.Credential
	}
	if isLoginPath(path) || isSignupPath(path) {
		return ""
	}
	token, _ := g.store.Credential(ctx)
	return token
}

func (g *Gateway) authFailure(ctx context.Context, path string, statusErr *StatusError, span oteltrace.Span, log *errors.Logger) error {
	if isLoginPath(path) {
		g.metrics.RecordAuthFailure(ctx, path, false)
		span.SetAttributes(attribute.Bool("auth.failure", true), attribute.Bool("auth.forced_logout", false))
		msg := statusErr.Detail
		if msg == "" {
			msg = "Invalid credentials"
		}
		return errors.NewAuthenticationError(errors.ErrCodeBadCredentials, msg, statusErr)
	}

	// The response may arrive after the caller gave up; the session must
	// still be cleared.
	clearCtx := context.WithoutCancel(ctx)
	if err := g.store.Clear(clearCtx); err != nil {
		log.LogError(err, "Failed to clear session after authentication failure")
	}
	g.metrics.RecordAuthFailure(ctx, path, true)
	span.SetAttributes(attribute.Bool("auth.failure", true), attribute.Bool("auth.forced_logout", true))
	log.Warn("Credential rejected by API, session cleared")

	return errors.NewAuthenticationError(errors.ErrCodeSessionInvalidated,
		"Your session has expired. Please log in again.",
		fmt.Errorf("%w: %w", errors.ErrSessionInvalidated, statusErr))
}

func (g *Gateway) transportError(ctx context.Context, err error) error {
	if isBreakerRejection(err) {
		return errors.NewNetworkError(errors.ErrCodeCircuitOpen,
			"Service is temporarily unavailable. Please try again later.", err)
	}
	if ctx.Err() != nil {
		return errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "Request was cancelled", err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "The server took too long to respond. Please try again.", err)
	}
	return errors.NewNetworkError(errors.ErrCodeTransportFailed, "Could not reach the server. Please try again.", err)
}

// Breaker exposes the circuit breaker for the dashboard. May be nil, which
// reports as disabled.
func (g *Gateway) Breaker() *CircuitBreaker {
	return g.breaker
}
