// Package lifecycle drives the session through login, logout and forced
// recovery. It owns the transitions and the session store writes; screens
// decide what to show and where to go next.
package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"hirelink/internal/errors"
	"hirelink/internal/gateway"
	"hirelink/internal/guard"
	"hirelink/internal/session"
	"hirelink/internal/types"
	"hirelink/internal/validation"
)

// State of the session.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	LoggingOut
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case LoggingOut:
		return "logging_out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	MsgLoginFailed  = "Login failed. Please try again."
	MsgSignupFailed = "Registration failed"
)

// Authenticator is the part of the API client the lifecycle calls.
type Authenticator interface {
	Login(ctx context.Context, in types.LoginInput) (*types.LoginResponse, error)
	Signup(ctx context.Context, in types.SignupInput) (*types.SignupResponse, error)
}

// Store is the session store contract the lifecycle mutates.
type Store interface {
	Credential(ctx context.Context) (string, bool)
	Profile(ctx context.Context) (*types.UserProfile, error)
	Establish(ctx context.Context, token string, maxAge time.Duration, p types.UserProfile) error
	Clear(ctx context.Context) error
}

type Options struct {
	// MaxAge is the credential lifetime declared at login.
	MaxAge time.Duration
	Logger *errors.Logger
}

// LoginResult is a successful login.
type LoginResult struct {
	Profile types.UserProfile
	Landing string
}

// Machine is the session lifecycle.
type Machine struct {
	mu     sync.Mutex
	state  State
	auth   Authenticator
	store  Store
	maxAge time.Duration
	logger *errors.Logger
}

// New creates the machine and initializes its state from the store.
func New(ctx context.Context, auth Authenticator, store Store, opts Options) *Machine {
	m := &Machine{
		auth:   auth,
		store:  store,
		maxAge: opts.MaxAge,
		logger: opts.Logger,
	}
	if m.maxAge <= 0 {
		m.maxAge = session.DefaultMaxAge
	}
	if m.logger == nil {
		m.logger = errors.Discard()
	}
	m.state = m.stored(ctx)
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// stored derives the resting state from the persisted session.
func (m *Machine) stored(ctx context.Context) State {
	if _, ok := m.store.Credential(ctx); !ok {
		return Anonymous
	}
	if p, err := m.store.Profile(ctx); err != nil || p == nil {
		return Anonymous
	}
	return Authenticated
}

func (m *Machine) enter(to State, from ...State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range from {
		if m.state == f {
			prev := m.state
			m.state = to
			m.logger.Debug("Session state changed", "from", prev.String(), "to", to.String())
			return prev, nil
		}
	}
	return m.state, errors.NewInternalError(errors.ErrCodeInvalidTransition,
		fmt.Sprintf("cannot go from %s to %s", m.state, to), nil)
}

func (m *Machine) set(to State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = to
}

// Login submits credentials. On success the store holds both the
// credential and the profile before Login returns. On failure the store is
// untouched and the error carries a displayable message.
func (m *Machine) Login(ctx context.Context, in types.LoginInput) (*LoginResult, error) {
	if err := validation.Struct(in, validation.MsgFillAllFields); err != nil {
		return nil, err
	}
	// Logging in again over a live session replaces it.
	if _, err := m.enter(Authenticating, Anonymous, Authenticated); err != nil {
		return nil, err
	}

	resp, err := m.auth.Login(ctx, in)
	if err != nil {
		m.set(m.stored(ctx))
		m.logger.Debug("Login rejected", "username", in.Username, "error", err)
		return nil, loginError(err)
	}

	profile := resp.Profile()
	if err := m.store.Establish(ctx, resp.AccessToken, m.maxAge, profile); err != nil {
		m.set(m.stored(ctx))
		return nil, err
	}

	m.set(Authenticated)
	m.logger.Info("Logged in", "username", profile.Username, "role", string(profile.Role))
	return &LoginResult{Profile: profile, Landing: guard.LandingFor(profile.Role)}, nil
}

func loginError(err error) error {
	if errors.Is(err, errors.ErrorTypeValidation) {
		return err
	}
	msg := gateway.Detail(err)
	if msg == "" {
		msg = MsgLoginFailed
	}
	return errors.NewAuthenticationError(errors.ErrCodeBadCredentials, msg, err)
}

// Signup registers a user without authenticating them.
func (m *Machine) Signup(ctx context.Context, in types.SignupInput) (*types.SignupResponse, error) {
	if in.Role == "" {
		in.Role = types.RoleCandidate
	}
	if err := validation.Struct(in, validation.MsgFillAllFields); err != nil {
		return nil, err
	}
	if st := m.State(); st == Authenticating || st == LoggingOut {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot sign up while %s", st), nil)
	}

	resp, err := m.auth.Signup(ctx, in)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeValidation) {
			return nil, err
		}
		msg := gateway.ServerMessage(err)
		if msg == "" {
			msg = MsgSignupFailed
		}
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, msg, err)
	}
	return resp, nil
}

// HasSession reports whether either half of the session is stored.
func (m *Machine) HasSession(ctx context.Context) bool {
	if _, ok := m.store.Credential(ctx); ok {
		return true
	}
	p, err := m.store.Profile(ctx)
	return p != nil || stderrors.Is(err, errors.ErrProfileCorrupt)
}

// BeginLogout asks for confirmation. It reports false, without a state
// change, when there is nothing to log out of.
func (m *Machine) BeginLogout(ctx context.Context) (bool, error) {
	if !m.HasSession(ctx) {
		return false, nil
	}
	// A half-present session still needs clearing.
	if _, err := m.enter(LoggingOut, Authenticated, Anonymous); err != nil {
		return false, err
	}
	return true, nil
}

// ConfirmLogout clears both halves of the session.
func (m *Machine) ConfirmLogout(ctx context.Context) error {
	m.mu.Lock()
	if m.state != LoggingOut {
		st := m.state
		m.mu.Unlock()
		return errors.NewInternalError(errors.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot confirm logout while %s", st), nil)
	}
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to clear session", err)
	}
	m.set(Anonymous)
	m.logger.Info("Logged out")
	return nil
}

// CancelLogout abandons a pending logout.
func (m *Machine) CancelLogout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == LoggingOut {
		m.state = m.stored(ctx)
	}
}

// Recover handles the session-invalidated signal. The gateway has already
// cleared the store; the machine only drops to Anonymous. No confirmation
// is involved.
func (m *Machine) Recover(err error) bool {
	if !stderrors.Is(err, errors.ErrSessionInvalidated) {
		return false
	}
	m.set(Anonymous)
	m.logger.Warn("Session invalidated by the server")
	return true
}
