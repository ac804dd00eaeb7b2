// Package screens holds one controller per screen of the client. Every
// controller mounts its route first, lets the route guard decide
// synchronously, and only then talks to the API. Results are applied
// through the mount so a screen the user already left is never updated.
package screens

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"hirelink/internal/api"
	"hirelink/internal/errors"
	"hirelink/internal/gateway"
	"hirelink/internal/guard"
	"hirelink/internal/lifecycle"
	"hirelink/internal/navigation"
	"hirelink/internal/types"
)

// ErrScreenLeft is returned when a response arrived after the user moved
// to another screen. The response has been discarded.
var ErrScreenLeft = stderrors.New("screen left before the response arrived")

// RedirectError reports that the route guard refused a mount.
type RedirectError struct {
	From   string
	To     string
	Reason string
	// Message is shown to the user when the screen has its own wording.
	Message string
}

func (e *RedirectError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (redirected to %s)", e.Message, e.To)
	}
	return fmt.Sprintf("%s requires login or another role, redirected to %s", e.From, e.To)
}

// API is the endpoint client the screens call.
type API interface {
	lifecycle.Authenticator
	GetJobs(ctx context.Context) ([]types.Job, error)
	HRJobs(ctx context.Context) ([]types.Job, error)
	PostJob(ctx context.Context, in types.JobPostInput) (*types.Job, error)
	UploadResume(ctx context.Context, in types.ResumeUploadInput) (*types.ResumeUploadResponse, error)
	JobResumes(ctx context.Context, jobID string) ([]types.Application, error)
	DownloadResume(ctx context.Context, applicationID string) ([]byte, error)
	Analyze(ctx context.Context, in types.AnalyzeInput) (*types.AnalysisResult, error)
	Chat(ctx context.Context, query string) (string, error)
}

var _ API = (*api.Client)(nil)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Credential(ctx context.Context) (string, bool)
	Status(ctx context.Context) types.SessionStatus
}

// BreakerReporter reports the state of the API circuit breaker.
type BreakerReporter interface {
	Status() types.BreakerStatus
}

// FileWriter saves downloaded files.
type FileWriter interface {
	WriteBytes(path string, data []byte) error
}

// Deps wires an App.
type Deps struct {
	Navigator *navigation.Navigator
	Guard     *guard.Guard
	Lifecycle *lifecycle.Machine
	Session   SessionReader
	API       API
	Files     FileWriter
	Breaker   BreakerReporter
	Logger    *errors.Logger

	RedirectDelay time.Duration
	MaxUploadSize int64
	DownloadDir   string
}

// App runs screens against one navigator.
type App struct {
	nav       *navigation.Navigator
	guard     *guard.Guard
	lifecycle *lifecycle.Machine
	session   SessionReader
	api       API
	files     FileWriter
	breaker   BreakerReporter
	logger    *errors.Logger

	redirectDelay time.Duration
	maxUpload     int64
	downloadDir   string

	chatOnce sync.Once
	chat     *Chat
}

func New(d Deps) *App {
	a := &App{
		nav:           d.Navigator,
		guard:         d.Guard,
		lifecycle:     d.Lifecycle,
		session:       d.Session,
		api:           d.API,
		files:         d.Files,
		breaker:       d.Breaker,
		logger:        d.Logger,
		redirectDelay: d.RedirectDelay,
		maxUpload:     d.MaxUploadSize,
		downloadDir:   d.DownloadDir,
	}
	if a.logger == nil {
		a.logger = errors.Discard()
	}
	if a.downloadDir == "" {
		a.downloadDir = "."
	}
	return a
}

// Navigator exposes the navigator driving the screens.
func (a *App) Navigator() *navigation.Navigator { return a.nav }

// Lifecycle exposes the session lifecycle.
func (a *App) Lifecycle() *lifecycle.Machine { return a.lifecycle }

// mount navigates to path and runs the guard before anything else. A
// denied mount is replaced by the guard's redirect.
func (a *App) mount(path string) (*navigation.Mount, *types.UserProfile, error) {
	route, _, ok := guard.Lookup(path)
	if !ok {
		return nil, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("No such screen: %s", path), nil)
	}

	m := a.nav.Navigate(path)
	d, profile := a.guard.Check(m.Context(), route)
	if !d.Allow {
		a.nav.Replace(d.Redirect)
		return nil, nil, &RedirectError{From: path, To: d.Redirect, Reason: d.Reason}
	}
	return m, profile, nil
}

// recoverSession routes the session-invalidated signal to the lifecycle and the
// navigator. It reports whether err was that signal.
func (a *App) recoverSession(err error) bool {
	if !a.lifecycle.Recover(err) {
		return false
	}
	a.nav.HandleError(err)
	return true
}

// failure turns an API error into what the screen shows. Forced logout
// keeps its own message; a request cut short by leaving the screen is
// ErrScreenLeft; anything else gets the server detail or fallback.
func (a *App) failure(m *navigation.Mount, err error, fallback string, useDetail bool) error {
	if a.recoverSession(err) {
		return err
	}
	if !m.Active() {
		return ErrScreenLeft
	}
	if errors.Is(err, errors.ErrorTypeValidation) {
		return err
	}
	msg := fallback
	if useDetail {
		if d := detail(err); d != "" {
			msg = d
		}
	}
	return errors.Rephrase(err, msg)
}

func validationFailure(msg string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, msg, nil)
}

func detail(err error) string {
	return gateway.Detail(err)
}

// after schedules the post-success redirect of a mount.
func (a *App) after(m *navigation.Mount, path string) string {
	if next, ok := m.NavigateAfter(a.redirectDelay, path); ok {
		return next.Path()
	}
	return ""
}
