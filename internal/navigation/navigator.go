// Package navigation tracks which screen is mounted and keeps late results
// away from screens the user has already left.
//
// Every Navigate starts a new mount generation and cancels the context of
// the previous mount. A screen applies fetched data through Mount.Apply,
// which is a no-op once the mount is stale.
package navigation

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"hirelink/internal/errors"
	"hirelink/internal/guard"
)

// ForcedRecoveryRoute is where the user lands after the API rejected the
// stored credential.
const ForcedRecoveryRoute = guard.RouteHome

// Navigator holds the current route.
type Navigator struct {
	mu      sync.Mutex
	parent  context.Context
	current string
	history []string
	gen     uint64
	cancel  context.CancelFunc
	logger  *errors.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// Mount is one visit to a route.
type Mount struct {
	nav  *Navigator
	gen  uint64
	path string
	ctx  context.Context
}

// New creates a navigator positioned at home. Mount contexts derive from
// parent.
func New(parent context.Context, logger *errors.Logger) *Navigator {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Navigator{
		parent:  parent,
		current: guard.RouteHome,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// Navigate leaves the current screen and mounts path.
func (n *Navigator) Navigate(path string) *Mount {
	return n.navigate(path, true)
}

// Replace is Navigate without recording the current route in history.
// Guard redirects use it so Back never returns to a denied screen.
func (n *Navigator) Replace(path string) *Mount {
	return n.navigate(path, false)
}

func (n *Navigator) navigate(path string, push bool) *Mount {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	from := n.current
	if push && from != path {
		n.history = append(n.history, from)
	}
	n.gen++
	ctx, cancel := context.WithCancel(n.parent)
	n.cancel = cancel
	n.current = path
	m := &Mount{nav: n, gen: n.gen, path: path, ctx: ctx}
	n.mu.Unlock()

	n.logger.Debug("Navigated", "from", from, "to", path, "generation", m.gen)
	return m
}

// Back returns to the previous route, or home when there is none.
func (n *Navigator) Back() *Mount {
	n.mu.Lock()
	target := guard.RouteHome
	if len(n.history) > 0 {
		target = n.history[len(n.history)-1]
		n.history = n.history[:len(n.history)-1]
	}
	n.mu.Unlock()
	return n.navigate(target, false)
}

// Current returns the mounted route.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// HandleError is the single coordinator for the session-invalidated
// signal: it navigates to ForcedRecoveryRoute at once and reports true.
// Other errors are left to the screen.
func (n *Navigator) HandleError(err error) bool {
	if !stderrors.Is(err, errors.ErrSessionInvalidated) {
		return false
	}
	n.logger.Warn("Session invalidated, forcing navigation", "to", ForcedRecoveryRoute)
	n.Replace(ForcedRecoveryRoute)
	return true
}

// Path returns the concrete path of the mount.
func (m *Mount) Path() string { return m.path }

// Context is cancelled as soon as the user leaves this mount.
func (m *Mount) Context() context.Context { return m.ctx }

// Active reports whether this mount is still the current one.
func (m *Mount) Active() bool {
	m.nav.mu.Lock()
	defer m.nav.mu.Unlock()
	return m.nav.gen == m.gen
}

// Apply runs fn only if the mount is still current and reports whether it
// ran. fn runs under the navigator lock and must not navigate.
func (m *Mount) Apply(fn func()) bool {
	m.nav.mu.Lock()
	defer m.nav.mu.Unlock()
	if m.nav.gen != m.gen {
		return false
	}
	fn()
	return true
}

// Navigate moves on from this mount. It does nothing if the user already
// left, so a screen cannot drag the user back after they moved on.
func (m *Mount) Navigate(path string) (*Mount, bool) {
	if !m.Active() {
		return nil, false
	}
	return m.nav.Navigate(path), true
}

// NavigateAfter waits delay, then navigates from this mount to path. It
// gives up if the mount goes stale while waiting.
func (m *Mount) NavigateAfter(delay time.Duration, path string) (*Mount, bool) {
	if delay > 0 {
		if err := m.nav.sleep(m.ctx, delay); err != nil {
			return nil, false
		}
	}
	return m.Navigate(path)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
