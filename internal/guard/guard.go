// Package guard decides, from the locally cached profile alone, whether a
// screen may mount. It never talks to the API: a credential the server no
// longer accepts is caught later by the gateway.
package guard

import (
	"context"

	"hirelink/internal/errors"
	"hirelink/internal/observability"
	"hirelink/internal/types"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
}

// Authorize checks profile against required. A nil profile is anonymous
// and goes to the login screen; a role mismatch goes to the dashboard.
// RoleAny admits any authenticated user, including ones whose role the
// client does not know.
func Authorize(profile *types.UserProfile, required types.Role) Decision {
	if profile == nil {
		return Decision{Redirect: AnonymousLanding, Reason: errors.ErrCodeNotAuthenticated}
	}
	if required != types.RoleAny && profile.Role != required {
		return Decision{Redirect: Fallback, Reason: errors.ErrCodeRoleMismatch}
	}
	return Decision{Allow: true}
}

// ProfileReader is the part of the session store the guard reads.
type ProfileReader interface {
	Profile(ctx context.Context) (*types.UserProfile, error)
}

// Guard runs Authorize against the session store for a route.
type Guard struct {
	profiles ProfileReader
	metrics  *observability.Metrics
	logger   *errors.Logger
}

func New(profiles ProfileReader, metrics *observability.Metrics, logger *errors.Logger) *Guard {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &Guard{profiles: profiles, metrics: metrics, logger: logger}
}

// Check authorizes a mount of route. Public routes always pass. An
// unreadable profile counts as absent.
func (g *Guard) Check(ctx context.Context, route Route) (Decision, *types.UserProfile) {
	if route.Public {
		p, _ := g.profiles.Profile(ctx)
		return Decision{Allow: true}, p
	}

	p, err := g.profiles.Profile(ctx)
	if err != nil {
		g.logger.LogError(err, "Stored profile unusable, treating session as anonymous", "route", route.Pattern)
		p = nil
	}

	d := Authorize(p, route.Role)
	if !d.Allow {
		g.metrics.RecordGuardDenial(ctx, route.Pattern, d.Redirect)
		g.logger.Debug("Route guard denied mount", "route", route.Pattern, "redirect", d.Redirect, "reason", d.Reason)
		return d, nil
	}
	return d, p
}
