package screens

import (
	"context"

	"hirelink/internal/guard"
	"hirelink/internal/types"
)

// Link is one destination offered on a screen.
type Link struct {
	Route string `json:"route"`
	Label string `json:"label"`
}

// HomeView is the landing screen.
type HomeView struct {
	Profile *types.UserProfile `json:"profile,omitempty"`
	Links   []Link             `json:"links"`
}

// Home mounts the landing screen. Anonymous users are offered login and
// signup; authenticated users the screens their role may open.
func (a *App) Home(ctx context.Context) (*HomeView, error) {
	m, profile, err := a.mount(guard.RouteHome)
	if err != nil {
		return nil, err
	}

	view := &HomeView{Profile: profile, Links: linksFor(profile)}
	if !m.Active() {
		return nil, ErrScreenLeft
	}
	return view, nil
}

var linkLabels = map[string]string{
	guard.RouteLogin:     "Log in",
	guard.RouteSignup:    "Sign up",
	guard.RouteLogout:    "Log out",
	guard.RouteChat:      "Ask the assistant",
	guard.RouteCandidate: "Browse open jobs",
	guard.RouteHR:        "Post a job",
	guard.RouteHRJobs:    "Your job postings",
	guard.RouteAnalyze:   "Analyze a resume",
	guard.RouteDashboard: "Dashboard",
}

func linksFor(profile *types.UserProfile) []Link {
	if profile == nil {
		return []Link{
			{Route: guard.RouteLogin, Label: linkLabels[guard.RouteLogin]},
			{Route: guard.RouteSignup, Label: linkLabels[guard.RouteSignup]},
			{Route: guard.RouteChat, Label: linkLabels[guard.RouteChat]},
		}
	}

	var links []Link
	for _, r := range guard.Routes {
		label, ok := linkLabels[r.Pattern]
		if !ok || r.Pattern == guard.RouteLogin || r.Pattern == guard.RouteSignup {
			continue
		}
		if r.Public || guard.Authorize(profile, r.Role).Allow {
			links = append(links, Link{Route: r.Pattern, Label: label})
		}
	}
	return links
}

// DashboardView is the generic screen for any authenticated user.
type DashboardView struct {
	Status types.SessionStatus  `json:"status"`
	API    *types.BreakerStatus `json:"api,omitempty"`
	Links  []Link               `json:"links"`
}

// Dashboard mounts the generic fallback screen and shows the session and
// the state of the API circuit breaker.
func (a *App) Dashboard(ctx context.Context) (*DashboardView, error) {
	m, profile, err := a.mount(guard.RouteDashboard)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{Status: a.session.Status(m.Context()), Links: linksFor(profile)}
	if a.breaker != nil {
		st := a.breaker.Status()
		view.API = &st
	}
	if !m.Active() {
		return nil, ErrScreenLeft
	}
	return view, nil
}
