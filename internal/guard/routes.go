package guard

import (
	"strings"

	"hirelink/internal/types"
)

// Route paths. Segments starting with ':' are parameters.
const (
	RouteHome       = "/"
	RouteSignup     = "/signup"
	RouteLogin      = "/login"
	RouteLogout     = "/logout"
	RouteCandidate  = "/candidate"
	RouteApply      = "/apply/:jobId"
	RouteHR         = "/hr"
	RouteHRJobs     = "/hrjobs"
	RouteJobResumes = "/jobs/:job_id"
	RouteAnalyze    = "/analyze-resume"
	RouteDashboard  = "/dashboard"
	RouteChat       = "/chat"

	// AnonymousLanding is where a missing or unreadable profile is sent.
	AnonymousLanding = RouteLogin
	// Fallback is where a role mismatch is sent.
	Fallback = RouteDashboard
)

// Route is one screen of the client.
type Route struct {
	Pattern string
	Screen  string
	// Public routes mount without consulting the guard.
	Public bool
	// Role is the role a protected route requires; RoleAny admits any
	// authenticated user.
	Role types.Role
}

// Routes is the full route table.
var Routes = []Route{
	{Pattern: RouteHome, Screen: "home", Public: true},
	{Pattern: RouteSignup, Screen: "signup", Public: true},
	{Pattern: RouteLogin, Screen: "login", Public: true},
	{Pattern: RouteLogout, Screen: "logout", Public: true},
	{Pattern: RouteChat, Screen: "chat", Public: true},
	{Pattern: RouteCandidate, Screen: "candidate", Role: types.RoleCandidate},
	{Pattern: RouteApply, Screen: "apply", Role: types.RoleCandidate},
	{Pattern: RouteHR, Screen: "hr", Role: types.RoleHR},
	{Pattern: RouteHRJobs, Screen: "hrjobs", Role: types.RoleHR},
	{Pattern: RouteJobResumes, Screen: "jobresumes", Role: types.RoleHR},
	{Pattern: RouteAnalyze, Screen: "analyzer", Role: types.RoleAny},
	{Pattern: RouteDashboard, Screen: "dashboard", Role: types.RoleAny},
}

// Lookup finds the route matching a concrete path and extracts its
// parameters.
func Lookup(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, r := range Routes {
		if params, ok := match(splitPath(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Build substitutes params into pattern, given as name/value pairs.
func Build(pattern string, params ...string) string {
	segs := splitPath(pattern)
	values := make(map[string]string, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = values[s[1:]]
		}
	}
	return "/" + strings.Join(segs, "/")
}

// LandingFor returns the screen a freshly authenticated user lands on.
func LandingFor(role types.Role) string {
	if !role.Known() {
		return RouteDashboard
	}
	if role == types.RoleHR {
		return RouteHR
	}
	return RouteCandidate
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
