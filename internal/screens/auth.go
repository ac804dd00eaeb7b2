package screens

import (
	"context"

	"hirelink/internal/guard"
	"hirelink/internal/types"
)

const (
	MsgWelcomeBack     = "Welcome back! Redirecting..."
	MsgSignupSucceeded = "Registration successful! Redirecting..."
	MsgLoggedOut       = "You have been logged out successfully."
	MsgNotLoggedIn     = "You are not logged in."
	MsgLogoutCancelled = "Logout cancelled."
)

// LoginView is the outcome of a successful login.
type LoginView struct {
	Message string            `json:"message"`
	Profile types.UserProfile `json:"profile"`
	Landing string            `json:"landing"`
	// Route is where the user ended up; empty if they left meanwhile.
	Route string `json:"route,omitempty"`
}

// Login mounts the login screen and submits credentials. After the
// redirect delay the user lands on the screen for their role.
func (a *App) Login(ctx context.Context, in types.LoginInput) (*LoginView, error) {
	m, _, err := a.mount(guard.RouteLogin)
	if err != nil {
		return nil, err
	}

	res, err := a.lifecycle.Login(m.Context(), in)
	if err != nil {
		return nil, err
	}

	view := &LoginView{Message: MsgWelcomeBack, Profile: res.Profile, Landing: res.Landing}
	view.Route = a.after(m, res.Landing)
	return view, nil
}

// SignupView is the outcome of a successful registration.
type SignupView struct {
	Message string               `json:"message"`
	Account types.SignupResponse `json:"account"`
	Route   string               `json:"route,omitempty"`
}

// Signup registers an account and sends the user to the login screen.
// It never authenticates.
func (a *App) Signup(ctx context.Context, in types.SignupInput) (*SignupView, error) {
	m, _, err := a.mount(guard.RouteSignup)
	if err != nil {
		return nil, err
	}

	resp, err := a.lifecycle.Signup(m.Context(), in)
	if err != nil {
		return nil, err
	}

	view := &SignupView{Message: MsgSignupSucceeded, Account: *resp}
	view.Route = a.after(m, guard.RouteLogin)
	return view, nil
}

// Confirmer asks the user to confirm logout.
type Confirmer func(ctx context.Context) (bool, error)

// LogoutView is what the logout screen shows.
type LogoutView struct {
	LoggedIn  bool   `json:"loggedIn"`
	LoggedOut bool   `json:"loggedOut"`
	Message   string `json:"message"`
	Route     string `json:"route,omitempty"`
}

// Logout shows the logout screen. With a session present it asks confirm;
// confirmation clears the session and goes home after the delay, refusal
// goes back without touching anything.
func (a *App) Logout(ctx context.Context, confirm Confirmer) (*LogoutView, error) {
	m, _, err := a.mount(guard.RouteLogout)
	if err != nil {
		return nil, err
	}

	present, err := a.lifecycle.BeginLogout(m.Context())
	if err != nil {
		return nil, err
	}
	if !present {
		return &LogoutView{Message: MsgNotLoggedIn}, nil
	}

	ok, err := confirm(m.Context())
	if err != nil || !ok {
		a.lifecycle.CancelLogout(ctx)
		view := &LogoutView{LoggedIn: true, Message: MsgLogoutCancelled}
		if m.Active() {
			view.Route = a.nav.Back().Path()
		}
		return view, err
	}

	if err := a.lifecycle.ConfirmLogout(ctx); err != nil {
		return nil, err
	}
	view := &LogoutView{LoggedIn: true, LoggedOut: true, Message: MsgLoggedOut}
	view.Route = a.after(m, guard.RouteHome)
	return view, nil
}
