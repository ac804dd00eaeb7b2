// Package session holds the two pieces of client-side session state: the
// bearer credential (a site-scoped cookie with a client-declared max-age) and
// the cached user profile (a persistent key-value entry).
//
// Screen code never touches the underlying persistence directly; every read
// and write goes through Store so the credential/profile pairing is enforced
// in one place. All calls are synchronous: a write is visible to the very
// next read.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"hirelink/internal/errors"
	"hirelink/internal/jsonx"
	"hirelink/internal/storage"
	"hirelink/internal/types"
)

const (
	DefaultCookieName = "access_token"
	DefaultProfileKey = "user"

	// DefaultMaxAge is the max-age the client declares for the credential at login.
	DefaultMaxAge = 7 * 24 * time.Hour
)

// CookieStore is the cookie-like mechanism backing the credential.
type CookieStore interface {
	Get(ctx context.Context, name string, now time.Time) (storage.Cookie, bool, error)
	Set(ctx context.Context, c storage.Cookie) error
	Expire(ctx context.Context, name string) error
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// ItemStore is the persistent key-value mechanism backing the profile.
type ItemStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Options tune a Store. Zero values select the defaults.
type Options struct {
	CookieName string
	ProfileKey string
	Now        func() time.Time
	Logger     *errors.Logger
}

// Store is the session store.
type Store struct {
	mu         sync.Mutex
	cookies    CookieStore
	items      ItemStore
	cookieName string
	profileKey string
	now        func() time.Time
	logger     *errors.Logger
}

// NewStore creates a store over the given backends.
func NewStore(cookies CookieStore, items ItemStore, opts Options) *Store {
	s := &Store{
		cookies:    cookies,
		items:      items,
		cookieName: opts.CookieName,
		profileKey: opts.ProfileKey,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if s.cookieName == "" {
		s.cookieName = DefaultCookieName
	}
	if s.profileKey == "" {
		s.profileKey = DefaultProfileKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = errors.Discard()
	}
	return s
}

// Credential returns the stored bearer token. It never fails: an unreadable
// or expired cookie is reported as absent.
func (s *Store) Credential(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok, err := s.cookies.Get(ctx, s.cookieName, s.now())
	if err != nil {
		s.logger.Warn("Credential unreadable, treating as absent", "cookie", s.cookieName, "error", err)
		return "", false
	}
	if !ok || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// CredentialExpiry returns the client-declared expiry of the stored credential.
func (s *Store) CredentialExpiry(ctx context.Context) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok, err := s.cookies.Get(ctx, s.cookieName, s.now())
	if err != nil || !ok || c.Value == "" {
		return time.Time{}, false
	}
	return c.Expires, true
}

// SetCredential stores token with the given max-age, replacing any prior value.
func (s *Store) SetCredential(ctx context.Context, token string, maxAge time.Duration) error {
	if token == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "credential must not be empty", nil)
	}
	if maxAge <= 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("credential max-age must be positive, got %s", maxAge), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCredentialLocked(ctx, token, maxAge)
}

func (s *Store) setCredentialLocked(ctx context.Context, token string, maxAge time.Duration) error {
	err := s.cookies.Set(ctx, storage.Cookie{
		Name:    s.cookieName,
		Value:   token,
		Path:    "/",
		Expires: s.now().Add(maxAge),
	})
	if err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to store credential", err)
	}
	return nil
}

// ClearCredential removes the credential. Safe to call when absent.
func (s *Store) ClearCredential(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCredentialLocked(ctx)
}

func (s *Store) clearCredentialLocked(ctx context.Context) error {
	if err := s.cookies.Expire(ctx, s.cookieName); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to clear credential", err)
	}
	// Expired rows are invisible already; dropping them is housekeeping.
	if n, err := s.cookies.Purge(ctx, s.now()); err != nil {
		s.logger.Warn("Failed to purge expired cookies", "error", err)
	} else if n > 0 {
		s.logger.Debug("Purged expired cookies", "count", n)
	}
	return nil
}

// Profile returns the cached profile, or nil when none is stored. A stored
// value that cannot be decoded yields an error wrapping ErrProfileCorrupt;
// callers treat that as anonymous and force re-authentication.
func (s *Store) Profile(ctx context.Context) (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.items.GetItem(ctx, s.profileKey)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to read stored profile", err)
	}
	if !ok {
		return nil, nil
	}

	var p types.UserProfile
	if err := jsonx.Unmarshal([]byte(raw), &p); err != nil {
		return nil, errors.NewDecodeError(errors.ErrCodeProfileCorrupt, "Stored profile cannot be decoded",
			fmt.Errorf("%w: %v", errors.ErrProfileCorrupt, err))
	}
	return &p, nil
}

// SetProfile stores p, replacing any prior profile.
func (s *Store) SetProfile(ctx context.Context, p types.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setProfileLocked(ctx, p)
}

func (s *Store) setProfileLocked(ctx context.Context, p types.UserProfile) error {
	data, err := jsonx.Marshal(p)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "Failed to encode profile", err)
	}
	if err := s.items.SetItem(ctx, s.profileKey, string(data)); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to store profile", err)
	}
	return nil
}

// ClearProfile removes the cached profile. Safe to call when absent.
func (s *Store) ClearProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearProfileLocked(ctx)
}

func (s *Store) clearProfileLocked(ctx context.Context) error {
	if err := s.items.RemoveItem(ctx, s.profileKey); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "Failed to clear profile", err)
	}
	return nil
}

// Establish stores the credential and the profile of a successful login.
// If the profile cannot be written the credential is rolled back so the
// store never ends up half-authenticated.
func (s *Store) Establish(ctx context.Context, token string, maxAge time.Duration, p types.UserProfile) error {
	if token == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "credential must not be empty", nil)
	}
	if maxAge <= 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("credential max-age must be positive, got %s", maxAge), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setCredentialLocked(ctx, token, maxAge); err != nil {
		return err
	}
	if err := s.setProfileLocked(ctx, p); err != nil {
		_ = s.clearCredentialLocked(ctx)
		return err
	}
	return nil
}

// Clear removes both the credential and the profile. Both removals are
// attempted even if the first fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return stderrors.Join(s.clearCredentialLocked(ctx), s.clearProfileLocked(ctx))
}

// Authenticated reports whether both halves of the session are present and
// the profile decodes.
func (s *Store) Authenticated(ctx context.Context) bool {
	if _, ok := s.Credential(ctx); !ok {
		return false
	}
	p, err := s.Profile(ctx)
	return err == nil && p != nil
}

// Status summarizes the session for display.
func (s *Store) Status(ctx context.Context) types.SessionStatus {
	var st types.SessionStatus
	if p, err := s.Profile(ctx); err == nil {
		st.Profile = p
	}
	if token, ok := s.Credential(ctx); ok {
		st.HasCredential = true
		if exp, ok := s.CredentialExpiry(ctx); ok {
			st.CredentialExpires = exp.UTC().Format(time.RFC3339)
		}
		if exp, ok := TokenExpiry(token); ok {
			st.TokenExpires = exp.UTC().Format(time.RFC3339)
		}
	}
	return st
}

// FromDB builds a store over an opened session database.
func FromDB(db *storage.DB, opts Options) *Store {
	return NewStore(db.Cookies, db.Local, opts)
}
