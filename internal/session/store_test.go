package session

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"hirelink/internal/errors"
	"hirelink/internal/storage"
	"hirelink/internal/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T) (*Store, *storage.DB, *fakeClock) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return FromDB(db, Options{Now: clock.Now}), db, clock
}

var hrProfile = types.UserProfile{
	Name: "Hana", Username: "hana", Email: "h@x.com", PhoneNo: "1", Role: types.RoleHR, TokenType: "bearer",
}

func TestEstablish_RoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Establish(ctx, "T", DefaultMaxAge, hrProfile))

	token, ok := s.Credential(ctx)
	require.True(t, ok)
	assert.Equal(t, "T", token)

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.RoleHR, p.Role)
	assert.True(t, s.Authenticated(ctx))
}

func TestCredential_ExpiresAfterMaxAge(t *testing.T) {
	s, _, clock := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetCredential(ctx, "T", time.Hour))
	clock.t = clock.t.Add(59 * time.Minute)
	_, ok := s.Credential(ctx)
	assert.True(t, ok)

	clock.t = clock.t.Add(time.Minute)
	_, ok = s.Credential(ctx)
	assert.False(t, ok)
}

func TestSetCredential_Overwrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetCredential(ctx, "old", time.Hour))
	require.NoError(t, s.SetCredential(ctx, "new", time.Hour))

	token, ok := s.Credential(ctx)
	require.True(t, ok)
	assert.Equal(t, "new", token)
}

func TestSetCredential_RejectsInvalidInput(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	err := s.SetCredential(ctx, "", time.Hour)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))

	err = s.SetCredential(ctx, "T", 0)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
}

func TestClear_IsIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Establish(ctx, "T", DefaultMaxAge, hrProfile))

	for i := 0; i < 2; i++ {
		require.NoError(t, s.ClearCredential(ctx))
		require.NoError(t, s.ClearProfile(ctx))

		_, ok := s.Credential(ctx)
		assert.False(t, ok)
		p, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestProfile_CorruptValueIsReportedNotFabricated(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, db.Local.SetItem(ctx, DefaultProfileKey, "{not json"))

	p, err := s.Profile(ctx)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrProfileCorrupt))
	assert.True(t, errors.Is(err, errors.ErrorTypeDecode))
	assert.False(t, s.Authenticated(ctx))
}

func TestProfile_StoredAsJSONUnderUserKey(t *testing.T) {
	s, db, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetProfile(ctx, hrProfile))

	raw, ok, err := db.Local.GetItem(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Hana","username":"hana","email":"h@x.com","phone_no":"1","role":"hr","token_type":"bearer"}`, raw)
}

func TestCredential_StoredAsAccessTokenCookie(t *testing.T) {
	s, db, clock := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetCredential(ctx, "T", DefaultMaxAge))

	c, ok, err := db.Cookies.Get(ctx, "access_token", clock.Now())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour).Unix(), c.Expires.Unix())
}

func TestAuthenticated_ProfileWithoutCredentialIsAnonymous(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetProfile(ctx, hrProfile))

	assert.False(t, s.Authenticated(ctx))
}

type brokenCookies struct{}

func (brokenCookies) Get(context.Context, string, time.Time) (storage.Cookie, bool, error) {
	return storage.Cookie{}, false, stderrors.New("disk on fire")
}
func (brokenCookies) Set(context.Context, storage.Cookie) error { return stderrors.New("disk on fire") }
func (brokenCookies) Expire(context.Context, string) error     { return stderrors.New("disk on fire") }
func (brokenCookies) Purge(context.Context, time.Time) (int64, error) {
	return 0, stderrors.New("disk on fire")
}

// purgeCounter records how many rows each purge removed.
type purgeCounter struct {
	*storage.CookieJar
	removed []int64
}

func (p *purgeCounter) Purge(ctx context.Context, now time.Time) (int64, error) {
	n, err := p.CookieJar.Purge(ctx, now)
	p.removed = append(p.removed, n)
	return n, err
}

func TestClear_PurgesExpiredCookieRows(t *testing.T) {
	_, db, clock := newTestStore(t)
	ctx := context.Background()
	cookies := &purgeCounter{CookieJar: db.Cookies}
	s := NewStore(cookies, db.Local, Options{Now: clock.Now})

	require.NoError(t, s.Establish(ctx, "T", DefaultMaxAge, hrProfile))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, []int64{1, 0}, cookies.removed)
	_, ok := s.Credential(ctx)
	assert.False(t, ok)
}

type memItems map[string]string

func (m memItems) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}
func (m memItems) SetItem(_ context.Context, key, value string) error { m[key] = value; return nil }
func (m memItems) RemoveItem(_ context.Context, key string) error    { delete(m, key); return nil }

func TestCredential_UnreadableIsAbsent(t *testing.T) {
	s := NewStore(brokenCookies{}, memItems{}, Options{})

	_, ok := s.Credential(context.Background())
	assert.False(t, ok)
}

func TestEstablish_FailedCredentialLeavesProfileUntouched(t *testing.T) {
	items := memItems{}
	s := NewStore(brokenCookies{}, items, Options{})

	err := s.Establish(context.Background(), "T", time.Hour, hrProfile)
	require.Error(t, err)
	assert.Empty(t, items)
}

func TestClear_AttemptsBothHalves(t *testing.T) {
	items := memItems{DefaultProfileKey: "{}"}
	s := NewStore(brokenCookies{}, items, Options{})

	err := s.Clear(context.Background())
	require.Error(t, err)
	assert.Empty(t, items)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Unix(1_800_000_000, 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())

	_, ok = TokenExpiry("tok123")
	assert.False(t, ok)
}

func TestStatus(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	st := s.Status(ctx)
	assert.Nil(t, st.Profile)
	assert.False(t, st.HasCredential)

	require.NoError(t, s.Establish(ctx, "tok123", DefaultMaxAge, hrProfile))
	st = s.Status(ctx)
	require.NotNil(t, st.Profile)
	assert.True(t, st.HasCredential)
	assert.NotEmpty(t, st.CredentialExpires)
	assert.Empty(t, st.TokenExpires)
}
