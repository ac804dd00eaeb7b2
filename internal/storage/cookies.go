package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cookie is a site-scoped name/value pair with an absolute expiry.
type Cookie struct {
	Name    string
	Value   string
	Path    string
	Expires time.Time
}

// Expired reports whether the cookie is no longer visible at now.
func (c Cookie) Expired(now time.Time) bool {
	return !now.Before(c.Expires)
}

// CookieJar stores cookies the way a user agent would: expired cookies are
// invisible to readers even while their row still exists.
type CookieJar struct {
	db DBTX
}

func NewCookieJar(db DBTX) *CookieJar {
	return &CookieJar{db: db}
}

// Get returns the named cookie if it exists and has not expired at now.
func (j *CookieJar) Get(ctx context.Context, name string, now time.Time) (Cookie, bool, error) {
	var (
		c       Cookie
		expires int64
	)
	err := j.db.QueryRowContext(ctx,
		`SELECT name, value, path, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&c.Name, &c.Value, &c.Path, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Cookie{}, false, nil
	}
	if err != nil {
		return Cookie{}, false, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}

	c.Expires = time.Unix(expires, 0)
	if c.Expired(now) {
		return Cookie{}, false, nil
	}
	return c, true, nil
}

// Set writes the cookie, overwriting any previous value.
func (j *CookieJar) Set(ctx context.Context, c Cookie) error {
	if c.Path == "" {
		c.Path = "/"
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, path, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, path = excluded.path, expires_at = excluded.expires_at
	`, c.Name, c.Value, c.Path, c.Expires.Unix())
	if err != nil {
		return fmt.Errorf("failed to set cookie[%s]: %w", c.Name, err)
	}
	return nil
}

// Expire deletes the cookie by moving its expiry to the epoch. Expiring an
// absent cookie is a no-op.
func (j *CookieJar) Expire(ctx context.Context, name string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE cookies SET value = '', expires_at = 0 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to expire cookie[%s]: %w", name, err)
	}
	return nil
}

// Purge removes rows whose expiry passed before now.
func (j *CookieJar) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cookies: %w", err)
	}
	return res.RowsAffected()
}
