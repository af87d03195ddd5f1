package data

import (
	"database/sql"
	"time"
)

type MonitoredName struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type TriageRecord struct {
	PostID    string    `db:"post_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Account is a connected Reddit account. Refresh tokens are never stored.
type Account struct {
	ID            int          `db:"id"`
	Username      string       `db:"username"`
	AccessToken   string       `db:"access_token"`
	TokenType     string       `db:"token_type"`
	ExpiresIn     int          `db:"expires_in"`
	ExpiresAt     sql.NullTime `db:"expires_at"`
	Scope         string       `db:"scope"`
	Status        string       `db:"status"`
	Karma         int          `db:"karma"`
	TotalPosts    int          `db:"total_posts"`
	LastConnected sql.NullTime `db:"last_connected"`
	CreatedAt     time.Time    `db:"created_at"`
}

// Expired reports whether the stored access token is known to be past its expiry.
func (a Account) Expired(now time.Time) bool {
	return a.ExpiresAt.Valid && !now.Before(a.ExpiresAt.Time)
}
