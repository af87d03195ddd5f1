package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kova98/redditsentiment.api/data"
)

type AccountRepo struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepo {
	return &AccountRepo{db}
}

// Upsert inserts or refreshes the account keyed by username and returns its id.
func (r *AccountRepo) Upsert(ctx context.Context, account data.Account) (int, error) {
	query := `
		INSERT INTO reddit_accounts
			(username, access_token, token_type, expires_in, expires_at, scope, status, karma, total_posts, last_connected)
		VALUES
			(:username, :access_token, :token_type, :expires_in, :expires_at, :scope, :status, :karma, :total_posts, now())
		ON CONFLICT (username) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			expires_in = EXCLUDED.expires_in,
			expires_at = EXCLUDED.expires_at,
			scope = EXCLUDED.scope,
			status = EXCLUDED.status,
			karma = EXCLUDED.karma,
			total_posts = EXCLUDED.total_posts,
			last_connected = now()
		RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, account)
	if err != nil {
		return 0, fmt.Errorf("upsert account: %w", err)
	}
	defer rows.Close()

	var id int
	if rows.Next() {
		err = rows.Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("scan returned id: %w", err)
		}
	}

	return id, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]data.Account, error) {
	accounts := []data.Account{}
	query := `
		SELECT id, username, access_token, token_type, expires_in, expires_at, scope,
			status, karma, total_posts, last_connected, created_at
		FROM reddit_accounts
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &accounts, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

// Get returns nil when the account does not exist.
func (r *AccountRepo) Get(ctx context.Context, id int) (*data.Account, error) {
	var account data.Account
	query := `
		SELECT id, username, access_token, token_type, expires_in, expires_at, scope,
			status, karma, total_posts, last_connected, created_at
		FROM reddit_accounts
		WHERE id = $1`

	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *AccountRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	query := "UPDATE reddit_accounts SET status = $1 WHERE id = $2"
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}

	return nil
}

func (r *AccountRepo) UpdateStats(ctx context.Context, id, karma, totalPosts int) error {
	query := "UPDATE reddit_accounts SET karma = $1, total_posts = $2 WHERE id = $3"
	_, err := r.db.ExecContext(ctx, query, karma, totalPosts, id)
	if err != nil {
		return fmt.Errorf("update account stats: %w", err)
	}

	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM reddit_accounts WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}
