package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	subredditsTable = "monitored_subreddits"
	keywordsTable   = "keywords"
)

// MonitorRepo stores a case-insensitively unique list of names, either the
// monitored subreddits or the keywords.
type MonitorRepo struct {
	db    *sqlx.DB
	table string
}

func NewSubredditRepo(db *sqlx.DB) *MonitorRepo {
	return &MonitorRepo{db: db, table: subredditsTable}
}

func NewKeywordRepo(db *sqlx.DB) *MonitorRepo {
	return &MonitorRepo{db: db, table: keywordsTable}
}

// Add returns false when a name differing only in case already exists.
func (r *MonitorRepo) Add(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name)
		VALUES ($1)
		ON CONFLICT (LOWER(name)) DO NOTHING`, r.table)

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return false, fmt.Errorf("add %s: %w", r.table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *MonitorRepo) Remove(ctx context.Context, name string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE LOWER(name) = LOWER($1)", r.table)

	_, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("remove %s: %w", r.table, err)
	}

	return nil
}

func (r *MonitorRepo) List(ctx context.Context) ([]string, error) {
	names := []string{}
	query := fmt.Sprintf("SELECT name FROM %s ORDER BY id ASC", r.table)

	err := r.db.SelectContext(ctx, &names, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}

	return names, nil
}
