package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kova98/redditsentiment.api/enums"
)

// TriageRepo stores the post ids of one triage set. Each set has its own table.
type TriageRepo struct {
	db    *sqlx.DB
	set   enums.TriageSet
	table string
}

func NewTriageRepo(db *sqlx.DB, set enums.TriageSet) *TriageRepo {
	table := set.Table()
	if table == "" {
		panic(fmt.Sprintf("unknown triage set %q", set))
	}
	return &TriageRepo{db: db, set: set, table: table}
}

// Add is idempotent.
func (r *TriageRepo) Add(ctx context.Context, postID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (post_id)
		VALUES ($1)
		ON CONFLICT (post_id) DO NOTHING`, r.table)

	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("add %s post: %w", r.set, err)
	}

	return nil
}

// Remove succeeds whether or not the post was in the set.
func (r *TriageRepo) Remove(ctx context.Context, postID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE post_id = $1", r.table)

	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("remove %s post: %w", r.set, err)
	}

	return nil
}

func (r *TriageRepo) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	query := fmt.Sprintf("SELECT post_id FROM %s ORDER BY created_at ASC", r.table)

	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, fmt.Errorf("list %s posts: %w", r.set, err)
	}

	return ids, nil
}
