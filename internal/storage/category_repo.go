package storage

import (
	"context"
	"fmt"
)

type CategoryRepo struct {
	db *DB
}

func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// UpsertCategory inserts-or-finds the category row by exact name. No fuzzy
// canonicalization: semantically similar labels stay distinct rows.
func (r *CategoryRepo) UpsertCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO categories (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert category: %w", err)
	}
	return id, nil
}

// LinkCategory records the complaint/category association. A duplicate link
// is a deliberate no-op, not an error.
func (r *CategoryRepo) LinkCategory(ctx context.Context, complaintID, categoryID int64) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO complaint_categories (complaint_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`, complaintID, categoryID)
	if err != nil {
		return fmt.Errorf("link category %d to complaint %d: %w", categoryID, complaintID, err)
	}
	return nil
}
