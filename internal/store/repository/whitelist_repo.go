package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maktub/internal/model"
)

type WhitelistRepository struct {
	db *pgxpool.Pool
}

func NewWhitelistRepository(db *pgxpool.Pool) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

// ListEntries returns all whitelist entries in insertion order.
func (r *WhitelistRepository) ListEntries(ctx context.Context) ([]model.WhitelistEntry, error) {
	query := `
        SELECT email, role, status, added_by, to_char(added_at, 'YYYY-MM-DD')
        FROM whitelist
        ORDER BY row_id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.WhitelistEntry{}
	for rows.Next() {
		var e model.WhitelistEntry
		if err := rows.Scan(&e.Email, &e.Role, &e.Status, &e.AddedBy, &e.DateAdded); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ValuesRows projects the whitelist into the positional row layout,
// columns A through E.
func (r *WhitelistRepository) ValuesRows(ctx context.Context) ([][]string, error) {
	entries, err := r.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	values := make([][]string, 0, len(entries))
	for _, e := range entries {
		values = append(values, []string{e.Email, e.Role, e.Status, e.AddedBy, e.DateAdded})
	}
	return values, nil
}

// FindByEmail returns a whitelist entry, matched case-insensitively.
// Returns (nil, nil) when the email is not listed.
func (r *WhitelistRepository) FindByEmail(ctx context.Context, email string) (*model.WhitelistEntry, error) {
	query := `
        SELECT email, role, status, added_by, to_char(added_at, 'YYYY-MM-DD')
        FROM whitelist
        WHERE email = LOWER($1)
    `
	var e model.WhitelistEntry
	err := r.db.QueryRow(ctx, query, email).Scan(&e.Email, &e.Role, &e.Status, &e.AddedBy, &e.DateAdded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AddEntry inserts or refreshes a whitelist entry.
func (r *WhitelistRepository) AddEntry(ctx context.Context, e *model.WhitelistEntry) error {
	query := `
        INSERT INTO whitelist (email, role, status, added_by, added_at)
        VALUES (LOWER($1), $2, $3, $4, NOW())
        ON CONFLICT (email) DO UPDATE
        SET role = EXCLUDED.role,
            status = EXCLUDED.status,
            added_by = EXCLUDED.added_by
    `
	_, err := r.db.Exec(ctx, query, e.Email, e.Role, e.Status, e.AddedBy)
	return err
}

// RemoveEntry deletes a whitelist entry. Reports whether a row existed.
func (r *WhitelistRepository) RemoveEntry(ctx context.Context, email string) (bool, error) {
	query := `
        DELETE FROM whitelist
        WHERE email = LOWER($1)
    `
	tag, err := r.db.Exec(ctx, query, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus flips an entry between active and inactive.
func (r *WhitelistRepository) UpdateStatus(ctx context.Context, email, status string) error {
	query := `
        UPDATE whitelist
        SET status = $1
        WHERE email = LOWER($2)
    `
	tag, err := r.db.Exec(ctx, query, status, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
