package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"maktub/internal/model"
)

// Settings option categories.
const (
	OptionLetterType     = "letter_type"
	OptionRecipientTitle = "recipient_title"
	OptionStyle          = "style"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings loads the dropdown vocabularies.
func (r *SettingsRepository) GetSettings(ctx context.Context) (*model.Settings, error) {
	query := `
        SELECT category, value
        FROM settings_options
        ORDER BY category, position
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := &model.Settings{}
	for rows.Next() {
		var category, value string
		if err := rows.Scan(&category, &value); err != nil {
			return nil, err
		}
		switch category {
		case OptionLetterType:
			s.LetterTypes = append(s.LetterTypes, value)
		case OptionRecipientTitle:
			s.RecipientTitles = append(s.RecipientTitles, value)
		case OptionStyle:
			s.Styles = append(s.Styles, value)
		}
	}

	return s, rows.Err()
}

// ValuesRows projects the settings into the positional row layout the
// sheet clients expect: letter types in column B, recipient titles in
// column C, styles in column G. Rows are padded to the longest list.
func (r *SettingsRepository) ValuesRows(ctx context.Context) ([][]string, error) {
	s, err := r.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	n := len(s.LetterTypes)
	if len(s.RecipientTitles) > n {
		n = len(s.RecipientTitles)
	}
	if len(s.Styles) > n {
		n = len(s.Styles)
	}

	values := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 7)
		if i < len(s.LetterTypes) {
			row[1] = s.LetterTypes[i]
		}
		if i < len(s.RecipientTitles) {
			row[2] = s.RecipientTitles[i]
		}
		if i < len(s.Styles) {
			row[6] = s.Styles[i]
		}
		values = append(values, row)
	}
	return values, nil
}
