package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"maktub/internal/model"
)

// ErrNotFound is returned when a targeted row does not exist.
var ErrNotFound = errors.New("not found")

type LetterRepository struct {
	db *pgxpool.Pool
}

func NewLetterRepository(db *pgxpool.Pool) *LetterRepository {
	return &LetterRepository{db: db}
}

// ListLetters returns all submissions in insertion order.
func (r *LetterRepository) ListLetters(ctx context.Context) ([]model.LetterRecord, error) {
	query := `
        SELECT letter_id, submitted_at, letter_type, recipient, subject, content,
               letter_link, review_status, send_status, reviewer_name, review_notes, writer
        FROM submissions
        ORDER BY row_id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	letters := []model.LetterRecord{}
	for rows.Next() {
		var l model.LetterRecord
		err := rows.Scan(
			&l.ID,
			&l.Date,
			&l.Type,
			&l.Recipient,
			&l.Subject,
			&l.Content,
			&l.LetterLink,
			&l.ReviewStatus,
			&l.SendStatus,
			&l.ReviewerName,
			&l.ReviewNotes,
			&l.Writer,
		)
		if err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}

	return letters, rows.Err()
}

// ValuesRows projects submissions into the positional row layout the sheet
// clients expect: columns A through O with the unused columns left blank.
func (r *LetterRepository) ValuesRows(ctx context.Context) ([][]string, error) {
	letters, err := r.ListLetters(ctx)
	if err != nil {
		return nil, err
	}

	values := make([][]string, 0, len(letters))
	for _, l := range letters {
		row := make([]string, 15)
		row[0] = l.ID
		row[1] = l.Date
		row[3] = l.Type
		row[4] = l.Recipient
		row[5] = l.Subject
		row[6] = l.Content
		row[8] = l.LetterLink
		row[9] = l.ReviewStatus
		row[10] = l.SendStatus
		row[12] = l.ReviewerName
		row[13] = l.ReviewNotes
		row[14] = l.Writer
		values = append(values, row)
	}
	return values, nil
}

// CreateLetter inserts a new submission row.
func (r *LetterRepository) CreateLetter(ctx context.Context, l *model.LetterRecord) error {
	query := `
        INSERT INTO submissions (letter_id, submitted_at, letter_type, recipient, subject,
                                 content, letter_link, review_status, send_status,
                                 reviewer_name, review_notes, writer)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.db.Exec(ctx, query,
		l.ID, l.Date, l.Type, l.Recipient, l.Subject, l.Content,
		l.LetterLink, l.ReviewStatus, l.SendStatus, l.ReviewerName, l.ReviewNotes, l.Writer,
	)
	return err
}

// UpdateReviewStatus sets the review fields for one letter. A non-nil
// content replaces the letter body as well.
func (r *LetterRepository) UpdateReviewStatus(ctx context.Context, letterID, status, reviewerName, notes string, content *string) error {
	query := `
        UPDATE submissions
        SET review_status = $1,
            reviewer_name = $2,
            review_notes = $3,
            content = COALESCE($4, content),
            reviewed_at = NOW()
        WHERE letter_id = $5
    `
	tag, err := r.db.Exec(ctx, query, status, reviewerName, notes, content, letterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLetter removes a submission. Reports whether a row was deleted;
// deleting a missing id is not an error.
func (r *LetterRepository) DeleteLetter(ctx context.Context, letterID string) (bool, error) {
	query := `
        DELETE FROM submissions
        WHERE letter_id = $1
    `
	tag, err := r.db.Exec(ctx, query, letterID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
