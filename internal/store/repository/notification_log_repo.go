package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"maktub/internal/model"
)

type NotificationLogRepository struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) Insert(ctx context.Context, log *model.NotificationLog) error {
	query := `
        INSERT INTO notification_log (event, letter_id, message, created_at)
        VALUES ($1, $2, $3, NOW())
    `
	_, err := r.db.Exec(ctx, query, log.Event, log.LetterID, log.Message)
	return err
}

// ListRecent returns the newest notification rows, capped at limit.
func (r *NotificationLogRepository) ListRecent(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	query := `
        SELECT id, event, letter_id, message, created_at
        FROM notification_log
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.NotificationLog{}
	for rows.Next() {
		var l model.NotificationLog
		if err := rows.Scan(&l.ID, &l.Event, &l.LetterID, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
