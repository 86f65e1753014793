package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	contracts "maktub/contracts/mq"
	"maktub/internal/model"
)

// NotificationStore persists processed events.
type NotificationStore interface {
	Insert(ctx context.Context, log *model.NotificationLog) error
}

// DedupAcquirer grants at-most-once processing per handler + event id.
type DedupAcquirer interface {
	AcquireOnce(ctx context.Context, handler, eventID string) bool
}

// NotificationService turns letter lifecycle events into notification
// log rows, deduplicated per event id.
type NotificationService struct {
	repo    NotificationStore
	deduper DedupAcquirer
	logger  *zap.Logger
}

func NewNotificationService(repo NotificationStore, deduper DedupAcquirer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:    repo,
		deduper: deduper,
		logger:  logger,
	}
}

// HandleLettersChanged records a count-change notification from the
// background sync.
func (s *NotificationService) HandleLettersChanged(ctx context.Context, raw json.RawMessage) error {
	var p contracts.LettersChangedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	if !s.deduper.AcquireOnce(ctx, "letters_changed", p.EventID) {
		s.logger.Info("skipping duplicate event", zap.String("event_id", p.EventID))
		return nil
	}

	delta := p.NewCount - p.PreviousCount
	return s.repo.Insert(ctx, &model.NotificationLog{
		Event:   "letters_changed",
		Message: fmt.Sprintf("وصل %d خطاب جديد (الإجمالي %d)", delta, p.NewCount),
	})
}

// HandleLetterReviewed records a review decision notification.
func (s *NotificationService) HandleLetterReviewed(ctx context.Context, raw json.RawMessage) error {
	var p contracts.LetterReviewedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	if !s.deduper.AcquireOnce(ctx, "letter_reviewed", p.EventID) {
		s.logger.Info("skipping duplicate event", zap.String("event_id", p.EventID))
		return nil
	}

	return s.repo.Insert(ctx, &model.NotificationLog{
		Event:    "letter_reviewed",
		LetterID: p.LetterID,
		Message:  fmt.Sprintf("تمت مراجعة الخطاب %s: %s", p.LetterID, p.Status),
	})
}

// HandleLetterDeleted records a deletion notification.
func (s *NotificationService) HandleLetterDeleted(ctx context.Context, raw json.RawMessage) error {
	var p contracts.LetterDeletedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	if !s.deduper.AcquireOnce(ctx, "letter_deleted", p.EventID) {
		s.logger.Info("skipping duplicate event", zap.String("event_id", p.EventID))
		return nil
	}

	return s.repo.Insert(ctx, &model.NotificationLog{
		Event:    "letter_deleted",
		LetterID: p.LetterID,
		Message:  fmt.Sprintf("تم حذف الخطاب %s", p.LetterID),
	})
}
