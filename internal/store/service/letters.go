package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maktub/contracts/mq"
	"maktub/internal/model"
	"maktub/internal/store/repository"
	"maktub/pkg/rbac"
)

// LetterStore is the persistence surface for letter mutations.
type LetterStore interface {
	UpdateReviewStatus(ctx context.Context, letterID, status, reviewerName, notes string, content *string) error
	DeleteLetter(ctx context.Context, letterID string) (bool, error)
}

// EventPublisher emits lifecycle events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// NopPublisher drops events. Used when the broker is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

type LetterService struct {
	letters   LetterStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewLetterService(letters LetterStore, publisher EventPublisher, logger *zap.Logger) *LetterService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &LetterService{letters: letters, publisher: publisher, logger: logger}
}

var validReviewStatuses = map[string]bool{
	model.StatusReady:     true,
	model.StatusWaiting:   true,
	model.StatusNeedsWork: true,
	model.StatusRejected:  true,
	model.StatusSent:      true,
}

// UpdateReviewStatus records a review decision. A non-nil content also
// replaces the letter body with the reviewer's edited version.
func (s *LetterService) UpdateReviewStatus(ctx context.Context, actorRole, letterID, status, reviewerName, notes string, content *string) error {
	if err := rbac.CheckPermission(actorRole, rbac.PermissionReviewLetter); err != nil {
		return notAuthorized("هذه العملية مقصورة على المسؤولين")
	}
	if letterID == "" {
		return errors.New("معرف الخطاب مطلوب")
	}
	if !validReviewStatuses[status] {
		return errors.New("حالة مراجعة غير صالحة")
	}

	if err := s.letters.UpdateReviewStatus(ctx, letterID, status, reviewerName, notes, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("الخطاب غير موجود")
		}
		return err
	}

	if err := s.publisher.Publish(mq.RoutingLetterReviewed, mq.LetterReviewedPayload{
		EventID:      uuid.NewString(),
		LetterID:     letterID,
		Status:       status,
		ReviewerName: reviewerName,
		ReviewedAt:   time.Now(),
	}); err != nil {
		s.logger.Warn("failed to publish review event",
			zap.String("letter_id", letterID),
			zap.Error(err))
	}

	return nil
}

// DeleteLetter removes a letter. Deleting an id that no longer exists
// succeeds without emitting an event.
func (s *LetterService) DeleteLetter(ctx context.Context, actorRole, letterID string) error {
	if err := rbac.CheckPermission(actorRole, rbac.PermissionDeleteLetter); err != nil {
		return notAuthorized("هذه العملية مقصورة على المسؤولين")
	}
	if letterID == "" {
		return errors.New("معرف الخطاب مطلوب")
	}

	deleted, err := s.letters.DeleteLetter(ctx, letterID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	if err := s.publisher.Publish(mq.RoutingLetterDeleted, mq.LetterDeletedPayload{
		EventID:   uuid.NewString(),
		LetterID:  letterID,
		DeletedAt: time.Now(),
	}); err != nil {
		s.logger.Warn("failed to publish delete event",
			zap.String("letter_id", letterID),
			zap.Error(err))
	}

	return nil
}
