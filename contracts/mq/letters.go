package mq

import "time"

// Routing keys on the letter-events exchange.
const (
	RoutingLettersChanged = "letters.changed"
	RoutingLetterReviewed = "letter.reviewed"
	RoutingLetterDeleted  = "letter.deleted"
)

// LettersChangedPayload is published by the background sync when the
// authoritative letter count differs from the cached count.
type LettersChangedPayload struct {
	EventID       string    `json:"event_id"`
	PreviousCount int       `json:"previous_count"`
	NewCount      int       `json:"new_count"`
	SyncedAt      time.Time `json:"synced_at"`
}

// LetterReviewedPayload is published by the store after a review-status
// update is committed.
type LetterReviewedPayload struct {
	EventID      string    `json:"event_id"`
	LetterID     string    `json:"letter_id"`
	Status       string    `json:"status"`
	ReviewerName string    `json:"reviewer_name"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// LetterDeletedPayload is published by the store after a letter row is
// removed.
type LetterDeletedPayload struct {
	EventID   string    `json:"event_id"`
	LetterID  string    `json:"letter_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
