package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maktub/contracts/mq"
	"maktub/internal/model"
	"maktub/internal/store/repository"
	"maktub/pkg/rbac"
)

type fakeLetters struct {
	updateErr error
	deleted   map[string]bool
	exists    map[string]bool
	updates   int
}

func newFakeLetters(ids ...string) *fakeLetters {
	f := &fakeLetters{deleted: map[string]bool{}, exists: map[string]bool{}}
	for _, id := range ids {
		f.exists[id] = true
	}
	return f
}

func (f *fakeLetters) UpdateReviewStatus(ctx context.Context, letterID, status, reviewerName, notes string, content *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if !f.exists[letterID] {
		return repository.ErrNotFound
	}
	f.updates++
	return nil
}

func (f *fakeLetters) DeleteLetter(ctx context.Context, letterID string) (bool, error) {
	if !f.exists[letterID] {
		return false, nil
	}
	delete(f.exists, letterID)
	f.deleted[letterID] = true
	return true, nil
}

type capturingPublisher struct {
	keys     []string
	payloads []any
}

func (p *capturingPublisher) Publish(routingKey string, payload any) error {
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestUpdateReviewStatusPublishesEvent(t *testing.T) {
	letters := newFakeLetters("LTR-001")
	pub := &capturingPublisher{}
	svc := NewLetterService(letters, pub, zap.NewNop())

	err := svc.UpdateReviewStatus(context.Background(), rbac.RoleAdmin,
		"LTR-001", model.StatusReady, "خالد", "جاهز", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, letters.updates)

	require.Len(t, pub.keys, 1)
	assert.Equal(t, mq.RoutingLetterReviewed, pub.keys[0])
	payload := pub.payloads[0].(mq.LetterReviewedPayload)
	assert.Equal(t, "LTR-001", payload.LetterID)
	assert.Equal(t, model.StatusReady, payload.Status)
	assert.NotEmpty(t, payload.EventID)
}

func TestUpdateReviewStatusRequiresAdmin(t *testing.T) {
	letters := newFakeLetters("LTR-001")
	svc := NewLetterService(letters, &capturingPublisher{}, zap.NewNop())

	err := svc.UpdateReviewStatus(context.Background(), rbac.RoleUser,
		"LTR-001", model.StatusReady, "خالد", "", nil)
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, CodeNotAuthorized, coded.Code)
	assert.Zero(t, letters.updates)
}

func TestUpdateReviewStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewLetterService(newFakeLetters("LTR-001"), &capturingPublisher{}, zap.NewNop())

	err := svc.UpdateReviewStatus(context.Background(), rbac.RoleAdmin,
		"LTR-001", "حالة مخترعة", "خالد", "", nil)
	assert.Error(t, err)
}

func TestUpdateReviewStatusMissingLetter(t *testing.T) {
	svc := NewLetterService(newFakeLetters(), &capturingPublisher{}, zap.NewNop())

	err := svc.UpdateReviewStatus(context.Background(), rbac.RoleAdmin,
		"LTR-404", model.StatusReady, "خالد", "", nil)
	assert.Error(t, err)
}

func TestDeleteLetterPublishesOnce(t *testing.T) {
	letters := newFakeLetters("LTR-001")
	pub := &capturingPublisher{}
	svc := NewLetterService(letters, pub, zap.NewNop())

	require.NoError(t, svc.DeleteLetter(context.Background(), rbac.RoleAdmin, "LTR-001"))
	assert.True(t, letters.deleted["LTR-001"])
	require.Len(t, pub.keys, 1)
	assert.Equal(t, mq.RoutingLetterDeleted, pub.keys[0])

	// Deleting again succeeds without a second event.
	require.NoError(t, svc.DeleteLetter(context.Background(), rbac.RoleAdmin, "LTR-001"))
	assert.Len(t, pub.keys, 1)
}

func TestDeleteLetterRequiresAdmin(t *testing.T) {
	svc := NewLetterService(newFakeLetters("LTR-001"), &capturingPublisher{}, zap.NewNop())

	err := svc.DeleteLetter(context.Background(), rbac.RoleUser, "LTR-001")
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, CodeNotAuthorized, coded.Code)
}
