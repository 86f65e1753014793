package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	contracts "maktub/contracts/mq"
	"maktub/pkg/mq"
)

// MQNotifier publishes letter-count changes to the message broker so the
// notification worker can fan them out.
type MQNotifier struct {
	publisher *mq.Publisher
	logger    *zap.Logger
}

func NewMQNotifier(publisher *mq.Publisher, logger *zap.Logger) *MQNotifier {
	return &MQNotifier{publisher: publisher, logger: logger}
}

func (n *MQNotifier) NotifyNewLetters(ctx context.Context, previousCount, newCount int) {
	payload := contracts.LettersChangedPayload{
		EventID:       uuid.NewString(),
		PreviousCount: previousCount,
		NewCount:      newCount,
		SyncedAt:      time.Now(),
	}
	if err := n.publisher.Publish(contracts.RoutingLettersChanged, payload); err != nil {
		n.logger.Error("failed to publish letters-changed event",
			zap.Int("previous", previousCount),
			zap.Int("current", newCount),
			zap.Error(err))
	}
}
