package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAcknowledger struct {
	acks     int
	requeues int
	drops    int
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	if requeue {
		f.requeues++
	} else {
		f.drops++
	}
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func newTestConsumer(handler MessageHandler) (*Consumer, *int) {
	deadLettered := 0
	c := &Consumer{
		routingKey: "letters.changed",
		queue:      amqp091.Queue{Name: "letters.changed.q"},
		handler:    handler,
		logger:     zap.NewNop(),
	}
	c.deadLetter = func(msg amqp091.Delivery, handlerErr error) error {
		deadLettered++
		return nil
	}
	return c, &deadLettered
}

func TestHandleDeliverySuccessAcks(t *testing.T) {
	c, deadLettered := newTestConsumer(func(ctx context.Context, data json.RawMessage) error {
		return nil
	})
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{}`),
	})

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.requeues)
	assert.Zero(t, *deadLettered)
}

func TestHandleDeliveryFirstFailureRequeues(t *testing.T) {
	c, deadLettered := newTestConsumer(func(ctx context.Context, data json.RawMessage) error {
		return errors.New("not json")
	})
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Body:         []byte("garbage"),
	})

	assert.Equal(t, 1, ack.requeues)
	assert.Zero(t, ack.acks)
	assert.Zero(t, *deadLettered)
}

func TestHandleDeliveryRedeliveredFailureDeadLetters(t *testing.T) {
	c, deadLettered := newTestConsumer(func(ctx context.Context, data json.RawMessage) error {
		return errors.New("not json")
	})
	ack := &fakeAcknowledger{}

	// Second attempt at a poison payload must park it, not loop forever.
	c.handleDelivery(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Redelivered:  true,
		Body:         []byte("garbage"),
	})

	assert.Equal(t, 1, *deadLettered)
	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.requeues)
}

func TestHandleDeliveryDLQPublishFailureKeepsMessage(t *testing.T) {
	c, _ := newTestConsumer(func(ctx context.Context, data json.RawMessage) error {
		return errors.New("not json")
	})
	c.deadLetter = func(msg amqp091.Delivery, handlerErr error) error {
		return errors.New("broker gone")
	}
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Redelivered:  true,
		Body:         []byte("garbage"),
	})

	assert.Equal(t, 1, ack.requeues)
	assert.Zero(t, ack.acks)
}

func TestHandleDeliveryPanicRequeues(t *testing.T) {
	c, deadLettered := newTestConsumer(func(ctx context.Context, data json.RawMessage) error {
		panic("boom")
	})
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{}`),
	})

	assert.Equal(t, 1, ack.requeues)
	assert.Zero(t, *deadLettered)
}
