package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/segmentio/kafka-go"
)

var ErrProducerClosed = errors.New("producer is closed")

// Order event types published to the order topic.
const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	Total       string    `json:"total"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// IOrderProducer publishes order lifecycle events. Publishing is best
// effort; callers log failures and continue.
type IOrderProducer interface {
	Publish(ctx context.Context, eventType string, order *model.Order) error
	Close() error
}

type OrderProducer struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Compression:  kafka.Snappy,
	}
	return &OrderProducer{writer: writer}
}

func (p *OrderProducer) Publish(ctx context.Context, eventType string, order *model.Order) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	event := OrderEvent{
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Status:      string(order.Status),
		Total:       order.Total.StringFixed(2),
		OccurredAt:  time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	// keyed by order id so one order's events stay in partition order
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *OrderProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

var _ IOrderProducer = (*OrderProducer)(nil)
