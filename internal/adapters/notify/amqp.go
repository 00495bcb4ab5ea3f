package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"guest_manual/internal/adapters/observability"
	"guest_manual/internal/domain"
)

const MessageQueue = "guest.message"

// Queue publishes each guest message to a durable RabbitMQ queue.
// A connection is dialed per publish; message volume is low.
type Queue struct {
	url   string
	queue string
}

func NewQueue(url string) (*Queue, error) {
	if url == "" {
		return nil, fmt.Errorf("AMQP URL is required")
	}
	return &Queue{url: url, queue: MessageQueue}, nil
}

func (q *Queue) NotifyMessage(ctx context.Context, ev domain.MessageEvent) error {
	start := time.Now()
	err := q.publish(ctx, ev)
	status := 200
	if err != nil {
		status = 0
		log.Warn().Err(err).Str("error_type", observability.LabelErr(err)).
			Int64("message_id", ev.MessageID).Msg("amqp publish failed")
	}
	observability.ObserveExternal("amqp", q.queue, status, time.Since(start))
	return err
}

func (q *Queue) publish(ctx context.Context, ev domain.MessageEvent) error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp declare %s: %w", q.queue, err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
