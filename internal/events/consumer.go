package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded event. A returned error rejects the message
// without requeueing it.
type Handler func(ctx context.Context, ev PlanEvent) error

// LogHandler writes one structured log line per event.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, ev PlanEvent) error {
		logger.InfoContext(ctx, "plan event",
			"type", ev.Type,
			"plan_id", ev.PlanID,
			"session", ev.Session,
			"datetime", ev.DateTime,
			"occurred_at", ev.OccurredAt,
		)
		return nil
	}
}

// Consume connects to the broker and feeds every delivery on QueueName to h,
// reconnecting with exponential backoff (capped at 30s) until ctx is done.
func Consume(ctx context.Context, url string, logger *slog.Logger, h Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err == nil {
			backoff = time.Second
			err = consumeLoop(ctx, conn, logger, h)
			_ = conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("plan-events: consume loop ended, reconnecting", "error", err)
		} else {
			logger.Warn("plan-events: dial failed", "error", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logger *slog.Logger, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("plan-events: set QoS failed", "error", err)
	}
	if err := declareQueue(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handleDelivery(ctx, d, logger, h)
		}
	}
}

// acknowledger is the part of amqp.Delivery handleDelivery needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(ctx context.Context, d amqp.Delivery, logger *slog.Logger, h Handler) {
	dispatch(ctx, d.Body, &d, logger, h)
}

// dispatch decodes body, runs h and settles the message. Bad messages are
// rejected without requeue to avoid tight redelivery loops.
func dispatch(ctx context.Context, body []byte, ack acknowledger, logger *slog.Logger, h Handler) {
	ev, err := Decode(body)
	if err == nil {
		err = h(ctx, ev)
	}
	if err != nil {
		logger.Error("plan-events: handle message failed", "error", err)
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
