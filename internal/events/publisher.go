package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes events to QueueName over one long-lived connection.
// A channel is opened per publish; amqp channels must not be shared between
// goroutines.
type AMQPPublisher struct {
	mu   sync.Mutex
	url  string
	conn *amqp.Connection
}

// NewAMQPPublisher dials the broker and declares the queue. The queue is
// durable so messages survive broker restarts.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}
	conn, err := p.connection()
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("events.NewAMQPPublisher: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()
	if err := declareQueue(ch); err != nil {
		return nil, fmt.Errorf("events.NewAMQPPublisher: %w", err)
	}
	return p, nil
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev PlanEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.Publish: marshal: %w", err)
	}

	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("events.Publish: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, msg); err != nil {
		return fmt.Errorf("events.Publish: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

// connection returns the open connection, redialling if the broker dropped it.
func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("events: dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

func declareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
