// Package service publishes booking events to RabbitMQ.  Publishing never
// fails a user request: errors are logged and dropped.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-booking-client/internal/queue"
)

// Publisher sends booking events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// NewPublisher returns an AMQP publisher for url, or a no-op publisher
// when url is empty.
func NewPublisher(url string, log *slog.Logger) Publisher {
	if url == "" {
		log.Info("rabbitmq: no broker configured, booking events disabled")
		return NoopPublisher{}
	}
	return &AMQPPublisher{URL: url, Log: log}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.Event) error { return nil }

// AMQPPublisher dials the broker per event, declares the event's durable
// queue and publishes a persistent JSON message to it.
type AMQPPublisher struct {
	URL string
	Log *slog.Logger
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.Event) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	name := ev.Queue()
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", "queue", name, "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.Log.Warn("rabbitmq: marshal event failed", "queue", name, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", name, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", "queue", name, "error", err)
		return err
	}
	return nil
}

// PublishAsync publishes ev in the background with its own timeout so the
// caller's request is never held up by the broker.
func PublishAsync(p Publisher, ev queue.Event, timeout time.Duration) <-chan error {
	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done <- p.Publish(ctx, ev)
	}()
	return done
}
