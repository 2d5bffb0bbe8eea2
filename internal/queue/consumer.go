package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads every booking queue and appends one line per event to a
// log file.
type Consumer struct {
	URL     string
	LogPath string
	Log     *slog.Logger

	mu sync.Mutex
}

// NewConsumer returns a consumer writing to logs/booking.log.
func NewConsumer(url string, log *slog.Logger) *Consumer {
	return &Consumer{URL: url, LogPath: filepath.Join("logs", "booking.log"), Log: log}
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are retried with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("booking-consumer: failed to dial broker", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("booking-consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("booking-consumer: set QoS failed", "error", err)
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	for _, q := range Queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		wg.Add(1)
		go func(queue string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				if err := c.Handle(queue, d.Body); err != nil {
					c.Log.Error("booking-consumer: handle message failed", "queue", queue, "error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}(q, msgs)
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		_ = ch.Close()
		<-done
		return ctx.Err()
	case <-done:
		return errors.New("deliveries channel closed")
	}
}

// Handle decodes one message from queue and appends its log line.
func (c *Consumer) Handle(queue string, body []byte) error {
	ev, err := Decode(queue, body)
	if err != nil {
		return err
	}
	return c.appendLine(ev.LogLine())
}

// Decode turns a message body into the event type of queue.
func Decode(queue string, body []byte) (Event, error) {
	var ev Event
	switch queue {
	case BookingSubmittedQueue:
		ev = &BookingSubmittedEvent{}
	case TicketCreatedQueue:
		ev = &TicketCreatedEvent{}
	case PaymentCreatedQueue:
		ev = &PaymentCreatedEvent{}
	default:
		return nil, fmt.Errorf("unknown queue %q", queue)
	}
	if err := json.Unmarshal(body, ev); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return ev, nil
}

func (c *Consumer) appendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
