package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/queue"
)

// The consumer drains the booking event queues into logs/booking.log.
func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	log := logger.Get()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		logger.Fatal("booking-consumer: RABBITMQ_URL is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := queue.NewConsumer(url, log)
	if p := os.Getenv("BOOKING_LOG_PATH"); p != "" {
		c.LogPath = p
	}
	log.Info("booking-consumer: started", "queues", queue.Queues, "log_path", c.LogPath)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("booking-consumer: stopped", "error", err)
	}
}
