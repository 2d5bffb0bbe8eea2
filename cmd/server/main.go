package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/config"
	"github.com/iliyamo/cinema-booking-client/internal/handler"
	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/metrics"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
	"github.com/iliyamo/cinema-booking-client/internal/repository"
	"github.com/iliyamo/cinema-booking-client/internal/router"
	"github.com/iliyamo/cinema-booking-client/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	m := metrics.New()
	backend := api.NewClient(api.Config{
		BaseURL:  cfg.BackendURL,
		Timeout:  cfg.BackendTimeout,
		Observer: m.ObserveBackend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(log)
	var store repository.SessionStore
	if rdb != nil {
		defer rdb.Close()
		store = repository.NewRedisSessionRepo(rdb, cfg.SessionTTL)
	} else {
		mem := repository.NewMemorySessionRepo(cfg.SessionTTL)
		go sweep(ctx, mem, time.Minute)
		store = mem
	}

	pub := service.NewPublisher(cfg.AMQPURL, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestID(), middleware.RequestLogger(m), middleware.Recover(log))

	sessions := handler.NewSessionHandler(backend, store, pub, m)
	sessions.LockTTL = handler.LockTTLFor(cfg.BackendTimeout)
	// unverified tokens are checked against the backend when a session opens
	sessions.VerifyOpener = cfg.JWTSecret == ""

	router.RegisterRoutes(e, m)
	router.RegisterAuth(e, handler.NewAuthHandler(backend), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewCatalogHandler(backend), cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterBooking(e,
		sessions,
		handler.NewTicketHandler(backend, pub, cfg.QRSecret),
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server: start failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server: shutdown failed", "error", err)
	}
}

// sweep drops expired in-memory sessions until ctx is cancelled.
func sweep(ctx context.Context, mem *repository.MemorySessionRepo, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := mem.Sweep(); n > 0 {
				logger.Get().Debug("session: swept expired", "count", n)
			}
		}
	}
}
