package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpx "github.com/sitegrid/console/internal/http"
	"github.com/sitegrid/console/internal/repository/memory"
	"github.com/sitegrid/console/internal/scheduler"
	"github.com/sitegrid/console/internal/service/dashboard"
	"github.com/sitegrid/console/internal/ws"
	"github.com/sitegrid/console/pkg/config"
	"github.com/sitegrid/console/pkg/logger"
)

func main() {
	cfg := config.LoadConsoleConfig()
	log := logger.New("console", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := memory.New()
	if cfg.SeedDemoData {
		store.Seed(time.Now().UTC())
		log.Info("demo data seeded")
	}

	hub := ws.NewHub()
	sched := scheduler.NewTimer()
	defer sched.Stop()

	dash := dashboard.New(store, hub, sched, log, cfg)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, dash, limiter, cfg.SSEHeartbeat)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("console server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("console server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
