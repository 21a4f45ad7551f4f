package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"TickerCast/internal/notifier"
	"TickerCast/internal/scheduler"
	"TickerCast/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, plus the Telegram bot and digest when configured",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Println("[INFO] TickerCast starting...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	col := newCollector(cfg, rec)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, col, tn, cfg.Watchlist)
		sched.Concurrency = cfg.Schedule.Concurrency

		if cfg.Schedule.DigestCron != "" {
			if err := sched.Register(cfg.Schedule.DigestCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" && len(cfg.Watchlist) > 0 {
			log.Println("[INFO] RUN_ON_START enabled, sending digest now")
			go sched.RunDigestNow()
		}
	}

	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(col, rec),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] TickerCast stopped")
	return nil
}
