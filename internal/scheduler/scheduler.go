package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"TickerCast/internal/collector"
	"TickerCast/internal/model"
	"TickerCast/internal/notifier"
)

// DefaultConcurrency bounds parallel pipeline runs in a digest.
const DefaultConcurrency = 4

const sendRetries = 3

// Predictor runs the prediction pipeline for one ticker.
type Predictor interface {
	Predict(ctx context.Context, ticker string) (*model.Prediction, error)
}

// Scheduler runs the watchlist digest on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron        *cron.Cron
	Predictor   Predictor
	Notifier    notifier.Sender
	Watchlist   []string
	Concurrency int
	Ctx         context.Context
	Now         func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p Predictor, sender notifier.Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Predictor:   p,
		Notifier:    sender,
		Watchlist:   watchlist,
		Concurrency: DefaultConcurrency,
		Ctx:         ctx,
		Now:         time.Now,
	}
}

// Register adds the digest task under the given cron expression (with seconds).
func (s *Scheduler) Register(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDigestNow executes the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	log.Printf("[INFO] running digest for %d tickers", len(s.Watchlist))
	entries := s.Digest(collector.WithChannel(s.Ctx, collector.ChannelDigest))
	s.trySend(notifier.FormatDigest(entries, s.Now()))
}

// Digest runs the pipeline for every watchlist ticker concurrently. Entries
// keep watchlist order; a failing ticker does not affect the others.
func (s *Scheduler) Digest(ctx context.Context) []notifier.DigestEntry {
	entries := make([]notifier.DigestEntry, len(s.Watchlist))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, ticker := range s.Watchlist {
		g.Go(func() error {
			pred, err := s.Predictor.Predict(gctx, ticker)
			if err != nil {
				log.Printf("[WARN] digest %s: %v", ticker, err)
				err = errors.New(collector.UserMessage(err))
			}
			entries[i] = notifier.DigestEntry{Ticker: ticker, Prediction: pred, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return entries
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Strip a "@botname" suffix used in group chats.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/predict":
		if len(fields) < 2 {
			return "Usage: /predict &lt;TICKER&gt;"
		}
		pred, err := s.Predictor.Predict(collector.WithChannel(ctx, collector.ChannelTelegram), fields[1])
		if err != nil {
			return "❌ " + html.EscapeString(collector.UserMessage(err))
		}
		return notifier.FormatSnapshot(pred)
	case "/watchlist":
		entries := s.Digest(collector.WithChannel(ctx, collector.ChannelTelegram))
		return notifier.FormatDigest(entries, s.Now())
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /predict &lt;TICKER&gt; - 7-day forecast\n• /watchlist - digest of the watchlist"

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
