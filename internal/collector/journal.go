package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"TickerCast/internal/model"
	"TickerCast/internal/recorder"
)

// Channels a request can arrive on.
const (
	ChannelHTTP     = "http"
	ChannelTelegram = "telegram"
	ChannelDigest   = "digest"
	ChannelCLI      = "cli"
)

type channelKey struct{}

// WithChannel tags ctx with the surface a request arrived on.
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, channelKey{}, channel)
}

// Channel returns the channel set by WithChannel, or "".
func Channel(ctx context.Context) string {
	ch, _ := ctx.Value(channelKey{}).(string)
	return ch
}

func (c *Collector) journal(ctx context.Context, id, ticker string, pred *model.Prediction, err error, elapsed time.Duration) {
	if c.Recorder == nil {
		return
	}
	req := &recorder.Request{
		ID:        id,
		Ticker:    strings.ToUpper(strings.TrimSpace(ticker)),
		Status:    Outcome(err),
		Duration:  elapsed,
		Channel:   Channel(ctx),
		CreatedAt: c.Now(),
	}
	if err != nil {
		req.Error = UserMessage(err)
	}
	if pred != nil {
		req.Ticker = pred.Ticker
		req.RateSource = string(pred.Rate.Source)
		req.Points = pred.Series.Len()
	}
	if err := c.Recorder.RecordRequest(req); err != nil {
		log.Printf("[ERROR] [%s] record request: %v", id, err)
	}
}
