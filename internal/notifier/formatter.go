package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TickerCast/internal/model"
)

// DigestEntry is the outcome of one watchlist ticker in a digest run.
type DigestEntry struct {
	Ticker     string
	Prediction *model.Prediction
	Err        error
}

// FormatSnapshot formats a prediction into a Telegram message.
func FormatSnapshot(pred *model.Prediction) string {
	s := pred.Snapshot
	src, tgt := s.Pair.Source, s.Pair.Target
	var b strings.Builder

	asOf := "-"
	if last, ok := pred.Series.Last(); ok {
		asOf = last.Date.Format("2006-01-02")
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(pred.Ticker), asOf))

	b.WriteString(fmt.Sprintf("Last: %.2f %s (%.2f %s)\n", s.LastPrice.Source, src, s.LastPrice.Target, tgt))
	b.WriteString(fmt.Sprintf("Change: %+.2f %s (%+.2f%%)\n", s.Change.Source, src, s.ChangePercent))
	b.WriteString(fmt.Sprintf("Open: %.2f | High: %.2f | Low: %.2f\n", s.Open.Source, s.High.Source, s.Low.Source))
	b.WriteString(fmt.Sprintf("Volume: %d\n\n", s.Volume))

	b.WriteString("🔮 <b>Forecast:</b>\n")
	for _, f := range pred.Forecast {
		b.WriteString(fmt.Sprintf("  %s  %.2f\n", f.Date.Format("Mon 01-02"), f.PredictedClose))
	}
	b.WriteString(fmt.Sprintf("  Next: %.2f %s (%.2f %s), %+.2f\n\n",
		s.PredictedPrice.Source, src, s.PredictedPrice.Target, tgt, s.PredictedChange.Source))

	rateNote := ""
	if pred.Rate.Source == model.RateFallback {
		rateNote = " (fallback)"
	}
	b.WriteString(fmt.Sprintf("%s/%s: %.2f%s", src, tgt, s.Rate, rateNote))
	return b.String()
}

// FormatDigest summarises a watchlist run in one message, one line per ticker.
func FormatDigest(entries []DigestEntry, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓 <b>TickerCast digest</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	if len(entries) == 0 {
		b.WriteString("Watchlist is empty.")
		return b.String()
	}
	for _, e := range entries {
		name := html.EscapeString(e.Ticker)
		if e.Err != nil {
			b.WriteString(fmt.Sprintf("❌ %s: %s\n", name, html.EscapeString(e.Err.Error())))
			continue
		}
		s := e.Prediction.Snapshot
		arrow := "▲"
		if s.PredictedChange.Source < 0 {
			arrow = "▼"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %.2f → %.2f (%+.2f) %s\n",
			arrow, name, s.LastPrice.Source, s.PredictedPrice.Source, s.PredictedChange.Source, s.Pair.Source))
	}
	return strings.TrimRight(b.String(), "\n")
}
