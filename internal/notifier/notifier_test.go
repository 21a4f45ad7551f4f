package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerCast/internal/model"
)

type fakeAPI struct {
	mu       sync.Mutex
	failures int
	sent     []map[string]string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			http.NotFound(w, r)
			return
		}
		if f.failures > 0 {
			f.failures--
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		f.sent = append(f.sent, payload)
		w.Write([]byte(`{"ok":true}`))
	}
}

func newTestNotifier(t *testing.T, api *fakeAPI) *TelegramNotifier {
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	n.RetryMin = time.Millisecond
	n.RetryMax = 5 * time.Millisecond
	return n
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	api := &fakeAPI{failures: 2}
	n := newTestNotifier(t, api)

	require.NoError(t, n.SendWithRetry(context.Background(), "hello", 3))
	require.Len(t, api.sent, 1)
	assert.Equal(t, "42", api.sent[0]["chat_id"])
	assert.Equal(t, "hello", api.sent[0]["text"])
	assert.Equal(t, "HTML", api.sent[0]["parse_mode"])
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	api := &fakeAPI{failures: 10}
	n := newTestNotifier(t, api)

	err := n.SendWithRetry(context.Background(), "hello", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, 7, api.failures)
}

func TestDispatch_RepliesToSenderChat(t *testing.T) {
	api := &fakeAPI{}
	n := newTestNotifier(t, api)

	var updates []telegramUpdate
	require.NoError(t, json.Unmarshal([]byte(`[
		{"update_id": 7, "message": {"text": " /predict aapl ", "chat": {"id": 99}}},
		{"update_id": 8},
		{"update_id": 9, "message": {"text": "/quiet", "chat": {"id": 99}}}
	]`), &updates))

	var got []string
	next := n.dispatch(context.Background(), updates, 0, func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		if cmd == "/quiet" {
			return ""
		}
		return "reply to " + cmd
	})

	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/predict aapl", "/quiet"}, got)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "99", api.sent[0]["chat_id"])
	assert.Equal(t, "reply to /predict aapl", api.sent[0]["text"])
}

func samplePrediction(ticker string, last, predicted float64) *model.Prediction {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return &model.Prediction{
		Ticker: ticker,
		Series: model.PriceSeries{Symbol: ticker, Points: []model.PricePoint{{Date: d, Close: last}}},
		Forecast: model.ForecastSeries{
			{Date: d.AddDate(0, 0, 1), PredictedClose: predicted},
		},
		Rate: model.ExchangeRate{Value: 83, Source: model.RateFallback},
		Snapshot: &model.StatisticsSnapshot{
			Pair:            model.DefaultPair,
			LastPrice:       model.Money{Source: last, Target: last * 83},
			Change:          model.Money{Source: 1, Target: 83},
			ChangePercent:   0.78,
			Volume:          1234,
			PredictedPrice:  model.Money{Source: predicted, Target: predicted * 83},
			PredictedChange: model.Money{Source: predicted - last, Target: (predicted - last) * 83},
			Rate:            83,
		},
	}
}

func TestFormatSnapshot(t *testing.T) {
	msg := FormatSnapshot(samplePrediction("AAPL", 129, 126.5))

	assert.Contains(t, msg, "<b>AAPL</b> | 2024-03-05")
	assert.Contains(t, msg, "Last: 129.00 USD (10707.00 INR)")
	assert.Contains(t, msg, "Change: +1.00 USD (+0.78%)")
	assert.Contains(t, msg, "Volume: 1234")
	assert.Contains(t, msg, "Wed 03-06  126.50")
	assert.Contains(t, msg, "Next: 126.50 USD (10499.50 INR), -2.50")
	assert.Contains(t, msg, "USD/INR: 83.00 (fallback)")
}

func TestFormatDigest(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	msg := FormatDigest([]DigestEntry{
		{Ticker: "AAPL", Prediction: samplePrediction("AAPL", 129, 126.5)},
		{Ticker: "MSFT", Prediction: samplePrediction("MSFT", 400, 401)},
		{Ticker: "<X>", Err: errors.New("No data found for this ticker.")},
	}, at)

	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "2024-03-05 09:30")
	assert.Equal(t, "▼ <b>AAPL</b> 129.00 → 126.50 (-2.50) USD", lines[2])
	assert.Equal(t, "▲ <b>MSFT</b> 400.00 → 401.00 (+1.00) USD", lines[3])
	assert.Equal(t, "❌ &lt;X&gt;: No data found for this ticker.", lines[4])

	assert.Contains(t, FormatDigest(nil, at), "Watchlist is empty.")
}
