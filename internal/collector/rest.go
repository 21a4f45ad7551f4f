package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TickerCast/internal/currency"
	"TickerCast/internal/model"
)

// RESTFetcher implements PriceFeed against a generic bar REST API:
//
//	GET {base}/api/v1/bars/daily?symbol=&start=&end=  -> [{timestamp, open, high, low, close, volume}]
//	GET {base}/api/v1/quote?symbol=                   -> {price}
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bar API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	resp, err := f.get(ctx, "/api/v1/bars/daily", q)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.PriceSeries{}, fmt.Errorf("fetch bars %s: %w", ticker, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var bars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode bars: %w", err)
	}
	if len(bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("fetch bars %s: %w", ticker, ErrNotFound)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		vol := b.Volume
		if vol < 0 {
			vol = 0
		}
		points = append(points, model.PricePoint{
			Date:   model.Day(time.Unix(b.Timestamp, 0).UTC()),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(vol),
		})
	}
	return model.PriceSeries{Symbol: ticker, Points: normalizePoints(points)}, nil
}

func (f *RESTFetcher) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	endpoint := f.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	return f.Client.Do(req)
}

// RESTRateFeed reads an exchange rate from the quote endpoint of the bar API.
type RESTRateFeed struct {
	Fetcher *RESTFetcher
	Symbol  string
}

// NewRESTRateFeed creates a rate feed for the given quote symbol.
func NewRESTRateFeed(fetcher *RESTFetcher, symbol string) *RESTRateFeed {
	return &RESTRateFeed{Fetcher: fetcher, Symbol: symbol}
}

func (r *RESTRateFeed) FetchLatestRate(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("symbol", r.Symbol)
	resp, err := r.Fetcher.get(ctx, "/api/v1/quote", q)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", currency.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: quote status %d", currency.ErrUnavailable, resp.StatusCode)
	}
	var result struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: decode quote: %v", currency.ErrUnavailable, err)
	}
	return result.Price, nil
}
