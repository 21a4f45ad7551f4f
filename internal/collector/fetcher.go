package collector

import (
	"context"
	"errors"
	"time"

	"TickerCast/internal/model"
)

// ErrNotFound is returned by a PriceFeed when the ticker has no data in the
// requested range. Transport failures are reported as other errors.
var ErrNotFound = errors.New("no price data found")

// PriceFeed fetches daily price history for a ticker.
type PriceFeed interface {
	FetchHistory(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}
