package currency

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"TickerCast/internal/model"
)

type stubFeed struct {
	rate float64
	err  error
}

func (s stubFeed) FetchLatestRate(context.Context) (float64, error) { return s.rate, s.err }

func TestConvert_RoundTrip(t *testing.T) {
	for _, r := range []float64{0.0001, 0.5, 1, 83.0, 83.27, 150.125, 1e6} {
		for _, x := range []float64{0, 1, 123.45, 98765.4321} {
			got := Convert(Convert(x, r), 1/r)
			assert.InDelta(t, x, got, 1e-9*math.Max(1, x), "x=%v r=%v", x, r)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		feed   RateFeed
		want   float64
		source model.RateSource
	}{
		{"live", stubFeed{rate: 84.12}, 84.12, model.RateLive},
		{"unavailable", stubFeed{err: ErrUnavailable}, 83.0, model.RateFallback},
		{"transport error", stubFeed{err: errors.New("dial tcp: timeout")}, 83.0, model.RateFallback},
		{"zero rate", stubFeed{rate: 0}, 83.0, model.RateFallback},
		{"negative rate", stubFeed{rate: -2}, 83.0, model.RateFallback},
		{"nan rate", stubFeed{rate: math.NaN()}, 83.0, model.RateFallback},
		{"no feed", nil, 83.0, model.RateFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConverter(tt.feed, 0)
			got := c.Resolve(context.Background())
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestResolve_CustomFallback(t *testing.T) {
	c := NewConverter(stubFeed{err: ErrUnavailable}, 90.5)
	assert.Equal(t, 90.5, c.Resolve(context.Background()).Value)
}
