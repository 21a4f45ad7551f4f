package model

import (
	"encoding/json"
	"strings"
)

// CurrencyPair names the source and target currencies of a snapshot.
type CurrencyPair struct {
	Source string
	Target string
}

// DefaultPair is the USD to INR pair of the reference deployment.
var DefaultPair = CurrencyPair{Source: "USD", Target: "INR"}

// Money is a figure mirrored into both currencies, rounded for display.
type Money struct {
	Source float64
	Target float64
}

// StatisticsSnapshot is the latest-day summary. It is built once by the
// statistics assembler and never mutated.
type StatisticsSnapshot struct {
	Pair            CurrencyPair
	LastPrice       Money
	Change          Money
	ChangePercent   float64
	Volume          int64
	High            Money
	Low             Money
	Open            Money
	PredictedPrice  Money
	PredictedChange Money
	Rate            float64
}

// MarshalJSON emits the flat dual-currency layout, e.g. last_price_usd and
// last_price_inr, keyed by the lower-cased currency codes.
func (s StatisticsSnapshot) MarshalJSON() ([]byte, error) {
	pair := s.Pair
	if pair.Source == "" || pair.Target == "" {
		pair = DefaultPair
	}
	src := strings.ToLower(pair.Source)
	tgt := strings.ToLower(pair.Target)

	out := map[string]any{
		"change_percent": s.ChangePercent,
		"volume":         s.Volume,
	}
	out[src+"_"+tgt+"_rate"] = s.Rate
	put := func(name string, m Money) {
		out[name+"_"+src] = m.Source
		out[name+"_"+tgt] = m.Target
	}
	put("last_price", s.LastPrice)
	put("change", s.Change)
	put("high", s.High)
	put("low", s.Low)
	put("open", s.Open)
	put("predicted_price", s.PredictedPrice)
	put("predicted_change", s.PredictedChange)

	return json.Marshal(out)
}
