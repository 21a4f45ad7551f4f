package recorder

import "time"

// Request is one journaled prediction request. Only request metadata is
// kept; computed figures are never stored.
type Request struct {
	ID         string
	Ticker     string
	Status     string // collector.Outcome: "success", "no_data", "invalid_ticker", ...
	Error      string
	RateSource string // "live" or "fallback", empty on failure
	Points     int
	Duration   time.Duration
	Channel    string // "http", "telegram", "digest", "cli"
	CreatedAt  time.Time
}

// Recorder journals prediction requests for later inspection.
type Recorder interface {
	RecordRequest(req *Request) error
	Recent(limit int) ([]Request, error)
	Close() error
}
