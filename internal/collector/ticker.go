package collector

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidTicker = errors.New("invalid ticker")

// tickerPattern accepts exchange suffixes (RELIANCE.NS), class shares (BRK-B),
// indices (^GSPC) and currency pairs (INR=X).
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

// SanitizeTicker trims and upper-cases a ticker and validates its format.
func SanitizeTicker(ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if normalized == "" {
		return "", fmt.Errorf("%w: ticker cannot be empty", ErrInvalidTicker)
	}
	if !tickerPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, normalized)
	}
	return normalized, nil
}
