package helper

import (
	"fmt"
	"strings"
	"time"
)

// NormTF приводит сырой таймфрейм к каноничному виду ("60m" -> "1h").
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	case "24h", "1d":
		return "1d"
	default:
		return s
	}
}

// TFDuration — длительность одной свечи таймфрейма.
func TFDuration(tf string) (time.Duration, error) {
	switch NormTF(tf) {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "15m":
		return 15 * time.Minute, nil
	case "30m":
		return 30 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "4h":
		return 4 * time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown timeframe %q", tf)
	}
}

// VenueSymbol converts the canonical "BTC/USDT" form to the exchange's
// concatenated form ("BTCUSDT").
func VenueSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
