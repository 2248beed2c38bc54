package models

import "time"

// Candle — одна закрытая (или ещё идущая последняя) свеча venue/symbol/timeframe.
type Candle struct {
	Ts     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Bearish — close ниже open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// Closed returns the candles that are safe for signal decisions: the most
// recent entry of a fetched series may still be in progress and is dropped.
func Closed(candles []Candle) []Candle {
	if len(candles) == 0 {
		return nil
	}
	return candles[:len(candles)-1]
}
