package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StrategyType string

const (
	StrategyRSI      StrategyType = "rsi"
	StrategyFiveDown StrategyType = "fivedown"
)

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Strategy — запись стратегии, которой управляет оператор через админку.
// ConfigJSON хранит параметры конкретного варианта (см. StrategyParams).
type Strategy struct {
	ID           int64
	Name         string
	Description  string
	PriceMonthly decimal.Decimal
	ConfigJSON   []byte
	IsActive     bool
	CreatedAt    time.Time
}

// StrategyParams — typed parameter set decoded from Strategy.ConfigJSON.
type StrategyParams struct {
	Type      StrategyType `json:"type"`
	Symbol    string       `json:"symbol"`
	Timeframe string       `json:"timeframe"`
	Venue     string       `json:"exchange"`

	// RSI thresholds
	RSIPeriod     int     `json:"rsi_period"`
	RSIOverbought float64 `json:"rsi_overbought"`
	RSIOversold   float64 `json:"rsi_oversold"`

	// fivedown
	DownCount int `json:"down_count"`

	// PollInterval overrides the runtime default when set, e.g. "30s".
	PollInterval string `json:"poll_interval"`
}

type Signal struct {
	ID         int64
	StrategyID int64
	// StrategyName не персистится, уходит только в wire-payload
	StrategyName string
	Symbol       string
	Side         Side
	Price        float64
	Reason       string
	Ts           time.Time
}

// SignalPayload — flat record published on the broker topic. Consumers must
// tolerate unknown additional fields.
type SignalPayload struct {
	StrategyID   int64   `json:"strategy_id"`
	StrategyName string  `json:"strategy_name"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Price        float64 `json:"price"`
	Reason       string  `json:"reason"`
	Timestamp    string  `json:"timestamp"` // RFC 3339 with zone
}
