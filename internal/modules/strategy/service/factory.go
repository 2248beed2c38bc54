package service

import (
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

func unmarshalParams(raw []byte, out *models.StrategyParams) error {
	return sonic.Unmarshal(raw, out)
}

// NewInstance собирает инстанс по записи стратегии. Вариант выбирается тегом
// type в config_json; закрытое множество вариантов, без открытой диспетчеризации.
func NewInstance(rec models.Strategy, cfg *config.Config, data MarketData, emit Emitter) (Instance, error) {
	params := models.StrategyParams{
		Symbol:        "BTC/USDT",
		Timeframe:     "1h",
		Venue:         "binance",
		RSIPeriod:     cfg.DefaultRSIPeriod,
		RSIOverbought: cfg.DefaultRSIOverbought,
		RSIOversold:   cfg.DefaultRSIOSold,
		DownCount:     cfg.DefaultDownCount,
	}
	if len(rec.ConfigJSON) > 0 {
		if err := sonic.Unmarshal(rec.ConfigJSON, &params); err != nil {
			return nil, errors.Wrapf(err, "strategy %d: bad config_json", rec.ID)
		}
	}
	if params.RSIPeriod <= 0 {
		params.RSIPeriod = cfg.DefaultRSIPeriod
	}
	if params.DownCount <= 0 {
		params.DownCount = cfg.DefaultDownCount
	}

	switch params.Type {
	case models.StrategyRSI, "":
		// без тега считаем RSI — так вели себя старые записи
		return NewRSI(rec.ID, rec.Name, params, data, emit), nil
	case models.StrategyFiveDown:
		return NewFiveDown(rec.ID, rec.Name, params, data, emit), nil
	default:
		return nil, errors.Errorf("strategy %d: unknown type %q", rec.ID, params.Type)
	}
}
