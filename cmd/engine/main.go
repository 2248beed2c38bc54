package main

import (
	"context"
	"log"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/exchange"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/ledger"
	"signal_bot/internal/modules/marketdata"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/redis"
	"signal_bot/internal/modules/signals"
	"signal_bot/internal/modules/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
)

const serviceName = "signal-engine"

func main() {
	if err := logger.Init(serviceName); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		redis.Module(),
		exchange.Module(),
		marketdata.Module(),
		signals.Module(),
		ledger.Module(),
		ledger.SweepModule(),
		strategy.Module(),
		health.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			tracing.SetServiceName(serviceName)
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	app.Run()
}
