package ledger

import (
	"context"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/ledger/service"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(
			func(m *db.PgTxManager, cfg *config.Config) *service.Ledger {
				return service.NewLedger(m, cfg.SubscriptionDays)
			},
		),
	)
}

// SweepModule вешает часовой проход истечения. Подключается только в том
// бинаре, который владеет фоновыми задачами (engine).
func SweepModule() fx.Option {
	return fx.Module("ledger_sweep",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, led *service.Ledger) error {
			s := gocron.NewScheduler(time.UTC)
			_, err := s.Every(cfg.SweepInterval).Do(func() {
				n, err := led.ExpireSweep(context.Background())
				if err != nil {
					logger.Error("expire sweep failed: %v", err)
					return
				}
				if n > 0 {
					logger.Info("expire sweep: %d subscriptions deactivated", n)
				}
			})
			if err != nil {
				return err
			}

			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					s.StartAsync()
					return nil
				},
				OnStop: func(context.Context) error {
					s.Stop()
					return nil
				},
			})
			return nil
		}),
	)
}
