package telegram

import (
	"context"

	fanout "signal_bot/internal/modules/fanout/service"
	"signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *ledger.Ledger) (*service.Telegram, error)
		),

		// Адаптер: *service.Telegram -> fanout.Notifier
		fx.Provide(
			func(t *service.Telegram) fanout.Notifier {
				return t
			},
		),

		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						go func() {
							if err := t.Start(context.Background()); err != nil {
								logger.Error("telegram updates loop: %v", err)
							}
						}()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
