package strategy

import (
	"context"
	"time"

	"signal_bot/internal/modules/config"
	healthsvc "signal_bot/internal/modules/health/service"
	ledger "signal_bot/internal/modules/ledger/service"
	marketdata "signal_bot/internal/modules/marketdata/service"
	signals "signal_bot/internal/modules/signals/service"
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(cfg *config.Config, cache *marketdata.Cache, dist *signals.Distributor, led *ledger.Ledger) *service.Runtime {
				return service.NewRuntime(cfg, cache, dist, led)
			},
		),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, rt *service.Runtime, state *healthsvc.State, ctx context.Context) {
			rt.SetTickObserver(state.TouchTick)

			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go reconcileLoop(ctx, cfg, rt, state)
					return nil
				},
				OnStop: func(context.Context) error {
					rt.StopAll()
					return nil
				},
			})
		}),
	)
}

// reconcileLoop гоняет сверку инстансов с записями в базе. Готовность
// выставляется на любом успешном проходе, не только на первом: разовый сбой
// базы на старте не должен держать /readyz в 503 навсегда.
func reconcileLoop(ctx context.Context, cfg *config.Config, rt *service.Runtime, state *healthsvc.State) {
	logger.Info("runtime: reconcile loop started (every %s)", cfg.ReconcileInterval)
	t := time.NewTicker(cfg.ReconcileInterval)
	defer t.Stop()

	pass := func() {
		if err := rt.Reconcile(ctx); err != nil {
			logger.Error("runtime: reconcile failed: %v", err)
		} else {
			state.SetReady(true)
		}
		state.SetStrategies(rt.Count())
	}

	pass()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pass()
		}
	}
}
