package service

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

// StrategySource — откуда раннер узнаёт про активные записи стратегий.
type StrategySource interface {
	ListActiveStrategies(ctx context.Context) ([]models.Strategy, error)
}

type runningInstance struct {
	inst   Instance
	cancel context.CancelFunc
	done   chan struct{}
}

// Runtime держит живые инстансы: ровно один на активную стратегию.
// Reconcile сверяет их с записями в базе — оператор включил запись, инстанс
// поднялся; выключил — инстанс остановился на ближайшей границе тика.
type Runtime struct {
	cfg    *config.Config
	data   MarketData
	emit   Emitter
	source StrategySource

	onTick func(time.Time) // health touch

	mu      sync.Mutex
	running map[int64]*runningInstance
}

func NewRuntime(cfg *config.Config, data MarketData, emit Emitter, source StrategySource) *Runtime {
	return &Runtime{
		cfg:     cfg,
		data:    data,
		emit:    emit,
		source:  source,
		running: make(map[int64]*runningInstance),
	}
}

// SetTickObserver вызывается до старта; observer получает время каждого тика.
func (r *Runtime) SetTickObserver(fn func(time.Time)) { r.onTick = fn }

func (r *Runtime) Reconcile(ctx context.Context) error {
	strategies, err := r.source.ListActiveStrategies(ctx)
	if err != nil {
		return err
	}

	want := make(map[int64]models.Strategy, len(strategies))
	for _, s := range strategies {
		want[s.ID] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ri := range r.running {
		if _, ok := want[id]; ok {
			continue
		}
		logger.Info("runtime: strategy %d deactivated, stopping %s", id, ri.inst.Name())
		ri.cancel()
		delete(r.running, id)
	}

	for id, rec := range want {
		if _, ok := r.running[id]; ok {
			continue
		}
		r.startLocked(ctx, rec)
	}
	return nil
}

func (r *Runtime) startLocked(ctx context.Context, rec models.Strategy) {
	inst, err := NewInstance(rec, r.cfg, r.data, r.emit)
	if err != nil {
		logger.Error("runtime: cannot build strategy %d: %v", rec.ID, err)
		return
	}

	interval := r.cfg.DefaultPollInterval
	var params models.StrategyParams
	if raw := rec.ConfigJSON; len(raw) > 0 {
		// интервал уже провалидирован фабрикой, здесь только перечитываем
		_ = unmarshalParams(raw, &params)
		if params.PollInterval != "" {
			if d, err := time.ParseDuration(params.PollInterval); err == nil && d > 0 {
				interval = d
			}
		}
	}

	ictx, cancel := context.WithCancel(ctx)
	ri := &runningInstance{
		inst:   inst,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.running[rec.ID] = ri

	inst.Start()
	go r.loop(ictx, ri, interval)
}

// loop — единственная горутина, которая дергает OnTick этого инстанса,
// поэтому тики одного инстанса никогда не идут параллельно.
func (r *Runtime) loop(ctx context.Context, ri *runningInstance, interval time.Duration) {
	defer close(ri.done)

	t := time.NewTicker(interval)
	defer t.Stop()

	ri.inst.OnTick(ctx)
	r.touch()

	for {
		select {
		case <-ctx.Done():
			ri.inst.Stop()
			return
		case <-t.C:
			ri.inst.OnTick(ctx)
			r.touch()
		}
	}
}

func (r *Runtime) touch() {
	if r.onTick != nil {
		r.onTick(time.Now())
	}
}

// Count — сколько инстансов живо сейчас.
func (r *Runtime) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.running)
}

// StopAll останавливает все инстансы и ждёт завершения их циклов.
func (r *Runtime) StopAll() {
	r.mu.Lock()
	stopped := make([]*runningInstance, 0, len(r.running))
	for id, ri := range r.running {
		ri.cancel()
		stopped = append(stopped, ri)
		delete(r.running, id)
	}
	r.mu.Unlock()

	for _, ri := range stopped {
		<-ri.done
	}
}
