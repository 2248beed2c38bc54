package service

import (
	"context"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

// ErrPublishFailed — запись сохранена, но публикация не прошла. Доставка
// at-least-once: запись остаётся в базе для последующей сверки.
var ErrPublishFailed = errors.New("signal persisted but publish failed")

// Distributor: persist-then-publish. Сначала durable-запись, потом топик —
// ровно одна запись на переход состояния индикатора.
type Distributor struct {
	store Store
	pub   Publisher
}

func NewDistributor(store Store, pub Publisher) *Distributor {
	return &Distributor{store: store, pub: pub}
}

func (d *Distributor) Emit(ctx context.Context, sig models.Signal) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "signal.emit")
	defer span.Finish()

	if err := d.store.Insert(ctx, &sig); err != nil {
		return errors.Wrap(err, "persist signal")
	}

	payload := models.SignalPayload{
		StrategyID:   sig.StrategyID,
		StrategyName: sig.StrategyName,
		Symbol:       sig.Symbol,
		Side:         string(sig.Side),
		Price:        sig.Price,
		Reason:       sig.Reason,
		Timestamp:    sig.Ts.Format(time.RFC3339),
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(ErrPublishFailed, err.Error())
	}

	if err := d.pub.Publish(ctx, raw); err != nil {
		logger.Error("signal %d persisted but not published: %v", sig.ID, err)
		return errors.Wrap(ErrPublishFailed, err.Error())
	}
	return nil
}
