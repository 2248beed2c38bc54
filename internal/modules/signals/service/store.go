package service

import (
	"context"
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Store — durable-хранилище сигналов.
type Store interface {
	Insert(ctx context.Context, sig *models.Signal) error
}

type PgStore struct {
	db *db.PgTxManager
}

func NewPgStore(db *db.PgTxManager) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Insert(ctx context.Context, sig *models.Signal) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PgStore.Insert: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctxTx,
			`INSERT INTO signals (strategy_id, symbol, side, price, reason, ts)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			sig.StrategyID, sig.Symbol, string(sig.Side), sig.Price, sig.Reason, sig.Ts,
		).Scan(&sig.ID)
	})
}
