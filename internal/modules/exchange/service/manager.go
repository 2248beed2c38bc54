package service

import (
	"context"
	"signal_bot/internal/models"

	"github.com/pkg/errors"
)

// Manager — единая точка доступа к рыночным данным всех настроенных venue.
type Manager struct {
	venues map[string]Venue
}

func NewManager(venues ...Venue) *Manager {
	m := &Manager{venues: make(map[string]Venue, len(venues))}
	for _, v := range venues {
		m.venues[v.Name()] = v
	}
	return m
}

func (m *Manager) FetchCandles(ctx context.Context, venue, symbol, timeframe string, limit int) ([]models.Candle, error) {
	v, ok := m.venues[venue]
	if !ok {
		return nil, errors.Wrap(ErrUnknownVenue, venue)
	}
	return v.FetchCandles(ctx, symbol, timeframe, limit)
}
