// Package history provides access to the engine's historical record store
// and the trading-day merge logic that assembles a coherent dataset for a
// requested date.
package history

import (
	"context"
	"time"

	"tradeterm/internal/domain"
)

// Store reads time-bucketed trading data from the historical record store.
type Store interface {
	// SelectPeriod returns every record whose event time falls in
	// [from, to), bundled per trading-data type.
	SelectPeriod(ctx context.Context, from, to time.Time) (*domain.TradingData, error)
}

// Writer persists trading data into the historical store. The engine side
// owns the write path in production; this layer writes only when mirroring
// a live session for later replay.
type Writer interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	SaveTrade(ctx context.Context, trade *domain.Trade) error
	SavePosition(ctx context.Context, pos *domain.Position) error
	SaveAsset(ctx context.Context, asset *domain.Asset) error
	SaveOrderStat(ctx context.Context, stat *domain.OrderStat) error
	SaveOrderInput(ctx context.Context, input *domain.OrderInput) error
}
