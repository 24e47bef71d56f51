package history

import (
	"context"
	"fmt"
	"time"

	"tradeterm/internal/domain"
)

// DefaultYield is the pause inserted before each merge query. History
// queries arrive in UI-triggered bursts; the yield keeps them off the hot
// path of the event loop. It is a debounce, not a correctness requirement.
const DefaultYield = 160 * time.Millisecond

// Merger assembles the trading dataset for a requested date, spanning
// trading-day boundaries when asked to.
type Merger struct {
	store Store

	// Yield is the pre-query pause. Zero disables it (tests).
	Yield time.Duration
}

// NewMerger creates a Merger over the given store with the default yield.
func NewMerger(store Store) *Merger {
	return &Merger{store: store, Yield: DefaultYield}
}

// ByDateRange returns the dataset for date under the given interpretation.
//
// Natural-date mode selects the single window [date, date+1) unmodified.
//
// Trading-date mode treats date as a trading day and merges three candidate
// windows: today [date, date+1), yesterday [date-1, date), and the
// pre-weekend session [date-3, date-2). Append-only types (orders, trades,
// order inputs) keep only records whose trading_day equals the target day;
// earlier windows never overwrite a key already taken. Snapshot types
// (positions, assets, order stats) merge with precedence
// Friday < Yesterday < Today.
func (m *Merger) ByDateRange(ctx context.Context, date time.Time, mode domain.HistoryDateType) (*domain.TradingData, error) {
	if err := m.yield(ctx); err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if mode == domain.HistoryNaturalDate {
		return m.store.SelectPeriod(ctx, day, day.AddDate(0, 0, 1))
	}

	tradingDay := day.Format("20060102")

	today, err := m.store.SelectPeriod(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("selecting today window: %w", err)
	}
	yesterday, err := m.store.SelectPeriod(ctx, day.AddDate(0, 0, -1), day)
	if err != nil {
		return nil, fmt.Errorf("selecting yesterday window: %w", err)
	}
	friday, err := m.store.SelectPeriod(ctx, day.AddDate(0, 0, -3), day.AddDate(0, 0, -2))
	if err != nil {
		return nil, fmt.Errorf("selecting pre-weekend window: %w", err)
	}

	merged := domain.NewTradingData()

	// Append-only types: concatenate across windows, keep the trading day.
	for _, window := range []*domain.TradingData{today, yesterday, friday} {
		for key, order := range window.Orders {
			if order.TradingDay != tradingDay {
				continue
			}
			if _, taken := merged.Orders[key]; !taken {
				merged.Orders[key] = order
			}
		}
		for key, trade := range window.Trades {
			if trade.TradingDay != tradingDay {
				continue
			}
			if _, taken := merged.Trades[key]; !taken {
				merged.Trades[key] = trade
			}
		}
		for key, input := range window.OrderInputs {
			if input.TradingDay != tradingDay {
				continue
			}
			if _, taken := merged.OrderInputs[key]; !taken {
				merged.OrderInputs[key] = input
			}
		}
	}

	// Snapshot types: overwrite oldest-first so today's values win.
	for _, window := range []*domain.TradingData{friday, yesterday, today} {
		for key, pos := range window.Positions {
			merged.Positions[key] = pos
		}
		for key, asset := range window.Assets {
			merged.Assets[key] = asset
		}
		for key, stat := range window.OrderStats {
			merged.OrderStats[key] = stat
		}
	}

	return merged, nil
}

func (m *Merger) yield(ctx context.Context) error {
	if m.Yield <= 0 {
		return nil
	}
	timer := time.NewTimer(m.Yield)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
