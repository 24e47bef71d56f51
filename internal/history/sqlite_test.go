package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tradeterm/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreOrdersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 17, 9, 30, 0, 0, time.UTC)
	order := &domain.Order{
		OrderID:      101,
		InsertTime:   base.UnixNano(),
		UpdateTime:   base.Add(time.Second).UnixNano(),
		TradingDay:   "20240617",
		InstrumentID: "600000",
		ExchangeID:   "SSE",
		LimitPrice:   10.5,
		Volume:       200,
		VolumeLeft:   200,
		Status:       domain.OrderStatusSubmitted,
		Side:         domain.SideBuy,
		Offset:       domain.OffsetOpen,
		Source:       7,
		Dest:         9,
		UIDKey:       domain.OrderUIDKey(101),
	}
	if err := store.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder returned error: %v", err)
	}

	// Out-of-window order the select must not return.
	old := *order
	old.OrderID = 100
	old.UIDKey = domain.OrderUIDKey(100)
	old.InsertTime = base.AddDate(0, 0, -5).UnixNano()
	old.TradingDay = "20240612"
	if err := store.SaveOrder(ctx, &old); err != nil {
		t.Fatalf("SaveOrder returned error: %v", err)
	}

	day := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	data, err := store.SelectPeriod(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SelectPeriod returned error: %v", err)
	}

	if len(data.Orders) != 1 {
		t.Fatalf("len(Orders) = %d, want 1", len(data.Orders))
	}
	got, ok := data.Orders[order.UIDKey]
	if !ok {
		t.Fatalf("order %q missing from selection", order.UIDKey)
	}
	if got.OrderID != order.OrderID || got.LimitPrice != order.LimitPrice ||
		got.Side != order.Side || got.Offset != order.Offset ||
		got.TradingDay != order.TradingDay || got.Source != order.Source {
		t.Errorf("round-tripped order = %+v, want %+v", got, order)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 17, 9, 30, 0, 0, time.UTC)
	order := &domain.Order{
		OrderID:    5,
		InsertTime: base.UnixNano(),
		UpdateTime: base.UnixNano(),
		TradingDay: "20240617",
		Status:     domain.OrderStatusSubmitted,
		UIDKey:     domain.OrderUIDKey(5),
	}
	if err := store.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder returned error: %v", err)
	}

	order.Status = domain.OrderStatusFilled
	order.UpdateTime = base.Add(time.Minute).UnixNano()
	if err := store.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder (update) returned error: %v", err)
	}

	day := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	data, err := store.SelectPeriod(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SelectPeriod returned error: %v", err)
	}
	if len(data.Orders) != 1 {
		t.Fatalf("len(Orders) after upsert = %d, want 1", len(data.Orders))
	}
	if data.Orders[order.UIDKey].Status != domain.OrderStatusFilled {
		t.Errorf("status = %d, want filled", data.Orders[order.UIDKey].Status)
	}
}

func TestSQLiteStoreAllTypes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 17, 10, 0, 0, 0, time.UTC)
	nano := base.UnixNano()

	if err := store.SaveTrade(ctx, &domain.Trade{
		TradeID: 1, OrderID: 101, TradeTime: nano, TradingDay: "20240617",
		InstrumentID: "600000", ExchangeID: "SSE", Price: 10.4, Volume: 100,
		UIDKey: "trade-1",
	}); err != nil {
		t.Fatalf("SaveTrade returned error: %v", err)
	}
	if err := store.SavePosition(ctx, &domain.Position{
		UpdateTime: nano, TradingDay: "20240617", InstrumentID: "600000",
		ExchangeID: "SSE", Volume: 100, HolderUID: 7, UIDKey: "pos-1",
	}); err != nil {
		t.Fatalf("SavePosition returned error: %v", err)
	}
	if err := store.SaveAsset(ctx, &domain.Asset{
		UpdateTime: nano, TradingDay: "20240617", Avail: 5000, HolderUID: 7,
		UIDKey: "asset-1",
	}); err != nil {
		t.Fatalf("SaveAsset returned error: %v", err)
	}
	if err := store.SaveOrderStat(ctx, &domain.OrderStat{
		OrderID: 101, InsertTime: nano, AckTime: nano + 1e6, UIDKey: domain.OrderUIDKey(101),
	}); err != nil {
		t.Fatalf("SaveOrderStat returned error: %v", err)
	}
	if err := store.SaveOrderInput(ctx, &domain.OrderInput{
		OrderID: 101, InsertTime: nano, TradingDay: "20240617",
		InstrumentID: "600000", ExchangeID: "SSE", Volume: 100,
		UIDKey: domain.OrderUIDKey(101),
	}); err != nil {
		t.Fatalf("SaveOrderInput returned error: %v", err)
	}

	day := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	data, err := store.SelectPeriod(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SelectPeriod returned error: %v", err)
	}

	if len(data.Trades) != 1 {
		t.Errorf("len(Trades) = %d, want 1", len(data.Trades))
	}
	if len(data.Positions) != 1 {
		t.Errorf("len(Positions) = %d, want 1", len(data.Positions))
	}
	if len(data.Assets) != 1 {
		t.Errorf("len(Assets) = %d, want 1", len(data.Assets))
	}
	if len(data.OrderStats) != 1 {
		t.Errorf("len(OrderStats) = %d, want 1", len(data.OrderStats))
	}
	if len(data.OrderInputs) != 1 {
		t.Errorf("len(OrderInputs) = %d, want 1", len(data.OrderInputs))
	}

	stat := data.OrderStats[domain.OrderUIDKey(101)]
	if stat == nil || stat.AckTime != nano+1e6 {
		t.Errorf("order stat round trip = %+v", stat)
	}
}

func TestSQLiteWithMerger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// An order inserted Sunday evening that belongs to Monday's session.
	sunday := time.Date(2024, 6, 16, 21, 0, 0, 0, time.UTC)
	if err := store.SaveOrder(ctx, &domain.Order{
		OrderID: 1, InsertTime: sunday.UnixNano(), UpdateTime: sunday.UnixNano(),
		TradingDay: "20240617", Status: domain.OrderStatusSubmitted,
		UIDKey: domain.OrderUIDKey(1),
	}); err != nil {
		t.Fatalf("SaveOrder returned error: %v", err)
	}

	m := &Merger{store: store}
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)

	data, err := m.ByDateRange(ctx, monday, domain.HistoryTradingDate)
	if err != nil {
		t.Fatalf("ByDateRange returned error: %v", err)
	}
	if _, ok := data.Orders[domain.OrderUIDKey(1)]; !ok {
		t.Error("night-session order missing from trading-date merge")
	}

	data, err = m.ByDateRange(ctx, monday, domain.HistoryNaturalDate)
	if err != nil {
		t.Fatalf("ByDateRange returned error: %v", err)
	}
	if len(data.Orders) != 0 {
		t.Error("natural-date merge must not include the previous calendar day")
	}
}
