package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/feed"
)

// recordingWriter counts what the mirror persists.
type recordingWriter struct {
	orders    int
	trades    int
	stats     int
	positions int
	assets    int
}

func (w *recordingWriter) SaveOrder(context.Context, *domain.Order) error {
	w.orders++
	return nil
}

func (w *recordingWriter) SaveTrade(context.Context, *domain.Trade) error {
	w.trades++
	return nil
}

func (w *recordingWriter) SavePosition(context.Context, *domain.Position) error {
	w.positions++
	return nil
}

func (w *recordingWriter) SaveAsset(context.Context, *domain.Asset) error {
	w.assets++
	return nil
}

func (w *recordingWriter) SaveOrderStat(context.Context, *domain.OrderStat) error {
	w.stats++
	return nil
}

func (w *recordingWriter) SaveOrderInput(context.Context, *domain.OrderInput) error {
	return nil
}

func TestMirrorSessionPersistsLiveFeed(t *testing.T) {
	sim := engine.NewSimulator()
	sim.AutoFill = true
	td := sim.RegisterLocation(&domain.Location{
		Category: domain.CategoryTD, Group: "xtp", Name: "123456", Mode: "live",
	})

	model := feed.NewModel()
	sim.OnOrder = model.UpsertOrder
	sim.OnTrade = func(trade *domain.Trade) { model.AddTrade(trade) }
	sim.OnStat = model.UpsertOrderStat
	sim.OnPosition = model.UpsertPosition
	sim.OnAsset = model.UpsertAsset

	w := &recordingWriter{}
	mirrorSession(sim, w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	input := domain.NewOrderInput()
	input.InstrumentID = "600000"
	input.ExchangeID = "SSE"
	input.LimitPrice = 10.0
	input.Volume = 100
	input.Side = domain.SideBuy
	input.InsertTime = sim.Now()
	if _, err := sim.IssueOrder(context.Background(), input, td, nil); err != nil {
		t.Fatalf("IssueOrder returned error: %v", err)
	}

	orders, trades, positions, assets := model.Counts()
	if orders != 1 || trades != 1 || positions != 1 || assets != 1 {
		t.Errorf("model counts = (%d, %d, %d, %d), want all 1",
			orders, trades, positions, assets)
	}

	if w.orders != 1 || w.trades != 1 || w.stats != 1 || w.positions != 1 || w.assets != 1 {
		t.Errorf("writer saw (orders=%d trades=%d stats=%d positions=%d assets=%d), want all 1",
			w.orders, w.trades, w.stats, w.positions, w.assets)
	}
}
