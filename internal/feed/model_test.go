package feed

import (
	"testing"

	"tradeterm/internal/domain"
)

func TestModelUpsertOrder(t *testing.T) {
	m := NewModel()

	m.UpsertOrder(&domain.Order{UIDKey: "a", UpdateTime: 1, Status: domain.OrderStatusSubmitted})
	m.UpsertOrder(&domain.Order{UIDKey: "a", UpdateTime: 2, Status: domain.OrderStatusFilled})
	m.UpsertOrder(&domain.Order{UIDKey: "b", UpdateTime: 3, Status: domain.OrderStatusSubmitted})

	orders := m.Orders()
	if len(orders) != 2 {
		t.Fatalf("len(Orders) = %d, want 2 after upsert", len(orders))
	}
	if orders[0].UIDKey != "b" {
		t.Errorf("orders[0] = %q, want most recently updated first", orders[0].UIDKey)
	}
	if orders[1].Status != domain.OrderStatusFilled {
		t.Error("upsert must replace the stored order")
	}
}

func TestModelTradeDedup(t *testing.T) {
	m := NewModel()

	if !m.AddTrade(&domain.Trade{UIDKey: "t1", TradeTime: 1}) {
		t.Error("first delivery should be accepted")
	}
	if m.AddTrade(&domain.Trade{UIDKey: "t1", TradeTime: 1}) {
		t.Error("duplicate delivery should be dropped")
	}

	trades := m.Trades()
	if len(trades) != 1 {
		t.Fatalf("len(Trades) = %d, want 1", len(trades))
	}
}

func TestModelSnapshotsSorted(t *testing.T) {
	m := NewModel()

	m.UpsertPosition(&domain.Position{UIDKey: "p2", InstrumentID: "600519"})
	m.UpsertPosition(&domain.Position{UIDKey: "p1", InstrumentID: "600000"})
	m.UpsertAsset(&domain.Asset{UIDKey: "a2", HolderUID: 9})
	m.UpsertAsset(&domain.Asset{UIDKey: "a1", HolderUID: 3})

	positions := m.Positions()
	if positions[0].InstrumentID != "600000" {
		t.Errorf("positions[0] = %q, want instrument order", positions[0].InstrumentID)
	}
	assets := m.Assets()
	if assets[0].HolderUID != 3 {
		t.Errorf("assets[0] holder = %d, want holder order", assets[0].HolderUID)
	}
}

func TestModelOrderStatsJoin(t *testing.T) {
	m := NewModel()
	key := domain.OrderUIDKey(7)
	m.UpsertOrderStat(&domain.OrderStat{UIDKey: key, AckTime: 5})

	stats := m.OrderStats()
	if stats[key] == nil || stats[key].AckTime != 5 {
		t.Fatalf("stats[%q] = %+v, want ack time 5", key, stats[key])
	}

	// The returned map is a copy; mutating it must not touch the model.
	delete(stats, key)
	if m.OrderStats()[key] == nil {
		t.Error("snapshot map must be detached from the model")
	}
}

func TestModelPubSub(t *testing.T) {
	m := NewModel()
	id, ch := m.Subscribe(4)
	defer m.Unsubscribe(id)

	m.UpsertOrder(&domain.Order{UIDKey: "o1", UpdateTime: 1})
	m.AddTrade(&domain.Trade{UIDKey: "t1"})
	m.AddTrade(&domain.Trade{UIDKey: "t1"}) // duplicate, no event

	evt := <-ch
	if evt.Kind != EventOrder || evt.Key != "o1" {
		t.Errorf("first event = %+v, want order o1", evt)
	}
	evt = <-ch
	if evt.Kind != EventTrade || evt.Key != "t1" {
		t.Errorf("second event = %+v, want trade t1", evt)
	}
	select {
	case evt = <-ch:
		t.Errorf("unexpected third event %+v", evt)
	default:
	}
}

func TestModelSlowSubscriberDropsEvents(t *testing.T) {
	m := NewModel()
	id, ch := m.Subscribe(1)
	defer m.Unsubscribe(id)

	m.UpsertOrder(&domain.Order{UIDKey: "o1"})
	m.UpsertOrder(&domain.Order{UIDKey: "o2"}) // buffer full, dropped

	if evt := <-ch; evt.Key != "o1" {
		t.Errorf("delivered event = %+v, want o1", evt)
	}
	select {
	case evt := <-ch:
		t.Errorf("overflow event %+v should have been dropped", evt)
	default:
	}
}

func TestModelReset(t *testing.T) {
	m := NewModel()
	m.UpsertOrder(&domain.Order{UIDKey: "o1"})
	m.AddTrade(&domain.Trade{UIDKey: "t1"})
	m.Reset()

	orders, trades, positions, assets := m.Counts()
	if orders+trades+positions+assets != 0 {
		t.Errorf("counts after reset = %d/%d/%d/%d, want all zero", orders, trades, positions, assets)
	}
	if !m.AddTrade(&domain.Trade{UIDKey: "t1"}) {
		t.Error("reset must clear trade dedup state")
	}
}
