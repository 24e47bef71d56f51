// Package feed provides a shared in-memory model of the current session's
// trading data, with upsert-by-key semantics, sorted snapshots, and pub/sub
// for pushing updates to connected clients.
package feed

import (
	"sort"
	"sync"

	"tradeterm/internal/domain"
)

// EventKind names the trading-data type an Event carries.
type EventKind string

const (
	EventOrder    EventKind = "order"
	EventTrade    EventKind = "trade"
	EventPosition EventKind = "position"
	EventAsset    EventKind = "asset"
)

// Event is emitted to subscribers when a record is inserted or updated.
type Event struct {
	Kind EventKind
	Key  string
}

// Model holds the live session's trading data keyed by UIDKey. Orders and
// snapshots are upserted in place; trades are append-only and deduplicated.
type Model struct {
	mu         sync.RWMutex
	orders     map[string]*domain.Order
	trades     map[string]*domain.Trade
	positions  map[string]*domain.Position
	assets     map[string]*domain.Asset
	orderStats map[string]*domain.OrderStat

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// NewModel creates an empty Model.
func NewModel() *Model {
	return &Model{
		orders:     make(map[string]*domain.Order),
		trades:     make(map[string]*domain.Trade),
		positions:  make(map[string]*domain.Position),
		assets:     make(map[string]*domain.Asset),
		orderStats: make(map[string]*domain.OrderStat),
		subs:       make(map[int]chan Event),
	}
}

// UpsertOrder inserts or replaces the order under its UIDKey and notifies
// subscribers.
func (m *Model) UpsertOrder(order *domain.Order) {
	m.mu.Lock()
	m.orders[order.UIDKey] = order
	m.mu.Unlock()
	m.publish(Event{Kind: EventOrder, Key: order.UIDKey})
}

// AddTrade inserts a trade. Trades are immutable; a key already present is
// a duplicate delivery and is dropped. Returns false for duplicates.
func (m *Model) AddTrade(trade *domain.Trade) bool {
	m.mu.Lock()
	if _, dup := m.trades[trade.UIDKey]; dup {
		m.mu.Unlock()
		return false
	}
	m.trades[trade.UIDKey] = trade
	m.mu.Unlock()
	m.publish(Event{Kind: EventTrade, Key: trade.UIDKey})
	return true
}

// UpsertPosition replaces the position snapshot under its UIDKey.
func (m *Model) UpsertPosition(pos *domain.Position) {
	m.mu.Lock()
	m.positions[pos.UIDKey] = pos
	m.mu.Unlock()
	m.publish(Event{Kind: EventPosition, Key: pos.UIDKey})
}

// UpsertAsset replaces the asset snapshot under its UIDKey.
func (m *Model) UpsertAsset(asset *domain.Asset) {
	m.mu.Lock()
	m.assets[asset.UIDKey] = asset
	m.mu.Unlock()
	m.publish(Event{Kind: EventAsset, Key: asset.UIDKey})
}

// UpsertOrderStat replaces the latency side-record under its UIDKey. Stats
// feed the display join and carry no event of their own.
func (m *Model) UpsertOrderStat(stat *domain.OrderStat) {
	m.mu.Lock()
	m.orderStats[stat.UIDKey] = stat
	m.mu.Unlock()
}

// Orders returns the session's orders, most recently updated first.
func (m *Model) Orders() []*domain.Order {
	m.mu.RLock()
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdateTime != out[j].UpdateTime {
			return out[i].UpdateTime > out[j].UpdateTime
		}
		return out[i].UIDKey < out[j].UIDKey
	})
	return out
}

// Trades returns the session's trades, most recent first.
func (m *Model) Trades() []*domain.Trade {
	m.mu.RLock()
	out := make([]*domain.Trade, 0, len(m.trades))
	for _, t := range m.trades {
		out = append(out, t)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].TradeTime != out[j].TradeTime {
			return out[i].TradeTime > out[j].TradeTime
		}
		return out[i].UIDKey < out[j].UIDKey
	})
	return out
}

// Positions returns the current position snapshots ordered by instrument.
func (m *Model) Positions() []*domain.Position {
	m.mu.RLock()
	out := make([]*domain.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].InstrumentID != out[j].InstrumentID {
			return out[i].InstrumentID < out[j].InstrumentID
		}
		return out[i].UIDKey < out[j].UIDKey
	})
	return out
}

// Assets returns the current asset snapshots ordered by holder.
func (m *Model) Assets() []*domain.Asset {
	m.mu.RLock()
	out := make([]*domain.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].HolderUID != out[j].HolderUID {
			return out[i].HolderUID < out[j].HolderUID
		}
		return out[i].UIDKey < out[j].UIDKey
	})
	return out
}

// OrderStats returns the latency side-records keyed by UIDKey, for joining
// against orders and trades at display time.
func (m *Model) OrderStats() map[string]*domain.OrderStat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*domain.OrderStat, len(m.orderStats))
	for k, v := range m.orderStats {
		out[k] = v
	}
	return out
}

// Order returns the order stored under key, or nil.
func (m *Model) Order(key string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[key]
}

// Counts returns the number of records per type.
func (m *Model) Counts() (orders, trades, positions, assets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders), len(m.trades), len(m.positions), len(m.assets)
}

// Reset clears the model for a new trading session.
func (m *Model) Reset() {
	m.mu.Lock()
	m.orders = make(map[string]*domain.Order)
	m.trades = make(map[string]*domain.Trade)
	m.positions = make(map[string]*domain.Position)
	m.assets = make(map[string]*domain.Asset)
	m.orderStats = make(map[string]*domain.OrderStat)
	m.mu.Unlock()
}

// Subscribe creates a subscription channel for model events.
func (m *Model) Subscribe(bufSize int) (id int, ch <-chan Event) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	id = m.nextSubID
	m.nextSubID++
	c := make(chan Event, bufSize)
	m.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Model) Unsubscribe(id int) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	if ch, ok := m.subs[id]; ok {
		close(ch)
		delete(m.subs, id)
	}
}

func (m *Model) publish(evt Event) {
	m.subsMu.Lock()
	for _, ch := range m.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber, drop event.
		}
	}
	m.subsMu.Unlock()
}
