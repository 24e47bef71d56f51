package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"tradeterm/internal/domain"
)

// Paper-trading constants: starting cash per account and the synthetic
// latencies stamped on auto-filled orders.
const (
	simStartingCash = 10_000_000.0
	simAckLatency   = int64(time.Millisecond)
	simFillLatency  = 2 * int64(time.Millisecond)
)

// Compile-time interface check.
var _ Engine = (*Simulator)(nil)

// Simulator implements the Engine interface in memory for paper trading and
// tests. It tracks registered locations and readiness, assigns monotonic
// order/block ids, and records every submission so callers can observe what
// was issued.
type Simulator struct {
	mu        sync.Mutex
	live      bool
	locations map[uint32]*domain.Location
	ready     map[uint32]bool
	orders    map[uint64]*domain.Order
	positions map[string]*domain.Position
	assets    map[uint32]*domain.Asset

	nextOrderID  uint64
	nextTradeID  uint64
	nextBlockID  uint64
	nextActionID uint64

	issued    []*domain.OrderInput
	cancelled []*domain.OrderAction
	blocks    []*domain.BlockMessage

	// RejectBlocks makes IssueBlockMessage return a zero block id, the way
	// a failed negotiation does.
	RejectBlocks bool

	// AutoFill makes IssueOrder fill every order immediately at its limit
	// price, emitting the trade, the latency stat, and refreshed position
	// and asset snapshots. Paper trading runs with this on.
	AutoFill bool

	// Callbacks, when set, are invoked with the records a submission
	// creates or updates. Used to feed the live model.
	OnOrder    func(*domain.Order)
	OnTrade    func(*domain.Trade)
	OnStat     func(*domain.OrderStat)
	OnPosition func(*domain.Position)
	OnAsset    func(*domain.Asset)

	// Clock overrides the engine time source. Defaults to wall clock.
	Clock func() int64
}

// NewSimulator creates a live Simulator with no registered locations.
func NewSimulator() *Simulator {
	return &Simulator{
		live:      true,
		locations: make(map[uint32]*domain.Location),
		ready:     make(map[uint32]bool),
		orders:    make(map[uint64]*domain.Order),
		positions: make(map[string]*domain.Position),
		assets:    make(map[uint32]*domain.Asset),
	}
}

// Name returns "simulator".
func (s *Simulator) Name() string {
	return "simulator"
}

// SetLive toggles the simulated engine session.
func (s *Simulator) SetLive(live bool) {
	s.mu.Lock()
	s.live = live
	s.mu.Unlock()
}

// IsLive reports whether the simulated session is established.
func (s *Simulator) IsLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// RegisterLocation adds a location to the simulated engine. A zero UID is
// assigned from the hash of the process identifier, matching how the native
// engine derives location uids.
func (s *Simulator) RegisterLocation(loc *domain.Location) *domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc.UID == 0 {
		loc.UID = s.hash(loc.ProcessID())
	}
	s.locations[loc.UID] = loc
	return loc
}

// SetReady marks a location as ready (or not) to interact.
func (s *Simulator) SetReady(loc *domain.Location, ready bool) {
	s.mu.Lock()
	s.ready[loc.UID] = ready
	s.mu.Unlock()
}

// IsReadyToInteract reports readiness of the given location.
func (s *Simulator) IsReadyToInteract(loc *domain.Location) bool {
	if loc == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready[loc.UID]
}

// GetLocation returns the location registered under uid, or nil.
func (s *Simulator) GetLocation(uid uint32) *domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locations[uid]
}

// LocationByProcessID returns the registered location matching the process
// identifier, or nil.
func (s *Simulator) LocationByProcessID(processID string) *domain.Location {
	category, group, name, ok := ParseProcessID(processID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range s.locations {
		if loc.Category == category && loc.Group == group && loc.Name == name {
			return loc
		}
	}
	return nil
}

// Now returns the simulated engine time in nanoseconds.
func (s *Simulator) Now() int64 {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UnixNano()
}

// IssueOrder records the order input, creates a submitted order record, and
// returns the assigned order id.
func (s *Simulator) IssueOrder(_ context.Context, input *domain.OrderInput, td, strategy *domain.Location) (uint64, error) {
	s.mu.Lock()
	s.nextOrderID++
	orderID := s.nextOrderID

	submitted := *input
	submitted.OrderID = orderID
	submitted.Source = td.UID
	if strategy != nil {
		submitted.Dest = strategy.UID
		submitted.ParentID = uint64(strategy.UID)
	}
	submitted.UIDKey = domain.OrderUIDKey(orderID)
	s.issued = append(s.issued, &submitted)

	order := &domain.Order{
		OrderID:        orderID,
		ParentID:       submitted.ParentID,
		InsertTime:     submitted.InsertTime,
		UpdateTime:     submitted.InsertTime,
		TradingDay:     submitted.TradingDay,
		InstrumentID:   submitted.InstrumentID,
		ExchangeID:     submitted.ExchangeID,
		InstrumentType: submitted.InstrumentType,
		LimitPrice:     submitted.LimitPrice,
		FrozenPrice:    submitted.FrozenPrice,
		Volume:         submitted.Volume,
		VolumeLeft:     submitted.Volume,
		Status:         domain.OrderStatusSubmitted,
		Side:           submitted.Side,
		Offset:         submitted.Offset,
		HedgeFlag:      submitted.HedgeFlag,
		PriceType:      submitted.PriceType,
		IsSwap:         submitted.IsSwap,
		Source:         submitted.Source,
		Dest:           submitted.Dest,
		UIDKey:         submitted.UIDKey,
	}
	s.orders[orderID] = order

	var trade *domain.Trade
	var stat *domain.OrderStat
	var pos *domain.Position
	var asset *domain.Asset
	if s.AutoFill {
		trade, stat, pos, asset = s.fill(order, td)
	}
	onOrder, onTrade, onStat := s.OnOrder, s.OnTrade, s.OnStat
	onPosition, onAsset := s.OnPosition, s.OnAsset
	s.mu.Unlock()

	if onOrder != nil {
		onOrder(order)
	}
	if trade != nil && onTrade != nil {
		onTrade(trade)
	}
	if stat != nil && onStat != nil {
		onStat(stat)
	}
	if pos != nil && onPosition != nil {
		onPosition(pos)
	}
	if asset != nil && onAsset != nil {
		onAsset(asset)
	}
	return orderID, nil
}

// fill executes an order in full at its limit price, stamping synthetic
// latencies and refreshing the desk's position and asset snapshots.
// Called with the mutex held.
func (s *Simulator) fill(order *domain.Order, td *domain.Location) (*domain.Trade, *domain.OrderStat, *domain.Position, *domain.Asset) {
	tradeTime := order.InsertTime + simFillLatency

	s.nextTradeID++
	trade := &domain.Trade{
		TradeID:        s.nextTradeID,
		OrderID:        order.OrderID,
		TradeTime:      tradeTime,
		TradingDay:     order.TradingDay,
		InstrumentID:   order.InstrumentID,
		ExchangeID:     order.ExchangeID,
		InstrumentType: order.InstrumentType,
		Side:           order.Side,
		Offset:         order.Offset,
		HedgeFlag:      order.HedgeFlag,
		Price:          order.LimitPrice,
		Volume:         order.Volume,
		Source:         order.Source,
		Dest:           order.Dest,
		UIDKey:         domain.OrderUIDKey(s.nextTradeID),
	}

	stat := &domain.OrderStat{
		OrderID:    order.OrderID,
		InputTime:  order.InsertTime,
		InsertTime: order.InsertTime,
		AckTime:    order.InsertTime + simAckLatency,
		TradeTime:  tradeTime,
		UIDKey:     order.UIDKey,
	}

	order.Status = domain.OrderStatusFilled
	order.VolumeLeft = 0
	order.UpdateTime = tradeTime

	// Net long position per desk and instrument; sells reduce it.
	posKey := fmt.Sprintf("%s_%s_%d", order.InstrumentID, order.ExchangeID, td.UID)
	pos := s.positions[posKey]
	if pos == nil {
		pos = &domain.Position{
			InstrumentID:   order.InstrumentID,
			ExchangeID:     order.ExchangeID,
			InstrumentType: order.InstrumentType,
			Direction:      domain.DirectionLong,
			LedgerCategory: domain.LedgerCategoryAccount,
			HolderUID:      td.UID,
			UIDKey:         posKey,
		}
		s.positions[posKey] = pos
	}
	delta := order.Volume
	if order.Side == domain.SideSell {
		delta = -delta
	}
	if delta > 0 {
		total := float64(pos.Volume) + float64(delta)
		pos.AvgOpenPrice = (pos.AvgOpenPrice*float64(pos.Volume) + order.LimitPrice*float64(delta)) / total
	}
	pos.Volume += delta
	pos.LastPrice = order.LimitPrice
	pos.UpdateTime = tradeTime
	pos.TradingDay = order.TradingDay

	asset := s.assets[td.UID]
	if asset == nil {
		asset = &domain.Asset{
			Avail:          simStartingCash,
			LedgerCategory: domain.LedgerCategoryAccount,
			HolderUID:      td.UID,
			UIDKey:         fmt.Sprintf("%d", td.UID),
		}
		s.assets[td.UID] = asset
	}
	notional := order.LimitPrice * float64(order.Volume)
	if order.Side == domain.SideSell {
		asset.Avail += notional
		asset.MarketValue -= notional
	} else {
		asset.Avail -= notional
		asset.MarketValue += notional
	}
	asset.UpdateTime = tradeTime
	asset.TradingDay = order.TradingDay

	// Snapshots are published by copy; the originals keep accumulating
	// under the simulator's lock.
	posCopy := *pos
	assetCopy := *asset
	return trade, stat, &posCopy, &assetCopy
}

// CancelOrder records the cancellation and marks the target order
// cancelled when it is known.
func (s *Simulator) CancelOrder(_ context.Context, action *domain.OrderAction, _, _ *domain.Location) (uint64, error) {
	s.mu.Lock()
	s.nextActionID++
	actionID := s.nextActionID
	recorded := *action
	recorded.OrderActionID = actionID
	s.cancelled = append(s.cancelled, &recorded)

	var updated *domain.Order
	if order, ok := s.orders[action.OrderID]; ok && !order.Status.Final() {
		order.Status = domain.OrderStatusCancelled
		order.UpdateTime = s.Now()
		updated = order
	}
	callback := s.OnOrder
	s.mu.Unlock()

	if callback != nil && updated != nil {
		callback(updated)
	}
	return actionID, nil
}

// IssueBlockMessage returns the next block id, or zero when RejectBlocks is
// set.
func (s *Simulator) IssueBlockMessage(_ context.Context, msg *domain.BlockMessage, _ *domain.Location) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recorded := *msg
	s.blocks = append(s.blocks, &recorded)
	if s.RejectBlocks {
		return 0, nil
	}
	s.nextBlockID++
	return s.nextBlockID, nil
}

// RequestMarketData is a no-op in the simulator.
func (s *Simulator) RequestMarketData(_ context.Context, _ *domain.Location, _, _ string) error {
	return nil
}

// Hash implements the engine's deterministic string hash.
func (s *Simulator) Hash(str string) uint32 {
	return s.hash(str)
}

func (s *Simulator) hash(str string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(str))
	return h.Sum32()
}

// IssuedOrders returns a copy of every order input submitted so far.
func (s *Simulator) IssuedOrders() []*domain.OrderInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.OrderInput, len(s.issued))
	copy(out, s.issued)
	return out
}

// CancelledActions returns a copy of every cancellation submitted so far.
func (s *Simulator) CancelledActions() []*domain.OrderAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.OrderAction, len(s.cancelled))
	copy(out, s.cancelled)
	return out
}

// BlockMessages returns a copy of every block negotiation submitted so far.
func (s *Simulator) BlockMessages() []*domain.BlockMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.BlockMessage, len(s.blocks))
	copy(out, s.blocks)
	return out
}
