// Package dispatch validates and routes order intents to the trading
// engine. It owns the precondition chain every submission passes through
// and the account routing that turns a caller location into the trading
// desk the order is issued against.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/util"
)

var (
	// ErrEngineNotConnected means no engine binding is attached at all.
	ErrEngineNotConnected = errors.New("engine is not connected")

	// ErrEngineNotLive means the binding exists but the session is down.
	ErrEngineNotLive = errors.New("engine is not live")

	// ErrNoBlockID means block negotiation completed without yielding a
	// block id; the order must not be issued.
	ErrNoBlockID = errors.New("block negotiation returned no block id")

	// ErrAccountInfo means the account named by the request does not map to
	// any trading desk known to the engine.
	ErrAccountInfo = errors.New("account info is incomplete")
)

// NotReadyError reports that a trading desk process exists but is not yet
// ready to accept interactive requests.
type NotReadyError struct {
	AccountID string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("trading desk %s is not ready", e.AccountID)
}

// Dispatcher routes order intents to the engine. It holds no order state of
// its own; every call re-validates the engine session so a dropped
// connection is reported on the next submission rather than acted on.
type Dispatcher struct {
	engine engine.Engine
	logger *slog.Logger
}

// New creates a Dispatcher over the given engine binding. A nil engine is
// legal; every submission then fails with ErrEngineNotConnected.
func New(e engine.Engine, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{engine: e, logger: logger}
}

// checkSession runs the session half of the precondition chain.
func (d *Dispatcher) checkSession() error {
	if d.engine == nil {
		return ErrEngineNotConnected
	}
	if !d.engine.IsLive() {
		return ErrEngineNotLive
	}
	return nil
}

// checkDesk verifies the desk is ready to interact, naming the account in
// the error when it is not.
func (d *Dispatcher) checkDesk(td *domain.Location) error {
	if !d.engine.IsReadyToInteract(td) {
		accountID := "unknown"
		if td != nil {
			accountID = td.ID()
		}
		return &NotReadyError{AccountID: accountID}
	}
	return nil
}

// MakeOrder validates the session and the desk, then issues the order
// against td. A non-nil strategy marks the order as strategy-originated.
// Returns the engine-assigned order id.
func (d *Dispatcher) MakeOrder(ctx context.Context, intent *domain.MakeOrderInput, td, strategy *domain.Location) (uint64, error) {
	if err := d.checkSession(); err != nil {
		return 0, err
	}
	if err := d.checkDesk(td); err != nil {
		return 0, err
	}

	input := d.buildInput(intent, td)
	orderID, err := d.engine.IssueOrder(ctx, input, td, strategy)
	if err != nil {
		return 0, fmt.Errorf("issuing order: %w", err)
	}
	d.logger.Info("order issued",
		"order_id", orderID,
		"account", td.ID(),
		"instrument", intent.InstrumentID,
		"volume", intent.Volume)
	return orderID, nil
}

// MakeBlockOrder negotiates a block trade and issues the resulting order.
// The negotiation runs after the full precondition chain; when it yields no
// block id the order is not issued and ErrNoBlockID is returned.
func (d *Dispatcher) MakeBlockOrder(ctx context.Context, intent *domain.MakeOrderInput, msg *domain.BlockMessage, td, strategy *domain.Location) (uint64, error) {
	if err := d.checkSession(); err != nil {
		return 0, err
	}
	if err := d.checkDesk(td); err != nil {
		return 0, err
	}

	msg.InsertTime = d.engine.Now()
	blockID, err := d.engine.IssueBlockMessage(ctx, msg, td)
	if err != nil {
		return 0, fmt.Errorf("negotiating block trade: %w", err)
	}
	if blockID == 0 {
		return 0, ErrNoBlockID
	}

	input := d.buildInput(intent, td)
	input.BlockID = blockID
	orderID, err := d.engine.IssueOrder(ctx, input, td, strategy)
	if err != nil {
		return 0, fmt.Errorf("issuing block order: %w", err)
	}
	d.logger.Info("block order issued",
		"order_id", orderID,
		"block_id", blockID,
		"account", td.ID(),
		"instrument", intent.InstrumentID)
	return orderID, nil
}

// PlaceOrder routes an order intent from the caller's location. A trading
// desk submits against itself. A strategy submits against the desk named by
// accountID, with the strategy attached to the order. Any other caller
// submits against the named desk without a strategy. An accountID that maps
// to no known desk fails with ErrAccountInfo.
func (d *Dispatcher) PlaceOrder(ctx context.Context, intent *domain.MakeOrderInput, caller *domain.Location, accountID string) (uint64, error) {
	td, strategy, err := d.route(caller, accountID)
	if err != nil {
		return 0, err
	}
	return d.MakeOrder(ctx, intent, td, strategy)
}

// PlaceBlockOrder is PlaceOrder for block trades.
func (d *Dispatcher) PlaceBlockOrder(ctx context.Context, intent *domain.MakeOrderInput, msg *domain.BlockMessage, caller *domain.Location, accountID string) (uint64, error) {
	td, strategy, err := d.route(caller, accountID)
	if err != nil {
		return 0, err
	}
	return d.MakeBlockOrder(ctx, intent, msg, td, strategy)
}

func (d *Dispatcher) route(caller *domain.Location, accountID string) (td, strategy *domain.Location, err error) {
	if err := d.checkSession(); err != nil {
		return nil, nil, err
	}

	if caller != nil && caller.Category == domain.CategoryTD {
		return caller, nil, nil
	}

	td = d.engine.LocationByProcessID(string(domain.CategoryTD) + "_" + accountID)
	if td == nil {
		return nil, nil, fmt.Errorf("%w: no trading desk for account %s", ErrAccountInfo, accountID)
	}
	if caller != nil && caller.Category == domain.CategoryStrategy {
		strategy = caller
	}
	return td, strategy, nil
}

func (d *Dispatcher) buildInput(intent *domain.MakeOrderInput, td *domain.Location) *domain.OrderInput {
	input := domain.NewOrderInput()
	input.InstrumentID = intent.InstrumentID
	input.ExchangeID = intent.ExchangeID
	input.InstrumentType = intent.InstrumentType
	input.LimitPrice = intent.LimitPrice
	input.FrozenPrice = intent.LimitPrice
	input.Volume = intent.Volume
	input.Side = intent.Side
	input.Offset = intent.Offset
	input.IsSwap = intent.IsSwap
	if intent.PriceType != 0 {
		input.PriceType = intent.PriceType
	}
	if intent.HedgeFlag != 0 {
		input.HedgeFlag = intent.HedgeFlag
	}
	input.InsertTime = d.engine.Now()
	input.TradingDay = util.DayKey(util.TradingDay(time.Unix(0, input.InsertTime)))
	input.Source = td.UID
	return input
}

// CancelOrder issues a cancellation for the given order. The order's source
// desk must be ready; its dest location may legitimately be unknown for
// manually placed orders.
func (d *Dispatcher) CancelOrder(ctx context.Context, order *domain.Order) (uint64, error) {
	if err := d.checkSession(); err != nil {
		return 0, err
	}

	source := d.engine.GetLocation(order.Source)
	if err := d.checkDesk(source); err != nil {
		return 0, err
	}
	dest := d.engine.GetLocation(order.Dest)

	action := domain.NewOrderAction()
	action.OrderID = order.OrderID
	action.InsertTime = d.engine.Now()

	actionID, err := d.engine.CancelOrder(ctx, action, source, dest)
	if err != nil {
		return 0, fmt.Errorf("cancelling order %d: %w", order.OrderID, err)
	}
	d.logger.Info("order cancellation issued",
		"order_id", order.OrderID,
		"action_id", actionID,
		"account", source.ID())
	return actionID, nil
}

// CancelAll issues cancellations for every given order concurrently. All
// cancellations are attempted regardless of individual failures; the first
// error is returned after every submission has settled.
func (d *Dispatcher) CancelAll(ctx context.Context, orders []*domain.Order) error {
	if err := d.checkSession(); err != nil {
		return err
	}

	var g errgroup.Group
	for _, order := range orders {
		g.Go(func() error {
			_, err := d.CancelOrder(ctx, order)
			return err
		})
	}
	return g.Wait()
}

// RequestMarketData subscribes the given market-data source to an
// instrument.
func (d *Dispatcher) RequestMarketData(ctx context.Context, md *domain.Location, exchangeID, instrumentID string) error {
	if err := d.checkSession(); err != nil {
		return err
	}
	if md == nil {
		return fmt.Errorf("%w: no market data source", ErrAccountInfo)
	}
	if err := d.engine.RequestMarketData(ctx, md, exchangeID, instrumentID); err != nil {
		return fmt.Errorf("subscribing %s.%s: %w", instrumentID, exchangeID, err)
	}
	d.logger.Info("market data requested",
		"source", md.ID(),
		"exchange", exchangeID,
		"instrument", instrumentID)
	return nil
}
