// Package domain defines the raw record types and coded enums exchanged
// with the native trading engine, plus the location model used to identify
// trading desks, market-data sources, strategies, and system services.
package domain

import "fmt"

// LocationCategory classifies a Location.
type LocationCategory string

const (
	CategoryMD       LocationCategory = "md"
	CategoryTD       LocationCategory = "td"
	CategoryStrategy LocationCategory = "strategy"
	CategorySystem   LocationCategory = "system"
)

// Location identifies a logical participant known to the engine. Locations
// are created from configuration and never mutated; this layer only looks
// them up.
type Location struct {
	UID      uint32           `json:"location_uid"`
	Category LocationCategory `json:"category"`
	Group    string           `json:"group"`
	Name     string           `json:"name"`
	Mode     string           `json:"mode"`
}

// ID returns the short identifier "<group>_<name>", e.g. the account id of
// a trading desk.
func (l *Location) ID() string {
	return fmt.Sprintf("%s_%s", l.Group, l.Name)
}

// ProcessID returns the process identifier "<category>_<group>_<name>"
// under which the location's daemon runs.
func (l *Location) ProcessID() string {
	return fmt.Sprintf("%s_%s_%s", l.Category, l.Group, l.Name)
}

// Order is an order record as maintained by the engine. Timestamps are
// nanoseconds since the Unix epoch. UIDKey is the stable display join key;
// it is read by this layer, never written.
type Order struct {
	OrderID    uint64 `json:"order_id,string"`
	ParentID   uint64 `json:"parent_id,string"`
	InsertTime int64  `json:"insert_time"`
	UpdateTime int64  `json:"update_time"`
	TradingDay string `json:"trading_day"`

	InstrumentID   string         `json:"instrument_id"`
	ExchangeID     string         `json:"exchange_id"`
	InstrumentType InstrumentType `json:"instrument_type"`

	LimitPrice  float64 `json:"limit_price"`
	FrozenPrice float64 `json:"frozen_price"`
	Volume      int64   `json:"volume"`
	VolumeLeft  int64   `json:"volume_left"`

	Status   OrderStatus `json:"status"`
	ErrorID  int32       `json:"error_id"`
	ErrorMsg string      `json:"error_msg"`

	Side            Side            `json:"side"`
	Offset          Offset          `json:"offset"`
	HedgeFlag       HedgeFlag       `json:"hedge_flag"`
	PriceType       PriceType       `json:"price_type"`
	VolumeCondition VolumeCondition `json:"volume_condition"`
	TimeCondition   TimeCondition   `json:"time_condition"`
	IsSwap          bool            `json:"is_swap"`

	Source uint32 `json:"source"`
	Dest   uint32 `json:"dest"`
	UIDKey string `json:"uid_key"`
}

// Trade is an execution record. Created once by the engine on a fill,
// immutable afterwards.
type Trade struct {
	TradeID   uint64 `json:"trade_id,string"`
	OrderID   uint64 `json:"order_id,string"`
	TradeTime int64  `json:"trade_time"`

	TradingDay     string         `json:"trading_day"`
	InstrumentID   string         `json:"instrument_id"`
	ExchangeID     string         `json:"exchange_id"`
	InstrumentType InstrumentType `json:"instrument_type"`

	Side      Side      `json:"side"`
	Offset    Offset    `json:"offset"`
	HedgeFlag HedgeFlag `json:"hedge_flag"`

	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`

	Source uint32 `json:"source"`
	Dest   uint32 `json:"dest"`
	UIDKey string `json:"uid_key"`
}

// Position is a per-account holding snapshot, replaced wholesale by the
// engine. This layer only annotates it for display.
type Position struct {
	UpdateTime int64  `json:"update_time"`
	TradingDay string `json:"trading_day"`

	InstrumentID   string         `json:"instrument_id"`
	ExchangeID     string         `json:"exchange_id"`
	InstrumentType InstrumentType `json:"instrument_type"`

	Direction       Direction `json:"direction"`
	Volume          int64     `json:"volume"`
	YesterdayVolume int64     `json:"yesterday_volume"`
	AvgOpenPrice    float64   `json:"avg_open_price"`
	LastPrice       float64   `json:"last_price"`
	UnrealizedPnL   float64   `json:"unrealized_pnl"`

	LedgerCategory LedgerCategory `json:"ledger_category"`
	HolderUID      uint32         `json:"holder_uid"`
	UIDKey         string         `json:"uid_key"`
}

// Asset is a per-account balance snapshot.
type Asset struct {
	UpdateTime int64  `json:"update_time"`
	TradingDay string `json:"trading_day"`

	Avail         float64 `json:"avail"`
	Margin        float64 `json:"margin"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`

	LedgerCategory LedgerCategory `json:"ledger_category"`
	HolderUID      uint32         `json:"holder_uid"`
	UIDKey         string         `json:"uid_key"`
}

// OrderStat is the latency side-record for an order, sharing its UIDKey.
// Read-only for this layer.
type OrderStat struct {
	OrderID    uint64 `json:"order_id,string"`
	MDTime     int64  `json:"md_time"`
	InputTime  int64  `json:"input_time"`
	InsertTime int64  `json:"insert_time"`
	AckTime    int64  `json:"ack_time"`
	TradeTime  int64  `json:"trade_time"`
	UIDKey     string `json:"uid_key"`
}

// OrderInput is the engine-bound order request record.
type OrderInput struct {
	OrderID    uint64 `json:"order_id,string"`
	ParentID   uint64 `json:"parent_id,string"`
	BlockID    uint64 `json:"block_id,string"`
	InsertTime int64  `json:"insert_time"`
	TradingDay string `json:"trading_day"`

	InstrumentID   string         `json:"instrument_id"`
	ExchangeID     string         `json:"exchange_id"`
	InstrumentType InstrumentType `json:"instrument_type"`

	LimitPrice  float64 `json:"limit_price"`
	FrozenPrice float64 `json:"frozen_price"`
	Volume      int64   `json:"volume"`

	Side            Side            `json:"side"`
	Offset          Offset          `json:"offset"`
	HedgeFlag       HedgeFlag       `json:"hedge_flag"`
	PriceType       PriceType       `json:"price_type"`
	VolumeCondition VolumeCondition `json:"volume_condition"`
	TimeCondition   TimeCondition   `json:"time_condition"`
	IsSwap          bool            `json:"is_swap"`

	Source uint32 `json:"source"`
	Dest   uint32 `json:"dest"`
	UIDKey string `json:"uid_key"`
}

// OrderAction is a cancellation request for an existing order.
type OrderAction struct {
	OrderActionID uint64 `json:"order_action_id,string"`
	OrderID       uint64 `json:"order_id,string"`
	InsertTime    int64  `json:"insert_time"`
}

// BlockMessage is the negotiation envelope submitted before a block-trade
// order may be constructed. Transient: it exists only for the duration of
// the negotiation call.
type BlockMessage struct {
	BlockID      uint64 `json:"block_id,string"`
	OpponentSeat int32  `json:"opponent_seat"`
	MatchNumber  uint64 `json:"match_number,string"`
	InsertTime   int64  `json:"insert_time"`
}

// MakeOrderInput is the user-supplied order intent. It is combined with the
// schema-default OrderInput and the current engine time by the dispatcher;
// it is never persisted directly.
type MakeOrderInput struct {
	InstrumentID   string         `json:"instrument_id"`
	ExchangeID     string         `json:"exchange_id"`
	InstrumentType InstrumentType `json:"instrument_type"`
	LimitPrice     float64        `json:"limit_price"`
	Volume         int64          `json:"volume"`
	Side           Side           `json:"side"`
	Offset         Offset         `json:"offset"`
	HedgeFlag      HedgeFlag      `json:"hedge_flag"`
	PriceType      PriceType      `json:"price_type"`
	IsSwap         bool           `json:"is_swap"`
}

// NewOrderInput returns the schema-default OrderInput record, mirroring the
// engine's default constructor for the type.
func NewOrderInput() *OrderInput {
	return &OrderInput{
		PriceType:       PriceTypeLimit,
		VolumeCondition: VolumeConditionAny,
		TimeCondition:   TimeConditionGFD,
		HedgeFlag:       HedgeFlagSpeculation,
	}
}

// NewOrderAction returns the schema-default OrderAction record.
func NewOrderAction() *OrderAction {
	return &OrderAction{}
}

// OrderUIDKey derives the stable display key for an order id: the 16-digit
// zero-padded hex form used by the engine for uid_key fields.
func OrderUIDKey(orderID uint64) string {
	return fmt.Sprintf("%016x", orderID)
}

// TradingData bundles one dataset per trading-data type, keyed by UIDKey.
// It is the unit returned by historical selection and merging.
type TradingData struct {
	Orders      map[string]*Order
	Trades      map[string]*Trade
	Positions   map[string]*Position
	Assets      map[string]*Asset
	OrderStats  map[string]*OrderStat
	OrderInputs map[string]*OrderInput
}

// NewTradingData returns an empty TradingData with all maps allocated.
func NewTradingData() *TradingData {
	return &TradingData{
		Orders:      make(map[string]*Order),
		Trades:      make(map[string]*Trade),
		Positions:   make(map[string]*Position),
		Assets:      make(map[string]*Asset),
		OrderStats:  make(map[string]*OrderStat),
		OrderInputs: make(map[string]*OrderInput),
	}
}
