package domain

// Coded enum fields as they arrive from the native engine. The numeric
// values match the engine's wire schema and must not be reordered.

// Side is the buy/sell side of an order or trade.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
	SideLock
	SideUnlock
	SideExec
	SideDrop
	SidePurchase
	SideRedemption
	SideSplit
	SideMerge
	SideMarginTrade
	SideShortSell
	SideRepayMargin
	SideRepayStock
)

// Offset indicates whether an order opens or closes a position.
type Offset uint8

const (
	OffsetOpen Offset = iota
	OffsetClose
	OffsetCloseToday
	OffsetCloseYesterday
)

// Direction is the long/short direction of a position.
type Direction uint8

const (
	DirectionLong Direction = iota
	DirectionShort
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus uint8

const (
	OrderStatusUnknown OrderStatus = iota
	OrderStatusSubmitted
	OrderStatusPending
	OrderStatusCancelled
	OrderStatusError
	OrderStatusFilled
	OrderStatusPartialFilledNotActive
	OrderStatusPartialFilledActive
	OrderStatusLost
)

// Final reports whether the status is terminal: no further engine
// transitions will occur for the order.
func (s OrderStatus) Final() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusError, OrderStatusFilled,
		OrderStatusPartialFilledNotActive, OrderStatusLost:
		return true
	}
	return false
}

// PriceType is the pricing instruction of an order.
type PriceType uint8

const (
	PriceTypeLimit PriceType = iota
	PriceTypeMarket
	PriceTypeFakBest5
	PriceTypeForwardBest
	PriceTypeReverseBest
	PriceTypeFak
	PriceTypeFok
)

// InstrumentType classifies the traded instrument.
type InstrumentType uint8

const (
	InstrumentTypeUnknown InstrumentType = iota
	InstrumentTypeStock
	InstrumentTypeFuture
	InstrumentTypeBond
	InstrumentTypeStockOption
	InstrumentTypeFund
	InstrumentTypeTechStock
	InstrumentTypeIndex
	InstrumentTypeRepo
	InstrumentTypeCrypto
)

// HedgeFlag marks the hedging intent of an order.
type HedgeFlag uint8

const (
	HedgeFlagSpeculation HedgeFlag = iota
	HedgeFlagArbitrage
	HedgeFlagHedge
	HedgeFlagCovered
)

// VolumeCondition constrains the fill volume of an order.
type VolumeCondition uint8

const (
	VolumeConditionAny VolumeCondition = iota
	VolumeConditionMin
	VolumeConditionAll
)

// TimeCondition constrains the lifetime of an order.
type TimeCondition uint8

const (
	TimeConditionIOC TimeCondition = iota
	TimeConditionGFD
	TimeConditionGTC
)

// LedgerCategory tells whether a position/asset row is held by a trading
// account or attributed to a strategy.
type LedgerCategory uint8

const (
	LedgerCategoryAccount LedgerCategory = iota
	LedgerCategoryStrategy
)

// HistoryDateType selects how a history query date is interpreted.
type HistoryDateType uint8

const (
	// HistoryNaturalDate selects the single calendar-day window.
	HistoryNaturalDate HistoryDateType = iota
	// HistoryTradingDate selects records belonging to a trading day, which
	// may span up to three calendar-day windows (weekend rollover).
	HistoryTradingDate
)
