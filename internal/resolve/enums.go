// Package resolve turns raw engine records into display-ready resolved
// records: coded enum fields become {name, color} descriptors, location ids
// become human-readable identities, and nanosecond timestamps become fixed
// display strings. Every function here is pure and safe for concurrent use;
// unknown codes and ids degrade to placeholders, never to errors.
package resolve

import (
	"fmt"

	"tradeterm/internal/domain"
)

// Placeholder is the display value for anything that cannot be resolved.
const Placeholder = "--"

// CommonData is a display descriptor for a coded value.
type CommonData struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var unknownData = CommonData{Name: Placeholder, Color: "default"}

var sideData = map[domain.Side]CommonData{
	domain.SideBuy:         {Name: "Buy", Color: "red"},
	domain.SideSell:        {Name: "Sell", Color: "green"},
	domain.SideLock:        {Name: "Lock", Color: "default"},
	domain.SideUnlock:      {Name: "Unlock", Color: "default"},
	domain.SideExec:        {Name: "Exec", Color: "blue"},
	domain.SideDrop:        {Name: "Drop", Color: "default"},
	domain.SidePurchase:    {Name: "Purchase", Color: "red"},
	domain.SideRedemption:  {Name: "Redemption", Color: "green"},
	domain.SideSplit:       {Name: "Split", Color: "default"},
	domain.SideMerge:       {Name: "Merge", Color: "default"},
	domain.SideMarginTrade: {Name: "MarginTrade", Color: "red"},
	domain.SideShortSell:   {Name: "ShortSell", Color: "green"},
	domain.SideRepayMargin: {Name: "RepayMargin", Color: "green"},
	domain.SideRepayStock:  {Name: "RepayStock", Color: "red"},
}

// SideData resolves a side code.
func SideData(s domain.Side) CommonData {
	if d, ok := sideData[s]; ok {
		return d
	}
	return unknownData
}

var offsetData = map[domain.Offset]CommonData{
	domain.OffsetOpen:           {Name: "Open", Color: "red"},
	domain.OffsetClose:          {Name: "Close", Color: "green"},
	domain.OffsetCloseToday:     {Name: "CloseToday", Color: "green"},
	domain.OffsetCloseYesterday: {Name: "CloseYesterday", Color: "green"},
}

// OffsetData resolves an open/close offset code.
func OffsetData(o domain.Offset) CommonData {
	if d, ok := offsetData[o]; ok {
		return d
	}
	return unknownData
}

var directionData = map[domain.Direction]CommonData{
	domain.DirectionLong:  {Name: "Long", Color: "red"},
	domain.DirectionShort: {Name: "Short", Color: "green"},
}

// DirectionData resolves a position direction code.
func DirectionData(d domain.Direction) CommonData {
	if v, ok := directionData[d]; ok {
		return v
	}
	return unknownData
}

var orderStatusData = map[domain.OrderStatus]CommonData{
	domain.OrderStatusUnknown:                {Name: "Unknown", Color: "default"},
	domain.OrderStatusSubmitted:              {Name: "Submitted", Color: "default"},
	domain.OrderStatusPending:                {Name: "Pending", Color: "default"},
	domain.OrderStatusCancelled:              {Name: "Cancelled", Color: "default"},
	domain.OrderStatusError:                  {Name: "Error", Color: "red"},
	domain.OrderStatusFilled:                 {Name: "Filled", Color: "green"},
	domain.OrderStatusPartialFilledNotActive: {Name: "PartialFilled", Color: "green"},
	domain.OrderStatusPartialFilledActive:    {Name: "PartialFilledActive", Color: "default"},
	domain.OrderStatusLost:                   {Name: "Lost", Color: "default"},
}

// OrderStatusData resolves an order status code. When the status is an
// error and the record carries an error message, the message is folded into
// the name so the operator sees the rejection reason directly.
func OrderStatusData(s domain.OrderStatus, errorMsg string) CommonData {
	d, ok := orderStatusData[s]
	if !ok {
		return unknownData
	}
	if s == domain.OrderStatusError && errorMsg != "" {
		d.Name = fmt.Sprintf("%s %s", d.Name, errorMsg)
	}
	return d
}

var priceTypeData = map[domain.PriceType]CommonData{
	domain.PriceTypeLimit:       {Name: "Limit", Color: "default"},
	domain.PriceTypeMarket:      {Name: "Market", Color: "default"},
	domain.PriceTypeFakBest5:    {Name: "FakBest5", Color: "default"},
	domain.PriceTypeForwardBest: {Name: "ForwardBest", Color: "default"},
	domain.PriceTypeReverseBest: {Name: "ReverseBest", Color: "default"},
	domain.PriceTypeFak:         {Name: "Fak", Color: "default"},
	domain.PriceTypeFok:         {Name: "Fok", Color: "default"},
}

// PriceTypeData resolves a price type code.
func PriceTypeData(p domain.PriceType) CommonData {
	if d, ok := priceTypeData[p]; ok {
		return d
	}
	return unknownData
}

var instrumentTypeData = map[domain.InstrumentType]CommonData{
	domain.InstrumentTypeUnknown:     {Name: "Unknown", Color: "default"},
	domain.InstrumentTypeStock:       {Name: "Stock", Color: "orange"},
	domain.InstrumentTypeFuture:      {Name: "Future", Color: "red"},
	domain.InstrumentTypeBond:        {Name: "Bond", Color: "pink"},
	domain.InstrumentTypeStockOption: {Name: "StockOption", Color: "blue"},
	domain.InstrumentTypeFund:        {Name: "Fund", Color: "purple"},
	domain.InstrumentTypeTechStock:   {Name: "TechStock", Color: "blue"},
	domain.InstrumentTypeIndex:       {Name: "Index", Color: "purple"},
	domain.InstrumentTypeRepo:        {Name: "Repo", Color: "red"},
	domain.InstrumentTypeCrypto:      {Name: "Crypto", Color: "blue"},
}

// InstrumentTypeData resolves an instrument type code.
func InstrumentTypeData(t domain.InstrumentType) CommonData {
	if d, ok := instrumentTypeData[t]; ok {
		return d
	}
	return unknownData
}

var hedgeFlagData = map[domain.HedgeFlag]CommonData{
	domain.HedgeFlagSpeculation: {Name: "Speculation", Color: "default"},
	domain.HedgeFlagArbitrage:   {Name: "Arbitrage", Color: "default"},
	domain.HedgeFlagHedge:       {Name: "Hedge", Color: "default"},
	domain.HedgeFlagCovered:     {Name: "Covered", Color: "default"},
}

// HedgeFlagData resolves a hedge flag code.
func HedgeFlagData(h domain.HedgeFlag) CommonData {
	if d, ok := hedgeFlagData[h]; ok {
		return d
	}
	return unknownData
}

// SwapData resolves the is_swap flag.
func SwapData(isSwap bool) CommonData {
	if isSwap {
		return CommonData{Name: "Swap", Color: "default"}
	}
	return CommonData{Name: "", Color: "default"}
}

var volumeConditionData = map[domain.VolumeCondition]CommonData{
	domain.VolumeConditionAny: {Name: "Any", Color: "default"},
	domain.VolumeConditionMin: {Name: "Min", Color: "default"},
	domain.VolumeConditionAll: {Name: "All", Color: "default"},
}

// VolumeConditionData resolves a volume condition code.
func VolumeConditionData(v domain.VolumeCondition) CommonData {
	if d, ok := volumeConditionData[v]; ok {
		return d
	}
	return unknownData
}

var timeConditionData = map[domain.TimeCondition]CommonData{
	domain.TimeConditionIOC: {Name: "IOC", Color: "default"},
	domain.TimeConditionGFD: {Name: "GFD", Color: "default"},
	domain.TimeConditionGTC: {Name: "GTC", Color: "default"},
}

// TimeConditionData resolves a time condition code.
func TimeConditionData(t domain.TimeCondition) CommonData {
	if d, ok := timeConditionData[t]; ok {
		return d
	}
	return unknownData
}

var categoryData = map[domain.LocationCategory]CommonData{
	domain.CategoryMD:       {Name: "Md", Color: "orange"},
	domain.CategoryTD:       {Name: "Td", Color: "cyan"},
	domain.CategoryStrategy: {Name: "Strategy", Color: "blue"},
	domain.CategorySystem:   {Name: "System", Color: "purple"},
}

// CategoryData resolves a location category.
func CategoryData(c domain.LocationCategory) CommonData {
	if d, ok := categoryData[c]; ok {
		return d
	}
	return unknownData
}
