package resolve

import (
	"fmt"
	"time"

	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
)

// Time formats a nanosecond epoch timestamp as HH:MM:SS.mmm, prefixed with
// MM/DD when withDate is set (history views). A zero timestamp renders as
// the placeholder, never as an epoch date.
func Time(nano int64, withDate bool) string {
	if nano == 0 {
		return Placeholder
	}
	t := time.Unix(0, nano)
	if withDate {
		return t.Format("01/02 15:04:05.000")
	}
	return t.Format("15:04:05.000")
}

// LatencyData carries the display latencies derived from an OrderStat.
// Fields for measurements the stat does not cover hold the placeholder.
type LatencyData struct {
	System    string `json:"latency_system"`
	Network   string `json:"latency_network"`
	Trade     string `json:"latency_trade"`
	TradeTime int64  `json:"trade_time"`
}

// Latency computes display latencies from an OrderStat: system is the span
// from market-data receipt to order insertion, network from insertion to
// exchange ack, trade from ack to fill. Each value is milliseconds with two
// decimals, or the placeholder when either endpoint is missing.
func Latency(stat *domain.OrderStat) LatencyData {
	data := LatencyData{System: Placeholder, Network: Placeholder, Trade: Placeholder}
	if stat == nil {
		return data
	}
	data.TradeTime = stat.TradeTime
	if stat.InsertTime > 0 && stat.MDTime > 0 {
		data.System = formatLatency(stat.InsertTime - stat.MDTime)
	}
	if stat.AckTime > 0 && stat.InsertTime > 0 {
		data.Network = formatLatency(stat.AckTime - stat.InsertTime)
	}
	if stat.TradeTime > 0 && stat.AckTime > 0 {
		data.Trade = formatLatency(stat.TradeTime - stat.AckTime)
	}
	return data
}

func formatLatency(nanos int64) string {
	if nanos < 0 {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", float64(nanos)/1e6)
}

// OrderResolved is an order annotated for display.
type OrderResolved struct {
	domain.Order

	SourceResolved     CommonData `json:"source_resolved_data"`
	DestResolved       CommonData `json:"dest_resolved_data"`
	SourceUName        string     `json:"source_uname"`
	DestUName          string     `json:"dest_uname"`
	StatusUName        string     `json:"status_uname"`
	StatusColor        string     `json:"status_color"`
	UpdateTimeResolved string     `json:"update_time_resolved"`
	LatencySystem      string     `json:"latency_system"`
	LatencyNetwork     string     `json:"latency_network"`
}

// TradeResolved is a trade annotated for display.
type TradeResolved struct {
	domain.Trade

	SourceResolved    CommonData `json:"source_resolved_data"`
	DestResolved      CommonData `json:"dest_resolved_data"`
	SourceUName       string     `json:"source_uname"`
	DestUName         string     `json:"dest_uname"`
	TradeTimeResolved string     `json:"trade_time_resolved"`
	StatTimeResolved  string     `json:"stat_time_resolved"`
	LatencyTrade      string     `json:"latency_trade"`
}

// PositionResolved is a position annotated for display.
type PositionResolved struct {
	domain.Position

	AccountIDResolved    string `json:"account_id_resolved"`
	InstrumentIDResolved string `json:"instrument_id_resolved"`
	DirectionUName       string `json:"direction_uname"`
	DirectionColor       string `json:"direction_color"`
}

// AssetResolved is an asset annotated for display.
type AssetResolved struct {
	domain.Asset

	HolderUName string `json:"holder_uname"`
}

// Order resolves one raw order for display. The order's UIDKey joins the
// latency stat; a missing stat degrades to placeholder latencies. The input
// is not mutated and its UIDKey is carried through untouched.
func Order(e engine.Engine, order *domain.Order, stats map[string]*domain.OrderStat, isHistory bool) OrderResolved {
	source := AccountName(e, order.Source, order.Dest)
	dest := ClientName(e, order.Dest)
	latency := Latency(stats[order.UIDKey])
	status := OrderStatusData(order.Status, order.ErrorMsg)

	return OrderResolved{
		Order:              *order,
		SourceResolved:     source,
		DestResolved:       dest,
		SourceUName:        source.Name,
		DestUName:          dest.Name,
		StatusUName:        status.Name,
		StatusColor:        status.Color,
		UpdateTimeResolved: Time(order.UpdateTime, isHistory),
		LatencySystem:      latency.System,
		LatencyNetwork:     latency.Network,
	}
}

// Trade resolves one raw trade for display. The latency stat is joined via
// the key reconstructed from the originating order id, not the trade's own
// UIDKey.
func Trade(e engine.Engine, trade *domain.Trade, stats map[string]*domain.OrderStat, isHistory bool) TradeResolved {
	source := AccountName(e, trade.Source, trade.Dest)
	dest := ClientName(e, trade.Dest)
	latency := Latency(stats[domain.OrderUIDKey(trade.OrderID)])

	return TradeResolved{
		Trade:             *trade,
		SourceResolved:    source,
		DestResolved:      dest,
		SourceUName:       source.Name,
		DestUName:         dest.Name,
		TradeTimeResolved: Time(trade.TradeTime, isHistory),
		StatTimeResolved:  Time(latency.TradeTime, isHistory),
		LatencyTrade:      latency.Trade,
	}
}

// Position resolves one raw position for display. The account label is only
// resolved for desk-held ledger rows; strategy rows show the placeholder.
func Position(e engine.Engine, pos *domain.Position) PositionResolved {
	accountID := Placeholder
	if pos.LedgerCategory == domain.LedgerCategoryAccount {
		accountID = HolderName(e, pos.HolderUID)
	}
	direction := DirectionData(pos.Direction)

	instrument := pos.InstrumentID
	if venue := ExchangeName(pos.ExchangeID); venue != "" {
		instrument = fmt.Sprintf("%s %s", pos.InstrumentID, venue)
	}

	return PositionResolved{
		Position:             *pos,
		AccountIDResolved:    accountID,
		InstrumentIDResolved: instrument,
		DirectionUName:       direction.Name,
		DirectionColor:       direction.Color,
	}
}

// Asset resolves one raw asset snapshot for display.
func Asset(e engine.Engine, asset *domain.Asset) AssetResolved {
	return AssetResolved{
		Asset:       *asset,
		HolderUName: HolderName(e, asset.HolderUID),
	}
}

// Item resolves any trading-data record into a flat field map for export
// and tabular views, decoding every coded field the variant carries.
// Dispatch is on the concrete type, never on runtime field probing.
func Item(e engine.Engine, item any, withDate bool) map[string]any {
	switch v := item.(type) {
	case *domain.Order:
		r := Order(e, v, nil, withDate)
		return map[string]any{
			"uid_key":        v.UIDKey,
			"order_id":       v.OrderID,
			"trading_day":    v.TradingDay,
			"insert_time":    Time(v.InsertTime, withDate),
			"update_time":    r.UpdateTimeResolved,
			"instrument_id":  v.InstrumentID,
			"exchange_id":    v.ExchangeID,
			"side":           SideData(v.Side).Name,
			"offset":         OffsetData(v.Offset).Name,
			"price_type":     PriceTypeData(v.PriceType).Name,
			"hedge_flag":     HedgeFlagData(v.HedgeFlag).Name,
			"limit_price":    v.LimitPrice,
			"volume":         v.Volume,
			"volume_left":    v.VolumeLeft,
			"status":         r.StatusUName,
			"source":         r.SourceUName,
			"dest":           r.DestUName,
		}
	case *domain.Trade:
		r := Trade(e, v, nil, withDate)
		return map[string]any{
			"uid_key":       v.UIDKey,
			"order_id":      v.OrderID,
			"trading_day":   v.TradingDay,
			"trade_time":    r.TradeTimeResolved,
			"instrument_id": v.InstrumentID,
			"exchange_id":   v.ExchangeID,
			"side":          SideData(v.Side).Name,
			"offset":        OffsetData(v.Offset).Name,
			"hedge_flag":    HedgeFlagData(v.HedgeFlag).Name,
			"price":         v.Price,
			"volume":        v.Volume,
			"source":        r.SourceUName,
			"dest":          r.DestUName,
		}
	case *domain.Position:
		r := Position(e, v)
		return map[string]any{
			"uid_key":         v.UIDKey,
			"trading_day":     v.TradingDay,
			"update_time":     Time(v.UpdateTime, withDate),
			"instrument_id":   r.InstrumentIDResolved,
			"instrument_type": InstrumentTypeData(v.InstrumentType).Name,
			"direction":       r.DirectionUName,
			"volume":          v.Volume,
			"avg_open_price":  v.AvgOpenPrice,
			"last_price":      v.LastPrice,
			"unrealized_pnl":  v.UnrealizedPnL,
			"account_id":      r.AccountIDResolved,
		}
	case *domain.Asset:
		r := Asset(e, v)
		return map[string]any{
			"uid_key":        v.UIDKey,
			"trading_day":    v.TradingDay,
			"update_time":    Time(v.UpdateTime, withDate),
			"avail":          v.Avail,
			"margin":         v.Margin,
			"market_value":   v.MarketValue,
			"unrealized_pnl": v.UnrealizedPnL,
			"holder":         r.HolderUName,
		}
	case *domain.OrderInput:
		return map[string]any{
			"uid_key":       v.UIDKey,
			"order_id":      v.OrderID,
			"trading_day":   v.TradingDay,
			"insert_time":   Time(v.InsertTime, withDate),
			"instrument_id": v.InstrumentID,
			"exchange_id":   v.ExchangeID,
			"side":          SideData(v.Side).Name,
			"offset":        OffsetData(v.Offset).Name,
			"price_type":    PriceTypeData(v.PriceType).Name,
			"limit_price":   v.LimitPrice,
			"volume":        v.Volume,
			"block_id":      v.BlockID,
		}
	case *domain.OrderStat:
		latency := Latency(v)
		return map[string]any{
			"uid_key":         v.UIDKey,
			"order_id":        v.OrderID,
			"trade_time":      Time(v.TradeTime, withDate),
			"latency_system":  latency.System,
			"latency_network": latency.Network,
			"latency_trade":   latency.Trade,
		}
	default:
		return nil
	}
}
