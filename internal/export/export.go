// Package export writes merged trading datasets to parquet files, one file
// per trading-data type per day.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/resolve"
)

// OrderRow is the parquet schema for exported orders.
type OrderRow struct {
	UIDKey       string  `parquet:"uid_key"`
	OrderID      int64   `parquet:"order_id"`
	TradingDay   string  `parquet:"trading_day"`
	InsertTime   int64   `parquet:"insert_time,timestamp(nanosecond)"`
	UpdateTime   int64   `parquet:"update_time,timestamp(nanosecond)"`
	InstrumentID string  `parquet:"instrument_id"`
	ExchangeID   string  `parquet:"exchange_id"`
	LimitPrice   float64 `parquet:"limit_price"`
	Volume       int64   `parquet:"volume"`
	VolumeLeft   int64   `parquet:"volume_left"`
	Side         string  `parquet:"side"`
	Offset       string  `parquet:"offset"`
	PriceType    string  `parquet:"price_type"`
	Status       string  `parquet:"status"`
	Account      string  `parquet:"account"`
	Client       string  `parquet:"client"`
}

// TradeRow is the parquet schema for exported trades.
type TradeRow struct {
	UIDKey       string  `parquet:"uid_key"`
	TradeID      int64   `parquet:"trade_id"`
	OrderID      int64   `parquet:"order_id"`
	TradeTime    int64   `parquet:"trade_time,timestamp(nanosecond)"`
	TradingDay   string  `parquet:"trading_day"`
	InstrumentID string  `parquet:"instrument_id"`
	ExchangeID   string  `parquet:"exchange_id"`
	Side         string  `parquet:"side"`
	Offset       string  `parquet:"offset"`
	Price        float64 `parquet:"price"`
	Volume       int64   `parquet:"volume"`
	Account      string  `parquet:"account"`
	Client       string  `parquet:"client"`
}

// PositionRow is the parquet schema for exported positions.
type PositionRow struct {
	UIDKey        string  `parquet:"uid_key"`
	UpdateTime    int64   `parquet:"update_time,timestamp(nanosecond)"`
	TradingDay    string  `parquet:"trading_day"`
	InstrumentID  string  `parquet:"instrument_id"`
	ExchangeID    string  `parquet:"exchange_id"`
	Direction     string  `parquet:"direction"`
	Volume        int64   `parquet:"volume"`
	AvgOpenPrice  float64 `parquet:"avg_open_price"`
	LastPrice     float64 `parquet:"last_price"`
	UnrealizedPnL float64 `parquet:"unrealized_pnl"`
	Account       string  `parquet:"account"`
}

// AssetRow is the parquet schema for exported assets.
type AssetRow struct {
	UIDKey        string  `parquet:"uid_key"`
	UpdateTime    int64   `parquet:"update_time,timestamp(nanosecond)"`
	TradingDay    string  `parquet:"trading_day"`
	Avail         float64 `parquet:"avail"`
	Margin        float64 `parquet:"margin"`
	MarketValue   float64 `parquet:"market_value"`
	UnrealizedPnL float64 `parquet:"unrealized_pnl"`
	Holder        string  `parquet:"holder"`
}

// Exporter writes merged datasets under a base directory, laid out as
// <dir>/<date>/<type>.parquet.
type Exporter struct {
	engine engine.Engine
	dir    string
}

// NewExporter creates an Exporter rooted at dir. The engine resolves coded
// fields and identities into the exported text columns.
func NewExporter(e engine.Engine, dir string) *Exporter {
	return &Exporter{engine: e, dir: dir}
}

// WriteDay exports the dataset under the given date key ("2006-01-02").
// Empty datasets still produce files so a day's export is self-describing.
func (x *Exporter) WriteDay(date string, data *domain.TradingData) error {
	dayDir := filepath.Join(x.dir, date)
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	orders := make([]OrderRow, 0, len(data.Orders))
	for _, o := range data.Orders {
		orders = append(orders, x.orderRow(o))
	}
	if err := parquet.WriteFile(filepath.Join(dayDir, "orders.parquet"), orders); err != nil {
		return fmt.Errorf("writing orders: %w", err)
	}

	trades := make([]TradeRow, 0, len(data.Trades))
	for _, t := range data.Trades {
		trades = append(trades, x.tradeRow(t))
	}
	if err := parquet.WriteFile(filepath.Join(dayDir, "trades.parquet"), trades); err != nil {
		return fmt.Errorf("writing trades: %w", err)
	}

	positions := make([]PositionRow, 0, len(data.Positions))
	for _, p := range data.Positions {
		positions = append(positions, x.positionRow(p))
	}
	if err := parquet.WriteFile(filepath.Join(dayDir, "positions.parquet"), positions); err != nil {
		return fmt.Errorf("writing positions: %w", err)
	}

	assets := make([]AssetRow, 0, len(data.Assets))
	for _, a := range data.Assets {
		assets = append(assets, x.assetRow(a))
	}
	if err := parquet.WriteFile(filepath.Join(dayDir, "assets.parquet"), assets); err != nil {
		return fmt.Errorf("writing assets: %w", err)
	}

	return nil
}

// ReadOrders reads back an exported orders file. Used by tooling and tests.
func ReadOrders(dir, date string) ([]OrderRow, error) {
	return parquet.ReadFile[OrderRow](filepath.Join(dir, date, "orders.parquet"))
}

// ReadTrades reads back an exported trades file.
func ReadTrades(dir, date string) ([]TradeRow, error) {
	return parquet.ReadFile[TradeRow](filepath.Join(dir, date, "trades.parquet"))
}

func (x *Exporter) orderRow(o *domain.Order) OrderRow {
	account := resolve.AccountName(x.engine, o.Source, o.Dest)
	client := resolve.ClientName(x.engine, o.Dest)
	return OrderRow{
		UIDKey:       o.UIDKey,
		OrderID:      int64(o.OrderID),
		TradingDay:   o.TradingDay,
		InsertTime:   o.InsertTime,
		UpdateTime:   o.UpdateTime,
		InstrumentID: o.InstrumentID,
		ExchangeID:   o.ExchangeID,
		LimitPrice:   o.LimitPrice,
		Volume:       o.Volume,
		VolumeLeft:   o.VolumeLeft,
		Side:         resolve.SideData(o.Side).Name,
		Offset:       resolve.OffsetData(o.Offset).Name,
		PriceType:    resolve.PriceTypeData(o.PriceType).Name,
		Status:       resolve.OrderStatusData(o.Status, o.ErrorMsg).Name,
		Account:      account.Name,
		Client:       client.Name,
	}
}

func (x *Exporter) tradeRow(t *domain.Trade) TradeRow {
	account := resolve.AccountName(x.engine, t.Source, t.Dest)
	client := resolve.ClientName(x.engine, t.Dest)
	return TradeRow{
		UIDKey:       t.UIDKey,
		TradeID:      int64(t.TradeID),
		OrderID:      int64(t.OrderID),
		TradeTime:    t.TradeTime,
		TradingDay:   t.TradingDay,
		InstrumentID: t.InstrumentID,
		ExchangeID:   t.ExchangeID,
		Side:         resolve.SideData(t.Side).Name,
		Offset:       resolve.OffsetData(t.Offset).Name,
		Price:        t.Price,
		Volume:       t.Volume,
		Account:      account.Name,
		Client:       client.Name,
	}
}

func (x *Exporter) positionRow(p *domain.Position) PositionRow {
	r := resolve.Position(x.engine, p)
	return PositionRow{
		UIDKey:        p.UIDKey,
		UpdateTime:    p.UpdateTime,
		TradingDay:    p.TradingDay,
		InstrumentID:  p.InstrumentID,
		ExchangeID:    p.ExchangeID,
		Direction:     r.DirectionUName,
		Volume:        p.Volume,
		AvgOpenPrice:  p.AvgOpenPrice,
		LastPrice:     p.LastPrice,
		UnrealizedPnL: p.UnrealizedPnL,
		Account:       r.AccountIDResolved,
	}
}

func (x *Exporter) assetRow(a *domain.Asset) AssetRow {
	return AssetRow{
		UIDKey:        a.UIDKey,
		UpdateTime:    a.UpdateTime,
		TradingDay:    a.TradingDay,
		Avail:         a.Avail,
		Margin:        a.Margin,
		MarketValue:   a.MarketValue,
		UnrealizedPnL: a.UnrealizedPnL,
		Holder:        resolve.HolderName(x.engine, a.HolderUID),
	}
}
