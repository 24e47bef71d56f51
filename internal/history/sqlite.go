package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradeterm/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ Store = (*SQLiteStore)(nil)
var _ Writer = (*SQLiteStore)(nil)

// SQLiteStore implements Store and Writer backed by a SQLite database. One
// row per record per trading day; event times are nanosecond epochs.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	uid_key          TEXT NOT NULL,
	trading_day      TEXT NOT NULL,
	order_id         INTEGER NOT NULL,
	parent_id        INTEGER NOT NULL DEFAULT 0,
	insert_time      INTEGER NOT NULL,
	update_time      INTEGER NOT NULL,
	instrument_id    TEXT NOT NULL,
	exchange_id      TEXT NOT NULL,
	instrument_type  INTEGER NOT NULL,
	limit_price      REAL NOT NULL,
	frozen_price     REAL NOT NULL,
	volume           INTEGER NOT NULL,
	volume_left      INTEGER NOT NULL,
	status           INTEGER NOT NULL,
	error_id         INTEGER NOT NULL DEFAULT 0,
	error_msg        TEXT NOT NULL DEFAULT '',
	side             INTEGER NOT NULL,
	"offset"         INTEGER NOT NULL,
	hedge_flag       INTEGER NOT NULL,
	price_type       INTEGER NOT NULL,
	volume_condition INTEGER NOT NULL,
	time_condition   INTEGER NOT NULL,
	is_swap          INTEGER NOT NULL DEFAULT 0,
	source           INTEGER NOT NULL,
	dest             INTEGER NOT NULL,
	PRIMARY KEY (uid_key, trading_day)
);
CREATE INDEX IF NOT EXISTS idx_orders_insert_time ON orders (insert_time);

CREATE TABLE IF NOT EXISTS trades (
	uid_key         TEXT NOT NULL,
	trading_day     TEXT NOT NULL,
	trade_id        INTEGER NOT NULL,
	order_id        INTEGER NOT NULL,
	trade_time      INTEGER NOT NULL,
	instrument_id   TEXT NOT NULL,
	exchange_id     TEXT NOT NULL,
	instrument_type INTEGER NOT NULL,
	side            INTEGER NOT NULL,
	"offset"        INTEGER NOT NULL,
	hedge_flag      INTEGER NOT NULL,
	price           REAL NOT NULL,
	volume          INTEGER NOT NULL,
	source          INTEGER NOT NULL,
	dest            INTEGER NOT NULL,
	PRIMARY KEY (uid_key, trading_day)
);
CREATE INDEX IF NOT EXISTS idx_trades_trade_time ON trades (trade_time);

CREATE TABLE IF NOT EXISTS positions (
	uid_key          TEXT NOT NULL,
	trading_day      TEXT NOT NULL,
	update_time      INTEGER NOT NULL,
	instrument_id    TEXT NOT NULL,
	exchange_id      TEXT NOT NULL,
	instrument_type  INTEGER NOT NULL,
	direction        INTEGER NOT NULL,
	volume           INTEGER NOT NULL,
	yesterday_volume INTEGER NOT NULL,
	avg_open_price   REAL NOT NULL,
	last_price       REAL NOT NULL,
	unrealized_pnl   REAL NOT NULL,
	ledger_category  INTEGER NOT NULL,
	holder_uid       INTEGER NOT NULL,
	PRIMARY KEY (uid_key, trading_day)
);
CREATE INDEX IF NOT EXISTS idx_positions_update_time ON positions (update_time);

CREATE TABLE IF NOT EXISTS assets (
	uid_key         TEXT NOT NULL,
	trading_day     TEXT NOT NULL,
	update_time     INTEGER NOT NULL,
	avail           REAL NOT NULL,
	margin          REAL NOT NULL,
	market_value    REAL NOT NULL,
	unrealized_pnl  REAL NOT NULL,
	ledger_category INTEGER NOT NULL,
	holder_uid      INTEGER NOT NULL,
	PRIMARY KEY (uid_key, trading_day)
);
CREATE INDEX IF NOT EXISTS idx_assets_update_time ON assets (update_time);

CREATE TABLE IF NOT EXISTS order_stats (
	uid_key     TEXT NOT NULL,
	order_id    INTEGER NOT NULL,
	md_time     INTEGER NOT NULL DEFAULT 0,
	input_time  INTEGER NOT NULL DEFAULT 0,
	insert_time INTEGER NOT NULL DEFAULT 0,
	ack_time    INTEGER NOT NULL DEFAULT 0,
	trade_time  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (uid_key)
);
CREATE INDEX IF NOT EXISTS idx_order_stats_insert_time ON order_stats (insert_time);

CREATE TABLE IF NOT EXISTS order_inputs (
	uid_key          TEXT NOT NULL,
	trading_day      TEXT NOT NULL,
	order_id         INTEGER NOT NULL,
	parent_id        INTEGER NOT NULL DEFAULT 0,
	block_id         INTEGER NOT NULL DEFAULT 0,
	insert_time      INTEGER NOT NULL,
	instrument_id    TEXT NOT NULL,
	exchange_id      TEXT NOT NULL,
	instrument_type  INTEGER NOT NULL,
	limit_price      REAL NOT NULL,
	frozen_price     REAL NOT NULL,
	volume           INTEGER NOT NULL,
	side             INTEGER NOT NULL,
	"offset"         INTEGER NOT NULL,
	hedge_flag       INTEGER NOT NULL,
	price_type       INTEGER NOT NULL,
	volume_condition INTEGER NOT NULL,
	time_condition   INTEGER NOT NULL,
	is_swap          INTEGER NOT NULL DEFAULT 0,
	source           INTEGER NOT NULL,
	dest             INTEGER NOT NULL,
	PRIMARY KEY (uid_key, trading_day)
);
CREATE INDEX IF NOT EXISTS idx_order_inputs_insert_time ON order_inputs (insert_time);
`

// NewSQLiteStore opens (or creates) the history database at dbPath and
// ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Writer implementation
// ---------------------------------------------------------------------------

// SaveOrder upserts an order row, keyed by (uid_key, trading_day).
func (s *SQLiteStore) SaveOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO orders (
			uid_key, trading_day, order_id, parent_id, insert_time, update_time,
			instrument_id, exchange_id, instrument_type, limit_price, frozen_price,
			volume, volume_left, status, error_id, error_msg,
			side, "offset", hedge_flag, price_type, volume_condition, time_condition,
			is_swap, source, dest
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.UIDKey, o.TradingDay, int64(o.OrderID), int64(o.ParentID), o.InsertTime, o.UpdateTime,
		o.InstrumentID, o.ExchangeID, o.InstrumentType, o.LimitPrice, o.FrozenPrice,
		o.Volume, o.VolumeLeft, o.Status, o.ErrorID, o.ErrorMsg,
		o.Side, o.Offset, o.HedgeFlag, o.PriceType, o.VolumeCondition, o.TimeCondition,
		o.IsSwap, o.Source, o.Dest,
	)
	if err != nil {
		return fmt.Errorf("saving order %s: %w", o.UIDKey, err)
	}
	return nil
}

// SaveTrade upserts a trade row.
func (s *SQLiteStore) SaveTrade(ctx context.Context, t *domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (
			uid_key, trading_day, trade_id, order_id, trade_time,
			instrument_id, exchange_id, instrument_type,
			side, "offset", hedge_flag, price, volume, source, dest
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.UIDKey, t.TradingDay, int64(t.TradeID), int64(t.OrderID), t.TradeTime,
		t.InstrumentID, t.ExchangeID, t.InstrumentType,
		t.Side, t.Offset, t.HedgeFlag, t.Price, t.Volume, t.Source, t.Dest,
	)
	if err != nil {
		return fmt.Errorf("saving trade %s: %w", t.UIDKey, err)
	}
	return nil
}

// SavePosition upserts a position snapshot row.
func (s *SQLiteStore) SavePosition(ctx context.Context, p *domain.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO positions (
			uid_key, trading_day, update_time, instrument_id, exchange_id,
			instrument_type, direction, volume, yesterday_volume,
			avg_open_price, last_price, unrealized_pnl, ledger_category, holder_uid
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.UIDKey, p.TradingDay, p.UpdateTime, p.InstrumentID, p.ExchangeID,
		p.InstrumentType, p.Direction, p.Volume, p.YesterdayVolume,
		p.AvgOpenPrice, p.LastPrice, p.UnrealizedPnL, p.LedgerCategory, p.HolderUID,
	)
	if err != nil {
		return fmt.Errorf("saving position %s: %w", p.UIDKey, err)
	}
	return nil
}

// SaveAsset upserts an asset snapshot row.
func (s *SQLiteStore) SaveAsset(ctx context.Context, a *domain.Asset) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO assets (
			uid_key, trading_day, update_time, avail, margin,
			market_value, unrealized_pnl, ledger_category, holder_uid
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		a.UIDKey, a.TradingDay, a.UpdateTime, a.Avail, a.Margin,
		a.MarketValue, a.UnrealizedPnL, a.LedgerCategory, a.HolderUID,
	)
	if err != nil {
		return fmt.Errorf("saving asset %s: %w", a.UIDKey, err)
	}
	return nil
}

// SaveOrderStat upserts a latency stat row.
func (s *SQLiteStore) SaveOrderStat(ctx context.Context, st *domain.OrderStat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO order_stats (
			uid_key, order_id, md_time, input_time, insert_time, ack_time, trade_time
		) VALUES (?,?,?,?,?,?,?)`,
		st.UIDKey, int64(st.OrderID), st.MDTime, st.InputTime, st.InsertTime, st.AckTime, st.TradeTime,
	)
	if err != nil {
		return fmt.Errorf("saving order stat %s: %w", st.UIDKey, err)
	}
	return nil
}

// SaveOrderInput upserts an order input row.
func (s *SQLiteStore) SaveOrderInput(ctx context.Context, in *domain.OrderInput) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO order_inputs (
			uid_key, trading_day, order_id, parent_id, block_id, insert_time,
			instrument_id, exchange_id, instrument_type, limit_price, frozen_price,
			volume, side, "offset", hedge_flag, price_type, volume_condition,
			time_condition, is_swap, source, dest
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.UIDKey, in.TradingDay, int64(in.OrderID), int64(in.ParentID), int64(in.BlockID), in.InsertTime,
		in.InstrumentID, in.ExchangeID, in.InstrumentType, in.LimitPrice, in.FrozenPrice,
		in.Volume, in.Side, in.Offset, in.HedgeFlag, in.PriceType, in.VolumeCondition,
		in.TimeCondition, in.IsSwap, in.Source, in.Dest,
	)
	if err != nil {
		return fmt.Errorf("saving order input %s: %w", in.UIDKey, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Store implementation
// ---------------------------------------------------------------------------

// SelectPeriod returns every record whose event time falls in [from, to).
// The event time is insert_time for orders and inputs, trade_time for
// trades, and update_time for position and asset snapshots.
func (s *SQLiteStore) SelectPeriod(ctx context.Context, from, to time.Time) (*domain.TradingData, error) {
	lo, hi := from.UnixNano(), to.UnixNano()
	data := domain.NewTradingData()

	if err := s.selectOrders(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	if err := s.selectTrades(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	if err := s.selectPositions(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	if err := s.selectAssets(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	if err := s.selectOrderStats(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	if err := s.selectOrderInputs(ctx, data, lo, hi); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteStore) selectOrders(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, trading_day, order_id, parent_id, insert_time, update_time,
			instrument_id, exchange_id, instrument_type, limit_price, frozen_price,
			volume, volume_left, status, error_id, error_msg,
			side, "offset", hedge_flag, price_type, volume_condition, time_condition,
			is_swap, source, dest
		FROM orders WHERE insert_time >= ? AND insert_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o domain.Order
		var orderID, parentID int64
		if err := rows.Scan(
			&o.UIDKey, &o.TradingDay, &orderID, &parentID, &o.InsertTime, &o.UpdateTime,
			&o.InstrumentID, &o.ExchangeID, &o.InstrumentType, &o.LimitPrice, &o.FrozenPrice,
			&o.Volume, &o.VolumeLeft, &o.Status, &o.ErrorID, &o.ErrorMsg,
			&o.Side, &o.Offset, &o.HedgeFlag, &o.PriceType, &o.VolumeCondition, &o.TimeCondition,
			&o.IsSwap, &o.Source, &o.Dest,
		); err != nil {
			return fmt.Errorf("scanning order: %w", err)
		}
		o.OrderID, o.ParentID = uint64(orderID), uint64(parentID)
		data.Orders[o.UIDKey] = &o
	}
	return rows.Err()
}

func (s *SQLiteStore) selectTrades(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, trading_day, trade_id, order_id, trade_time,
			instrument_id, exchange_id, instrument_type,
			side, "offset", hedge_flag, price, volume, source, dest
		FROM trades WHERE trade_time >= ? AND trade_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting trades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Trade
		var tradeID, orderID int64
		if err := rows.Scan(
			&t.UIDKey, &t.TradingDay, &tradeID, &orderID, &t.TradeTime,
			&t.InstrumentID, &t.ExchangeID, &t.InstrumentType,
			&t.Side, &t.Offset, &t.HedgeFlag, &t.Price, &t.Volume, &t.Source, &t.Dest,
		); err != nil {
			return fmt.Errorf("scanning trade: %w", err)
		}
		t.TradeID, t.OrderID = uint64(tradeID), uint64(orderID)
		data.Trades[t.UIDKey] = &t
	}
	return rows.Err()
}

func (s *SQLiteStore) selectPositions(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, trading_day, update_time, instrument_id, exchange_id,
			instrument_type, direction, volume, yesterday_volume,
			avg_open_price, last_price, unrealized_pnl, ledger_category, holder_uid
		FROM positions WHERE update_time >= ? AND update_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(
			&p.UIDKey, &p.TradingDay, &p.UpdateTime, &p.InstrumentID, &p.ExchangeID,
			&p.InstrumentType, &p.Direction, &p.Volume, &p.YesterdayVolume,
			&p.AvgOpenPrice, &p.LastPrice, &p.UnrealizedPnL, &p.LedgerCategory, &p.HolderUID,
		); err != nil {
			return fmt.Errorf("scanning position: %w", err)
		}
		data.Positions[p.UIDKey] = &p
	}
	return rows.Err()
}

func (s *SQLiteStore) selectAssets(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, trading_day, update_time, avail, margin,
			market_value, unrealized_pnl, ledger_category, holder_uid
		FROM assets WHERE update_time >= ? AND update_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(
			&a.UIDKey, &a.TradingDay, &a.UpdateTime, &a.Avail, &a.Margin,
			&a.MarketValue, &a.UnrealizedPnL, &a.LedgerCategory, &a.HolderUID,
		); err != nil {
			return fmt.Errorf("scanning asset: %w", err)
		}
		data.Assets[a.UIDKey] = &a
	}
	return rows.Err()
}

func (s *SQLiteStore) selectOrderStats(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, order_id, md_time, input_time, insert_time, ack_time, trade_time
		FROM order_stats WHERE insert_time >= ? AND insert_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting order stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.OrderStat
		var orderID int64
		if err := rows.Scan(
			&st.UIDKey, &orderID, &st.MDTime, &st.InputTime, &st.InsertTime, &st.AckTime, &st.TradeTime,
		); err != nil {
			return fmt.Errorf("scanning order stat: %w", err)
		}
		st.OrderID = uint64(orderID)
		data.OrderStats[st.UIDKey] = &st
	}
	return rows.Err()
}

func (s *SQLiteStore) selectOrderInputs(ctx context.Context, data *domain.TradingData, lo, hi int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid_key, trading_day, order_id, parent_id, block_id, insert_time,
			instrument_id, exchange_id, instrument_type, limit_price, frozen_price,
			volume, side, "offset", hedge_flag, price_type, volume_condition,
			time_condition, is_swap, source, dest
		FROM order_inputs WHERE insert_time >= ? AND insert_time < ?`, lo, hi)
	if err != nil {
		return fmt.Errorf("selecting order inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in domain.OrderInput
		var orderID, parentID, blockID int64
		if err := rows.Scan(
			&in.UIDKey, &in.TradingDay, &orderID, &parentID, &blockID, &in.InsertTime,
			&in.InstrumentID, &in.ExchangeID, &in.InstrumentType, &in.LimitPrice, &in.FrozenPrice,
			&in.Volume, &in.Side, &in.Offset, &in.HedgeFlag, &in.PriceType, &in.VolumeCondition,
			&in.TimeCondition, &in.IsSwap, &in.Source, &in.Dest,
		); err != nil {
			return fmt.Errorf("scanning order input: %w", err)
		}
		in.OrderID, in.ParentID, in.BlockID = uint64(orderID), uint64(parentID), uint64(blockID)
		data.OrderInputs[in.UIDKey] = &in
	}
	return rows.Err()
}
