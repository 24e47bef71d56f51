package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradeterm/internal/api"
	"tradeterm/internal/config"
	"tradeterm/internal/dispatch"
	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/feed"
	"tradeterm/internal/history"
	"tradeterm/internal/util"
)

func main() {
	// Load config.
	cfgPath := "config/tradeterm.yaml"
	if p := os.Getenv("TRADETERM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Setup logging.
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	// Engine binding. Only the simulator is wired in this build; a native
	// binding registers itself under its own mode name.
	if cfg.Engine.Mode != "simulator" {
		log.Fatalf("unsupported engine mode %q", cfg.Engine.Mode)
	}
	sim := engine.NewSimulator()
	sim.AutoFill = true

	// Live model fed by engine callbacks.
	model := feed.NewModel()
	sim.OnOrder = model.UpsertOrder
	sim.OnTrade = func(trade *domain.Trade) { model.AddTrade(trade) }
	sim.OnStat = model.UpsertOrderStat
	sim.OnPosition = model.UpsertPosition
	sim.OnAsset = model.UpsertAsset

	// Historical store and merger. The db file may briefly be locked by an
	// exporter, so opening retries.
	var merger *history.Merger
	if cfg.Storage.HistoryDBPath != "" {
		var store *history.SQLiteStore
		err := util.Retry(context.Background(), 3, 500*time.Millisecond, func() error {
			var openErr error
			store, openErr = history.NewSQLiteStore(cfg.Storage.HistoryDBPath)
			return openErr
		})
		if err != nil {
			log.Fatalf("opening history store: %v", err)
		}
		defer store.Close()
		merger = history.NewMerger(store)
		merger.Yield = time.Duration(cfg.History.YieldMillis) * time.Millisecond

		// Mirror the live feed into the store so the session is available
		// to trading-day merges and the exporter after restart.
		mirrorSession(sim, store, logger)
	}

	dispatcher := dispatch.New(sim, logger)
	srv := api.NewServer(sim, model, dispatcher, merger, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("tradeterm server listening", "addr", httpServer.Addr, "engine", sim.Name())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down tradeterm server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// mirrorSession chains the engine callbacks so every record that reaches the
// live model is also persisted. Write failures are logged and do not stall
// the feed.
func mirrorSession(sim *engine.Simulator, w history.Writer, logger *slog.Logger) {
	ctx := context.Background()
	onOrder, onTrade, onStat := sim.OnOrder, sim.OnTrade, sim.OnStat
	onPosition, onAsset := sim.OnPosition, sim.OnAsset

	sim.OnOrder = func(order *domain.Order) {
		onOrder(order)
		if err := w.SaveOrder(ctx, order); err != nil {
			logger.Error("mirroring order", "order_id", order.OrderID, "error", err)
		}
	}
	sim.OnTrade = func(trade *domain.Trade) {
		onTrade(trade)
		if err := w.SaveTrade(ctx, trade); err != nil {
			logger.Error("mirroring trade", "trade_id", trade.TradeID, "error", err)
		}
	}
	sim.OnStat = func(stat *domain.OrderStat) {
		onStat(stat)
		if err := w.SaveOrderStat(ctx, stat); err != nil {
			logger.Error("mirroring order stat", "key", stat.UIDKey, "error", err)
		}
	}
	sim.OnPosition = func(pos *domain.Position) {
		onPosition(pos)
		if err := w.SavePosition(ctx, pos); err != nil {
			logger.Error("mirroring position", "instrument", pos.InstrumentID, "error", err)
		}
	}
	sim.OnAsset = func(asset *domain.Asset) {
		onAsset(asset)
		if err := w.SaveAsset(ctx, asset); err != nil {
			logger.Error("mirroring asset", "holder", asset.HolderUID, "error", err)
		}
	}
}
