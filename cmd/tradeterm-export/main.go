// tradeterm-export merges one trading day from the historical store and
// writes it to parquet files for offline analysis.
//
// Usage:
//
//	tradeterm-export -date 2024-06-17 [-mode trading|natural] [-out dir]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tradeterm/internal/config"
	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/export"
	"tradeterm/internal/history"
	"tradeterm/internal/util"
)

func main() {
	dateFlag := flag.String("date", "", "trading day to export (YYYY-MM-DD, required)")
	modeFlag := flag.String("mode", "trading", "date interpretation: trading or natural")
	outFlag := flag.String("out", "", "output directory (defaults to storage.export_dir)")
	flag.Parse()

	if *dateFlag == "" {
		flag.Usage()
		os.Exit(2)
	}
	date, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		log.Fatalf("invalid -date: %v", err)
	}
	mode := domain.HistoryTradingDate
	switch *modeFlag {
	case "trading":
	case "natural":
		mode = domain.HistoryNaturalDate
	default:
		log.Fatalf("invalid -mode %q, want trading or natural", *modeFlag)
	}

	cfgPath := "config/tradeterm.yaml"
	if p := os.Getenv("TRADETERM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	outDir := cfg.Storage.ExportDir
	if *outFlag != "" {
		outDir = *outFlag
	}
	if outDir == "" {
		log.Fatal("no output directory: set -out or storage.export_dir")
	}

	store, err := history.NewSQLiteStore(cfg.Storage.HistoryDBPath)
	if err != nil {
		log.Fatalf("opening history store: %v", err)
	}
	defer store.Close()

	merger := history.NewMerger(store)
	merger.Yield = 0 // batch export, no need to stay off any hot path

	ctx := context.Background()
	data, err := merger.ByDateRange(ctx, date, mode)
	if err != nil {
		log.Fatalf("merging %s: %v", *dateFlag, err)
	}

	// Identity resolution runs against an empty simulator: exported rows
	// keep raw uids readable but account labels degrade to placeholders.
	x := export.NewExporter(engine.NewSimulator(), outDir)
	if err := x.WriteDay(*dateFlag, data); err != nil {
		log.Fatalf("writing export: %v", err)
	}

	logger.Info("export complete",
		"date", *dateFlag,
		"mode", *modeFlag,
		"orders", len(data.Orders),
		"trades", len(data.Trades),
		"positions", len(data.Positions),
		"assets", len(data.Assets),
		"dir", outDir)
}
