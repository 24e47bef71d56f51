// Package api serves the terminal HTTP API: resolved views of the live
// session, historical queries, and the order submission endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tradeterm/internal/dispatch"
	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
	"tradeterm/internal/feed"
	"tradeterm/internal/history"
	"tradeterm/internal/resolve"
)

// Server serves the terminal HTTP API over a live model, a dispatcher, and
// the historical merger.
type Server struct {
	engine     engine.Engine
	model      *feed.Model
	dispatcher *dispatch.Dispatcher
	merger     *history.Merger
	log        *slog.Logger
}

// NewServer creates the API server. merger may be nil when no historical
// store is configured; the history endpoint then reports 503.
func NewServer(e engine.Engine, model *feed.Model, d *dispatch.Dispatcher, merger *history.Merger, log *slog.Logger) *Server {
	return &Server{
		engine:     e,
		model:      model,
		dispatcher: d,
		merger:     merger,
		log:        log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/orders", s.handleOrders)
	mux.HandleFunc("GET /api/trades", s.handleTrades)
	mux.HandleFunc("GET /api/positions", s.handlePositions)
	mux.HandleFunc("GET /api/assets", s.handleAssets)
	mux.HandleFunc("GET /api/history/{date}", s.handleHistory)
	mux.HandleFunc("POST /api/orders", s.handleMakeOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", s.handleCancelOrder)
	mux.HandleFunc("DELETE /api/orders", s.handleCancelAll)
	mux.HandleFunc("POST /api/subscriptions", s.handleSubscribe)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// dispatchStatus maps dispatcher errors to HTTP statuses.
func dispatchStatus(err error) int {
	var notReady *dispatch.NotReadyError
	switch {
	case errors.Is(err, dispatch.ErrEngineNotConnected), errors.Is(err, dispatch.ErrEngineNotLive):
		return http.StatusServiceUnavailable
	case errors.As(err, &notReady):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrAccountInfo):
		return http.StatusBadRequest
	case errors.Is(err, dispatch.ErrNoBlockID):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- read endpoints ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	orders, trades, positions, assets := s.model.Counts()
	writeJSON(w, map[string]any{
		"engine":    s.engine.Name(),
		"live":      s.engine.IsLive(),
		"orders":    orders,
		"trades":    trades,
		"positions": positions,
		"assets":    assets,
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	stats := s.model.OrderStats()
	out := make([]resolve.OrderResolved, 0)
	for _, order := range s.model.Orders() {
		out = append(out, resolve.Order(s.engine, order, stats, false))
	}
	writeJSON(w, out)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	stats := s.model.OrderStats()
	out := make([]resolve.TradeResolved, 0)
	for _, trade := range s.model.Trades() {
		out = append(out, resolve.Trade(s.engine, trade, stats, false))
	}
	writeJSON(w, out)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	out := make([]resolve.PositionResolved, 0)
	for _, pos := range s.model.Positions() {
		out = append(out, resolve.Position(s.engine, pos))
	}
	writeJSON(w, out)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	out := make([]resolve.AssetResolved, 0)
	for _, asset := range s.model.Assets() {
		out = append(out, resolve.Asset(s.engine, asset))
	}
	writeJSON(w, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.merger == nil {
		writeError(w, http.StatusServiceUnavailable, "no historical store configured")
		return
	}

	date, err := time.Parse("2006-01-02", r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	mode := domain.HistoryTradingDate
	if r.URL.Query().Get("mode") == "natural" {
		mode = domain.HistoryNaturalDate
	}

	data, err := s.merger.ByDateRange(r.Context(), date, mode)
	if err != nil {
		s.log.Error("history query", "date", r.PathValue("date"), "error", err)
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}

	orders := make([]resolve.OrderResolved, 0, len(data.Orders))
	for _, order := range data.Orders {
		orders = append(orders, resolve.Order(s.engine, order, data.OrderStats, true))
	}
	trades := make([]resolve.TradeResolved, 0, len(data.Trades))
	for _, trade := range data.Trades {
		trades = append(trades, resolve.Trade(s.engine, trade, data.OrderStats, true))
	}
	positions := make([]resolve.PositionResolved, 0, len(data.Positions))
	for _, pos := range data.Positions {
		positions = append(positions, resolve.Position(s.engine, pos))
	}
	assets := make([]resolve.AssetResolved, 0, len(data.Assets))
	for _, asset := range data.Assets {
		assets = append(assets, resolve.Asset(s.engine, asset))
	}

	writeJSON(w, map[string]any{
		"orders":    orders,
		"trades":    trades,
		"positions": positions,
		"assets":    assets,
	})
}

// --- submission endpoints ---

// makeOrderRequest is the order submission body. CallerID is the process
// identifier of the submitting location; empty means a manual submission.
// Block fields are honoured only when is_block is set.
type makeOrderRequest struct {
	domain.MakeOrderInput
	AccountID string `json:"account_id"`
	CallerID  string `json:"caller_id"`

	IsBlock      bool   `json:"is_block"`
	OpponentSeat int32  `json:"opponent_seat"`
	MatchNumber  uint64 `json:"match_number,string"`
}

func (s *Server) handleMakeOrder(w http.ResponseWriter, r *http.Request) {
	var req makeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InstrumentID == "" || req.Volume <= 0 {
		writeError(w, http.StatusBadRequest, "instrument_id and a positive volume are required")
		return
	}

	var caller *domain.Location
	if req.CallerID != "" {
		caller = s.engine.LocationByProcessID(req.CallerID)
		if caller == nil {
			writeError(w, http.StatusBadRequest, "unknown caller location")
			return
		}
	}

	var orderID uint64
	var err error
	if req.IsBlock {
		msg := &domain.BlockMessage{
			OpponentSeat: req.OpponentSeat,
			MatchNumber:  req.MatchNumber,
		}
		orderID, err = s.dispatcher.PlaceBlockOrder(r.Context(), &req.MakeOrderInput, msg, caller, req.AccountID)
	} else {
		orderID, err = s.dispatcher.PlaceOrder(r.Context(), &req.MakeOrderInput, caller, req.AccountID)
	}
	if err != nil {
		s.log.Warn("order rejected", "account", req.AccountID, "error", err)
		writeError(w, dispatchStatus(err), err.Error())
		return
	}

	writeJSON(w, map[string]string{
		"order_id": strconv.FormatUint(orderID, 10),
		"uid_key":  domain.OrderUIDKey(orderID),
	})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	order := s.model.Order(domain.OrderUIDKey(orderID))
	if order == nil {
		writeError(w, http.StatusNotFound, "unknown order")
		return
	}

	actionID, err := s.dispatcher.CancelOrder(r.Context(), order)
	if err != nil {
		s.log.Warn("cancel rejected", "order_id", orderID, "error", err)
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{
		"order_action_id": strconv.FormatUint(actionID, 10),
	})
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	var open []*domain.Order
	for _, order := range s.model.Orders() {
		if !order.Status.Final() {
			open = append(open, order)
		}
	}

	if err := s.dispatcher.CancelAll(r.Context(), open); err != nil {
		s.log.Warn("cancel all", "open", len(open), "error", err)
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]int{"cancelled": len(open)})
}

// subscribeRequest names a market-data source and an instrument.
type subscribeRequest struct {
	SourceID     string `json:"source_id"`
	ExchangeID   string `json:"exchange_id"`
	InstrumentID string `json:"instrument_id"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	md := s.engine.LocationByProcessID(req.SourceID)
	if err := s.dispatcher.RequestMarketData(r.Context(), md, req.ExchangeID, req.InstrumentID); err != nil {
		writeError(w, dispatchStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
