package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/uhyunpark/liveboard/pkg/app/core/board"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

const depthChannel = "depth"

// Server handles REST API and WebSocket connections
type Server struct {
	board  *board.Board
	router *mux.Router
	hub    *Hub // WebSocket hub
	log    *zap.SugaredLogger

	allowedOrigins []string
}

// NewServer creates a new API server and hooks it to board changes
func NewServer(b *board.Board, allowedOrigins []string, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		board:          b,
		router:         mux.NewRouter(),
		hub:            NewHub(log),
		log:            log,
		allowedOrigins: allowedOrigins,
	}

	s.setupRoutes()
	b.Subscribe(s.BroadcastDepth)
	return s
}

func (s *Server) setupRoutes() {
	// API v1 routes
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/assets", s.handleGetAssets).Methods("GET")
	api.HandleFunc("/depth", s.handleGetDepth).Methods("GET")
	api.HandleFunc("/depth/{side}", s.handleGetSide).Methods("GET")

	// Order submission
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.Handle("/metrics", s.board.Metrics().Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("api_server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.board.Assets().List()

	response := make([]AssetInfo, len(assets))
	for i, a := range assets {
		response[i] = AssetInfo{Name: a.String(), Ticker: a.Ticker()}
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetDepth(w http.ResponseWriter, r *http.Request) {
	depth, err := s.board.Depth()
	if err != nil {
		respondBoardError(w, err)
		return
	}

	body, err := json.Marshal(toDepthSnapshot(depth))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "encode failed", err.Error())
		return
	}

	// The ETag covers the levels only; the timestamp changes on every call.
	etag := depthETag(depth)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleGetSide(w http.ResponseWriter, r *http.Request) {
	side, err := orderbook.ParseSide(mux.Vars(r)["side"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid side", err.Error())
		return
	}

	levels, err := s.board.Summary(side)
	if err != nil {
		respondBoardError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SideSnapshot{
		Side:      side.String(),
		Currency:  s.board.Config().Currency.String(),
		Levels:    toPriceLevels(levels),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.decodeOrder(w, r)
	if !ok {
		return
	}

	if _, err := s.board.Place(order); err != nil {
		respondBoardError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponse{
		Status: "placed",
		Order:  toOrderInfo(order),
	})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.decodeOrder(w, r)
	if !ok {
		return
	}

	cancelled, err := s.board.Cancel(order)
	if err != nil {
		respondBoardError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CancelOrderResponse{
		Cancelled: cancelled,
		Order:     toOrderInfo(order),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		OpenOrders: s.board.Len(),
		WSClients:  s.hub.ClientCount(),
	})
}

// decodeOrder parses an OrderRequest body, writing the error response itself
func (s *Server) decodeOrder(w http.ResponseWriter, r *http.Request) (orderbook.Order, bool) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return orderbook.Order{}, false
	}

	order, err := req.toOrder(s.board.Config().Currency)
	if err != nil {
		respondBoardError(w, err)
		return orderbook.Order{}, false
	}
	return order, true
}

// ==============================
// Broadcast Methods (called from the board)
// ==============================

// BroadcastDepth pushes the depth to WebSocket clients subscribed to "depth"
func (s *Server) BroadcastDepth(d board.Depth) {
	s.hub.BroadcastToChannel(depthChannel, DepthUpdate{
		Type:          "depth",
		DepthSnapshot: toDepthSnapshot(d),
	})
}

// ==============================
// Helper Functions
// ==============================

// depthETag hashes the price levels with SHA3-256
func depthETag(d board.Depth) string {
	snap := toDepthSnapshot(d)
	snap.Timestamp = 0
	body, _ := json.Marshal(snap)
	sum := sha3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// respondBoardError maps board errors to HTTP status codes
func respondBoardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderbook.ErrInvalidOrder):
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
	case errors.Is(err, orderbook.ErrAggregationConflict):
		respondError(w, http.StatusConflict, "aggregation conflict", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
