// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/internsim/internal/adapters/history"
	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *simulation.Orchestrator satisfies it.
type Dependencies interface {
	Simulate(ctx context.Context, userID string, p model.CandidateProfile) (model.ScoreReport, error)
	Batch(ctx context.Context, userID string, profiles []model.CandidateProfile) ([]simulation.BatchResult, error)
	CompareOffers(ctx context.Context, userID string, a, b simulation.OfferInput) (simulation.OfferComparison, error)
	Market(ctx context.Context) (model.MarketSnapshot, error)
	Opportunities(ctx context.Context, category string) ([]model.OpportunityRecord, error)
	Roles() []string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	simulateHandler *SimulateHandler
	offersHandler   *OffersHandler
	marketHandler   *MarketHandler
	historyHandler  *HistoryHandler
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	log          logger.Logger
	maxBodyBytes int64
	history      history.Reader
	admins       []string
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxBodyBytes caps request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// WithHistory serves stored history from r. Without it the history routes
// answer 501.
func WithHistory(r history.Reader) Option {
	return func(o *serverOptions) {
		o.history = r
	}
}

// WithAdmins lists the user ids allowed to read the operator overview.
func WithAdmins(userIDs ...string) Option {
	return func(o *serverOptions) {
		o.admins = append(o.admins, userIDs...)
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, auth identity.Authenticator, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	o := serverOptions{log: logger.NewNop(), maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if auth == nil {
		auth = identity.HeaderAuthenticator{}
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile request schemas: %w", err)
	}
	resp := responder{log: o.log}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		simulateHandler: newSimulateHandler(deps, auth, schemas, o.maxBodyBytes, resp),
		offersHandler:   newOffersHandler(deps, auth, o.maxBodyBytes, resp),
		marketHandler:   newMarketHandler(deps, resp),
		historyHandler:  newHistoryHandler(o.history, auth, o.admins, resp),
	}, nil
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/simulate", MetricsMiddleware(s.simulateHandler.HandleSimulate, "simulate"))
	mux.HandleFunc("/simulate/batch", MetricsMiddleware(s.simulateHandler.HandleBatch, "simulate_batch"))
	mux.HandleFunc("/offers/compare", MetricsMiddleware(s.offersHandler.HandleCompare, "offers_compare"))
	mux.HandleFunc("/market", MetricsMiddleware(s.marketHandler.HandleMarket, "market"))
	mux.HandleFunc("/market/roles", MetricsMiddleware(s.marketHandler.HandleRoles, "market_roles"))
	mux.HandleFunc("/opportunities", MetricsMiddleware(s.marketHandler.HandleOpportunities, "opportunities"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleHistory, "history"))
	mux.HandleFunc("/admin/overview", MetricsMiddleware(s.historyHandler.HandleOverview, "admin_overview"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// responder maps domain errors onto HTTP responses.
type responder struct {
	log logger.Logger
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, simulation.ErrValidation), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrMethodNotAllowed):
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	case errors.Is(err, identity.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, history.ErrNotReadable):
		writeError(w, http.StatusNotImplemented, "history_unavailable", history.ErrNotReadable)
	case errors.Is(err, simulation.ErrNoData):
		writeError(w, http.StatusNotFound, "no_data", simulation.ErrNoData)
	case errors.Is(err, simulation.ErrDataUnavailable):
		rs.log.Error(r.Context(), "corpus unavailable", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "data_unavailable", simulation.ErrDataUnavailable)
	default:
		rs.log.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return body, nil
}

func requireMethod(r *http.Request, method string) error {
	if r.Method != method {
		return ErrMethodNotAllowed
	}
	return nil
}
