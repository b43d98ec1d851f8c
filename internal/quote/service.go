// Package quote provides the HTTP and WebSocket surface for the projection
// engine: it turns raw request parameters into a sanitized input snapshot,
// runs the engine, and returns both the raw output and its display rendering.
//
// The service holds no state between requests. Every projection is a full
// recompute from the submitted snapshot.
package quote

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adlift/projection-engine/internal/market"
	"github.com/adlift/projection-engine/internal/metrics"
	"github.com/adlift/projection-engine/internal/projection"
	"github.com/adlift/projection-engine/internal/render"
	"github.com/adlift/projection-engine/internal/sanitize"
)

// Service handles projection requests. Safe for concurrent use; there is no
// shared mutable state behind it.
type Service struct {
	hub *Hub // optional WebSocket hub for live sessions
}

// NewService creates a new quote service. Pass nil for hub if live WebSocket
// sessions are not needed.
func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

// --- Request/Response types ---

// Request is the JSON body for POST /api/v1/projections. Any omitted field
// keeps its default value (the handler decodes over a defaults-populated
// struct), so a sales call can start from `{}` and adjust one slider at a
// time.
type Request struct {
	Market  string `json:"market"`
	Channel string `json:"channel"`

	ClientSpend float64 `json:"client_spend"`
	CreditA     float64 `json:"credit_a"`
	CreditB     float64 `json:"credit_b"`
	FundedCap   float64 `json:"funded_cap"`

	LeadToApptRate   float64 `json:"lead_to_appt_rate"`
	EfficiencyUplift float64 `json:"efficiency_uplift"`

	BaselineCostPrimary   float64 `json:"baseline_cost_primary"`
	BaselineCostSecondary float64 `json:"baseline_cost_secondary"`

	CommissionRate float64 `json:"commission_rate"`
	CloseRate      float64 `json:"close_rate"`
}

// DefaultRequest returns a Request populated with the stock parameter set.
func DefaultRequest() Request {
	d := projection.Defaults()
	return Request{
		Market:                d.Market.Name,
		Channel:               string(d.Channel),
		ClientSpend:           d.ClientSpend,
		CreditA:               d.CreditA,
		CreditB:               d.CreditB,
		FundedCap:             d.FundedCap,
		LeadToApptRate:        d.LeadToApptRate,
		EfficiencyUplift:      d.EfficiencyUplift,
		BaselineCostPrimary:   d.BaselineCostPrimary,
		BaselineCostSecondary: d.BaselineCostSecondary,
		CommissionRate:        d.CommissionRate,
		CloseRate:             d.CloseRate,
	}
}

// Response is the JSON body returned from POST /api/v1/projections and
// broadcast over the WebSocket hub.
type Response struct {
	QuoteID       string            `json:"quote_id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Market        market.Entry      `json:"market"`
	MarketMatched bool              `json:"market_matched"` // false when the default entry was used
	Input         projection.Input  `json:"input"`          // sanitized snapshot the engine actually saw
	Output        projection.Output `json:"output"`
	Display       render.Snapshot   `json:"display"`
}

// compute resolves the market, sanitizes the snapshot, runs the engine, and
// renders the result. Shared by the HTTP handler and the WebSocket hub.
func compute(req Request) Response {
	start := time.Now()

	entry, matched := market.Lookup(req.Market)
	if !matched {
		metrics.MarketFallbacks.Inc()
	}

	in := sanitize.Input(projection.Input{
		Market:                entry,
		Channel:               projection.Channel(req.Channel),
		ClientSpend:           req.ClientSpend,
		CreditA:               req.CreditA,
		CreditB:               req.CreditB,
		FundedCap:             req.FundedCap,
		LeadToApptRate:        req.LeadToApptRate,
		EfficiencyUplift:      req.EfficiencyUplift,
		BaselineCostPrimary:   req.BaselineCostPrimary,
		BaselineCostSecondary: req.BaselineCostSecondary,
		CommissionRate:        req.CommissionRate,
		CloseRate:             req.CloseRate,
	})

	out := projection.Project(in)

	metrics.ProjectionsTotal.WithLabelValues(string(in.Channel)).Inc()
	metrics.ProjectionLatency.Observe(time.Since(start).Seconds())

	return Response{
		QuoteID:       uuid.New().String(),
		GeneratedAt:   time.Now().UTC(),
		Market:        entry,
		MarketMatched: matched,
		Input:         in,
		Output:        out,
		Display:       render.Render(out),
	}
}

// --- HTTP Handlers ---

// CreateProjection handles POST /api/v1/projections.
func (s *Service) CreateProjection(w http.ResponseWriter, r *http.Request) {
	req := DefaultRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp := compute(req)

	slog.Info("projection computed",
		"quote_id", resp.QuoteID,
		"market", resp.Market.Name,
		"matched", resp.MarketMatched,
		"channel", string(resp.Input.Channel),
		"platform_budget", resp.Output.PlatformBudget,
		"revenue_delta", resp.Output.RevenueDelta,
	)

	writeJSON(w, http.StatusOK, resp)
}

// ListMarkets handles GET /api/v1/markets.
// Returns the full reference table in its defined order.
func (s *Service) ListMarkets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, market.Entries())
}

// GetMarket handles GET /api/v1/markets/{name}.
// An unknown name resolves to the default entry with a 200 — absent markets
// are a normal case, not a failure.
func (s *Service) GetMarket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	entry, matched := market.Lookup(name)
	if !matched {
		metrics.MarketFallbacks.Inc()
	}

	writeJSON(w, http.StatusOK, struct {
		market.Entry
		Matched bool `json:"matched"`
	}{entry, matched})
}

// GetDefaults handles GET /api/v1/defaults.
func (s *Service) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DefaultRequest())
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "err", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
