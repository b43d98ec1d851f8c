package quote_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/adlift/projection-engine/internal/market"
	"github.com/adlift/projection-engine/internal/projection"
	"github.com/adlift/projection-engine/internal/quote"
)

// newTestRouter builds a router with the quote routes, no WebSocket hub.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := quote.NewService(nil)

	r := chi.NewRouter()
	r.Post("/api/v1/projections", svc.CreateProjection)
	r.Get("/api/v1/markets", svc.ListMarkets)
	r.Get("/api/v1/markets/{name}", svc.GetMarket)
	r.Get("/api/v1/defaults", svc.GetDefaults)

	return r
}

func doProjection(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/projections", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 1e-3
}

// --- Projection endpoint ---

func TestCreateProjection_EmptyBodyUsesDefaults(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp quote.Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.QuoteID == "" {
		t.Error("expected non-empty quote_id")
	}
	if resp.Market.Name != "New York NY" {
		t.Errorf("default market should be New York NY, got %q", resp.Market.Name)
	}
	if !resp.MarketMatched {
		t.Error("default market should match the table")
	}

	// Defaults: spend 1000 + applied credit min(1300, 500) = 1500.
	if !approx(resp.Output.AppliedCredit, 500) {
		t.Errorf("applied credit = %v, want 500", resp.Output.AppliedCredit)
	}
	if !approx(resp.Output.PlatformBudget, 1500) {
		t.Errorf("platform budget = %v, want 1500", resp.Output.PlatformBudget)
	}
	// ACV: 700000 * 0.025.
	if !approx(resp.Output.AverageConversionValue, 17500) {
		t.Errorf("acv = %v, want 17500", resp.Output.AverageConversionValue)
	}
	// Competitor CPL: baseline 16 * multiplier 1.35.
	if !approx(resp.Output.Competitor.CostPerLead, 21.6) {
		t.Errorf("competitor CPL = %v, want 21.6", resp.Output.Competitor.CostPerLead)
	}
}

func TestCreateProjection_FullBody(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{
		"market": "Houston TX",
		"channel": "primary",
		"client_spend": 1500,
		"credit_a": 500,
		"credit_b": 0,
		"funded_cap": 1300,
		"lead_to_appt_rate": 0.27,
		"efficiency_uplift": 0.3,
		"baseline_cost_primary": 100,
		"commission_rate": 0.025,
		"close_rate": 0.25
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp quote.Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	out := resp.Output
	if !approx(out.Competitor.CostPerLead, 100) {
		t.Errorf("competitor CPL = %v, want 100", out.Competitor.CostPerLead)
	}
	if !approx(out.Platform.CostPerLead, 70) {
		t.Errorf("platform CPL = %v, want 70", out.Platform.CostPerLead)
	}
	if !approx(out.Competitor.Leads, 15) {
		t.Errorf("competitor leads = %v, want 15", out.Competitor.Leads)
	}
	if !approx(out.Platform.Leads, 28.5714) {
		t.Errorf("platform leads = %v, want 28.5714", out.Platform.Leads)
	}
	if !approx(out.Competitor.Appointments, 4.05) {
		t.Errorf("competitor appointments = %v, want 4.05", out.Competitor.Appointments)
	}
	if !approx(out.Platform.Appointments, 7.7143) {
		t.Errorf("platform appointments = %v, want 7.7143", out.Platform.Appointments)
	}
	if out.CostOfWaiting != out.Platform.Revenue {
		t.Error("cost of waiting should equal platform revenue")
	}
}

func TestCreateProjection_UnknownMarketFallsBack(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{"market": "Gotham NJ"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp quote.Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.MarketMatched {
		t.Error("unknown market should not report a match")
	}
	if resp.Market.CostMultiplier != 1 || resp.Market.ReferenceAssetPrice != 350000 {
		t.Errorf("unknown market should resolve to the default entry, got %+v", resp.Market)
	}
	// Default baseline 16 * default multiplier 1.
	if !approx(resp.Output.Competitor.CostPerLead, 16) {
		t.Errorf("competitor CPL = %v, want 16", resp.Output.Competitor.CostPerLead)
	}
}

func TestCreateProjection_SanitizesOutOfRangeInput(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{
		"efficiency_uplift": 1.5,
		"credit_a": -200,
		"credit_b": -50,
		"close_rate": 3
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp quote.Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Input.EfficiencyUplift >= 1 {
		t.Errorf("uplift should be clamped below 1, got %v", resp.Input.EfficiencyUplift)
	}
	if resp.Input.CreditA != 0 || resp.Input.CreditB != 0 {
		t.Errorf("negative credits should be clamped to 0, got %v/%v",
			resp.Input.CreditA, resp.Input.CreditB)
	}
	if resp.Input.CloseRate != 1 {
		t.Errorf("close rate should be clamped to 1, got %v", resp.Input.CloseRate)
	}
	if resp.Output.Platform.CostPerLead <= 0 {
		t.Errorf("sanitized input should keep platform CPL positive, got %v",
			resp.Output.Platform.CostPerLead)
	}
}

func TestCreateProjection_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{"client_spend": "lots"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestCreateProjection_DisplayMatchesOutput(t *testing.T) {
	router := newTestRouter(t)

	w := doProjection(t, router, `{}`)
	var resp quote.Response
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Display.CostOfWaiting != resp.Display.Platform.Revenue {
		t.Errorf("display cost of waiting %q != display platform revenue %q",
			resp.Display.CostOfWaiting, resp.Display.Platform.Revenue)
	}
	if resp.Display.PlatformBudget != "$1500.00" {
		t.Errorf("display platform budget = %q, want $1500.00", resp.Display.PlatformBudget)
	}
}

// --- Market endpoints ---

func TestListMarkets(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/markets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var entries []market.Entry
	json.Unmarshal(w.Body.Bytes(), &entries)

	if len(entries) != 38 {
		t.Fatalf("expected 38 entries, got %d", len(entries))
	}
	if entries[0].Name != "New York NY" {
		t.Errorf("table order not preserved: first entry %q", entries[0].Name)
	}
}

func TestGetMarket_Known(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/markets/Denver%20CO", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		market.Entry
		Matched bool `json:"matched"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if !resp.Matched {
		t.Error("Denver CO should match")
	}
	if resp.CostMultiplier != 1.2 || resp.ReferenceAssetPrice != 550000 {
		t.Errorf("unexpected Denver CO entry: %+v", resp.Entry)
	}
}

func TestGetMarket_UnknownIsStillOK(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/markets/Atlantis", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Absent entries are a normal case, not a 404.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown market, got %d", w.Code)
	}

	var resp struct {
		market.Entry
		Matched bool `json:"matched"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Matched {
		t.Error("Atlantis should not match")
	}
	if resp.CostMultiplier != 1 || resp.ReferenceAssetPrice != 350000 {
		t.Errorf("expected default entry, got %+v", resp.Entry)
	}
}

// --- Defaults endpoint ---

func TestGetDefaults(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/defaults", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp quote.Request
	json.Unmarshal(w.Body.Bytes(), &resp)

	d := projection.Defaults()
	if resp.Market != d.Market.Name {
		t.Errorf("default market = %q, want %q", resp.Market, d.Market.Name)
	}
	if resp.ClientSpend != d.ClientSpend || resp.FundedCap != d.FundedCap {
		t.Errorf("defaults drifted: %+v", resp)
	}
	if resp.Channel != string(projection.ChannelPrimary) {
		t.Errorf("default channel = %q, want primary", resp.Channel)
	}
}
