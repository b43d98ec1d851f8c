// Package projection implements the sales projection engine: a pure,
// deterministic transform from one input snapshot to one output snapshot.
//
// It compares a generic "competitor" media buy against a "platform" buy with
// improved cost efficiency and funded-media credits, across cost per lead,
// leads, appointments, cost per appointment, closed deals, and revenue.
//
// All arithmetic is float64 and unrounded; currency rounding happens at
// render time only (see internal/render). Every division is guarded: a zero
// or negative denominator yields the 0 sentinel, never NaN or Inf. The engine
// does not clamp rate inputs — that is the input layer's job (see
// internal/sanitize) — so out-of-range values propagate mathematically.
package projection

import (
	"math"

	"github.com/adlift/projection-engine/internal/market"
)

// Channel selects which baseline cost-per-lead figure applies.
type Channel string

const (
	// ChannelPrimary is the default, lower-cost acquisition channel.
	ChannelPrimary Channel = "primary"
	// ChannelSecondary is the higher-cost acquisition channel.
	ChannelSecondary Channel = "secondary"
)

// Input is a snapshot of all user-adjustable parameters at one point in time.
// Passed by value; the engine never retains or mutates it.
type Input struct {
	Market  market.Entry `json:"market"`
	Channel Channel      `json:"channel"`

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

// Defaults returns the standard input snapshot: first table market, primary
// channel, and the stock parameter values used to open a sales conversation.
func Defaults() Input {
	return Input{
		Market:                market.First(),
		Channel:               ChannelPrimary,
		ClientSpend:           1000,
		CreditA:               500,
		CreditB:               0,
		FundedCap:             1300,
		LeadToApptRate:        0.2,
		EfficiencyUplift:      0.15,
		BaselineCostPrimary:   16,
		BaselineCostSecondary: 85,
		CommissionRate:        0.025,
		CloseRate:             0.25,
	}
}

// Scenario holds the derived metrics for one media-buy scenario.
type Scenario struct {
	CostPerLead        float64 `json:"cost_per_lead"`
	Leads              float64 `json:"leads"`
	Appointments       float64 `json:"appointments"`
	CostPerAppointment float64 `json:"cost_per_appointment"`
	Closed             float64 `json:"closed"`
	Revenue            float64 `json:"revenue"`
}

// Output is fully derived from one Input; it has no independent state and is
// rebuilt from scratch on every Project call, never partially updated.
type Output struct {
	Competitor Scenario `json:"competitor"`
	Platform   Scenario `json:"platform"`

	AppliedCredit          float64 `json:"applied_credit"`
	PlatformBudget         float64 `json:"platform_budget"`
	AppointmentDelta       float64 `json:"appointment_delta"`
	RevenueDelta           float64 `json:"revenue_delta"`
	CostOfWaiting          float64 `json:"cost_of_waiting"`
	AverageConversionValue float64 `json:"average_conversion_value"`
}

// Project computes the full output snapshot from one input snapshot.
// Pure and total: defined for all real-valued inputs, shares no state between
// invocations, and is safe to call from any number of goroutines.
func Project(in Input) Output {
	acv := in.Market.ReferenceAssetPrice * in.CommissionRate

	baseline := in.BaselineCostPrimary
	if in.Channel == ChannelSecondary {
		baseline = in.BaselineCostSecondary
	}

	competitorCpl := baseline * in.Market.CostMultiplier
	platformCpl := competitorCpl * (1 - in.EfficiencyUplift)

	// Negative credits clamp to zero before summing; the funded cap is a hard
	// ceiling applied after summing, never distributed proportionally.
	appliedCredit := math.Min(math.Max(0, in.FundedCap),
		math.Max(0, in.CreditA)+math.Max(0, in.CreditB))
	platformBudget := math.Max(0, in.ClientSpend) + appliedCredit

	competitor := scenario(in.ClientSpend, competitorCpl, in)
	platform := scenario(platformBudget, platformCpl, in)

	competitor.Revenue = competitor.Closed * acv
	platform.Revenue = platform.Closed * acv

	return Output{
		Competitor:             competitor,
		Platform:               platform,
		AppliedCredit:          appliedCredit,
		PlatformBudget:         platformBudget,
		AppointmentDelta:       platform.Appointments - competitor.Appointments,
		RevenueDelta:           platform.Revenue - competitor.Revenue,
		CostOfWaiting:          platform.Revenue, // one period's forfeited revenue, by definition
		AverageConversionValue: acv,
	}
}

// scenario derives the per-scenario metrics for a given budget and cost per
// lead. Revenue is filled in by the caller once the conversion value is known.
func scenario(budget, cpl float64, in Input) Scenario {
	var leads float64
	if budget > 0 && cpl > 0 {
		leads = budget / cpl
	}

	appts := leads * in.LeadToApptRate

	// 0 is the explicit "not applicable" sentinel for cost per appointment.
	var cpa float64
	if appts > 0 {
		cpa = budget / appts
	}

	return Scenario{
		CostPerLead:        cpl,
		Leads:              leads,
		Appointments:       appts,
		CostPerAppointment: cpa,
		Closed:             appts * in.CloseRate,
	}
}
