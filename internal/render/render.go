// Package render formats a projection output for display.
//
// Rounding lives here and only here: the engine's float64 values are never
// mutated, they are converted to shopspring/decimal and rounded into display
// strings (currency to 2 places, counts to 3 places) at render time.
package render

import (
	"github.com/shopspring/decimal"

	"github.com/adlift/projection-engine/internal/projection"
)

// ScenarioView is the display form of one scenario's metrics.
type ScenarioView struct {
	CostPerLead        string `json:"cost_per_lead"`
	Leads              string `json:"leads"`
	Appointments       string `json:"appointments"`
	CostPerAppointment string `json:"cost_per_appointment"`
	Closed             string `json:"closed"`
	Revenue            string `json:"revenue"`
}

// Snapshot is the human-readable rendering of a full output, mirroring the
// engine's field names one for one.
type Snapshot struct {
	Competitor ScenarioView `json:"competitor"`
	Platform   ScenarioView `json:"platform"`

	AppliedCredit          string `json:"applied_credit"`
	PlatformBudget         string `json:"platform_budget"`
	AppointmentDelta       string `json:"appointment_delta"`
	RevenueDelta           string `json:"revenue_delta"`
	CostOfWaiting          string `json:"cost_of_waiting"`
	AverageConversionValue string `json:"average_conversion_value"`
}

// Currency renders a float64 amount as a dollar string with 2 decimals.
func Currency(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Count renders a fractional count (leads, appointments, closings) with 3
// decimals, matching the precision the projection is quoted at.
func Count(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

// Render builds the display snapshot for an output. The output itself is
// passed by value and left untouched.
func Render(out projection.Output) Snapshot {
	return Snapshot{
		Competitor:             scenarioView(out.Competitor),
		Platform:               scenarioView(out.Platform),
		AppliedCredit:          Currency(out.AppliedCredit),
		PlatformBudget:         Currency(out.PlatformBudget),
		AppointmentDelta:       Count(out.AppointmentDelta),
		RevenueDelta:           Currency(out.RevenueDelta),
		CostOfWaiting:          Currency(out.CostOfWaiting),
		AverageConversionValue: Currency(out.AverageConversionValue),
	}
}

func scenarioView(s projection.Scenario) ScenarioView {
	return ScenarioView{
		CostPerLead:        Currency(s.CostPerLead),
		Leads:              Count(s.Leads),
		Appointments:       Count(s.Appointments),
		CostPerAppointment: Currency(s.CostPerAppointment),
		Closed:             Count(s.Closed),
		Revenue:            Currency(s.Revenue),
	}
}
