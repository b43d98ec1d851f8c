// Package sanitize is the input layer in front of the projection engine.
//
// The engine accepts any real-valued input without crashing, but its output
// is only contractually meaningful when rates sit in their documented ranges.
// This package clamps an input snapshot into those ranges before it reaches
// the engine: fractions to [0,1], efficiency uplift to [0,1), currency
// amounts to >= 0. The engine itself stays unclamped.
package sanitize

import "github.com/adlift/projection-engine/internal/projection"

// MaxUplift is the ceiling for the efficiency uplift fraction. An uplift of
// 1 or more would mean a free or negative cost per lead.
const MaxUplift = 0.99

// Input clamps every field of an input snapshot to its documented range and
// normalizes an unrecognized channel to the primary channel. The original
// snapshot is not modified.
func Input(in projection.Input) projection.Input {
	out := in

	if out.Channel != projection.ChannelPrimary && out.Channel != projection.ChannelSecondary {
		out.Channel = projection.ChannelPrimary
	}

	out.ClientSpend = nonNegative(out.ClientSpend)
	out.CreditA = nonNegative(out.CreditA)
	out.CreditB = nonNegative(out.CreditB)
	out.FundedCap = nonNegative(out.FundedCap)
	out.BaselineCostPrimary = nonNegative(out.BaselineCostPrimary)
	out.BaselineCostSecondary = nonNegative(out.BaselineCostSecondary)

	out.LeadToApptRate = fraction(out.LeadToApptRate)
	out.CommissionRate = fraction(out.CommissionRate)
	out.CloseRate = fraction(out.CloseRate)
	out.EfficiencyUplift = clamp(out.EfficiencyUplift, 0, MaxUplift)

	return out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func fraction(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
