// Package risk implements fixed-fraction position sizing.
package risk

import "github.com/shopspring/decimal"

// Sizer computes share counts from a trading budget and a maximum risk
// fraction per operation. Money arithmetic is done in decimals to avoid
// drift from repeated float rounding.
type Sizer struct {
	budget       decimal.Decimal
	riskFraction decimal.Decimal
}

// NewSizer builds a Sizer for the given budget and per-trade risk
// fraction (e.g. 0.01 risks 1% of the budget on one position).
func NewSizer(budget, riskFraction float64) Sizer {
	return Sizer{
		budget:       decimal.NewFromFloat(budget),
		riskFraction: decimal.NewFromFloat(riskFraction),
	}
}

// Shares returns the position size for an entry price and stop level:
// the lesser of what the budget affords and what the risk budget allows
// given the per-share risk. Returns 0 for unusable inputs.
func (s Sizer) Shares(entry, stop float64) int {
	if entry <= 0 {
		return 0
	}
	entryDec := decimal.NewFromFloat(entry)

	byBudget := s.budget.Div(entryDec).IntPart()

	riskPerShare := entryDec.Sub(decimal.NewFromFloat(stop))
	if riskPerShare.Sign() <= 0 {
		return int(byBudget)
	}

	riskBudget := s.budget.Mul(s.riskFraction)
	byRisk := riskBudget.Div(riskPerShare).IntPart()

	if byRisk > 0 && byRisk < byBudget {
		return int(byRisk)
	}
	return int(byBudget)
}
