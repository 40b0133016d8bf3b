// Package pnl computes the profit and loss of a closed trade from its raw
// parameters and the contract table. All functions are pure and never return
// errors: degenerate inputs (zero denominators, contradictory stop/target
// geometry) resolve to 0.
package pnl

import (
	"math"

	"trade-journal-go/internal/contracts"
	"trade-journal-go/internal/models"
)

// Result holds the derived outcome fields of a trade.
type Result struct {
	PnL           float64 `json:"pnl"`
	PnLPercentage float64 `json:"pnlPercentage"`
	RiskReward    float64 `json:"riskReward"`
}

// Calculate derives net P&L, percentage return and risk-reward ratio.
//
// When the trade carries a manual P&L override, the formula is skipped
// entirely: PnL is the override value, the percentage is recomputed from it,
// and the risk-reward uses the realized price move against the stop distance
// instead of the planned target distance.
func Calculate(t models.Trade) Result {
	spec := contracts.Lookup(t.Market, t.Symbol, t.LotSize, t.CustomMultiplier)
	investment := investmentBase(t, spec.Multiplier)

	if t.UseManualPnL {
		return Result{
			PnL:           t.ManualPnL,
			PnLPercentage: percentage(t.ManualPnL, investment),
			RiskReward:    realizedRiskReward(t),
		}
	}

	var gross float64
	if t.Side == models.SideLong {
		gross = (t.ExitPrice - t.EntryPrice) * spec.Multiplier
	} else {
		gross = (t.EntryPrice - t.ExitPrice) * spec.Multiplier
	}

	net := gross - t.Commission - t.Swap - spec.SpreadCost(t.Spread)

	return Result{
		PnL:           net,
		PnLPercentage: percentage(net, investment),
		RiskReward:    plannedRiskReward(t),
	}
}

// Recalculate applies Calculate back onto the trade's derived fields.
func Recalculate(t *models.Trade) {
	r := Calculate(*t)
	t.PnL = r.PnL
	t.PnLPercentage = r.PnLPercentage
	t.RiskReward = r.RiskReward
}

// investmentBase is the notional the percentage return is measured against.
// Forex uses the standard-lot notional even for two-decimal quotes.
func investmentBase(t models.Trade, multiplier float64) float64 {
	if t.Market == models.MarketForex {
		return t.EntryPrice * 100000 * t.LotSize
	}
	return t.EntryPrice * t.LotSize * multiplier
}

func percentage(pnl, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	return pnl / investment * 100
}

// riskDistance is the direction-adjusted distance from entry to the stop.
func riskDistance(t models.Trade) float64 {
	if t.StopLoss == nil {
		return 0
	}
	if t.Side == models.SideLong {
		return t.EntryPrice - *t.StopLoss
	}
	return *t.StopLoss - t.EntryPrice
}

// plannedRiskReward is the auto-path ratio: planned reward over planned risk,
// defined only when both markers exist and both distances are strictly
// positive. A stop or target on the wrong side of entry yields 0, not an
// error.
func plannedRiskReward(t models.Trade) float64 {
	if t.StopLoss == nil || t.TakeProfit == nil {
		return 0
	}

	risk := riskDistance(t)
	var reward float64
	if t.Side == models.SideLong {
		reward = *t.TakeProfit - t.EntryPrice
	} else {
		reward = t.EntryPrice - *t.TakeProfit
	}

	if risk <= 0 || reward <= 0 {
		return 0
	}
	return reward / risk
}

// realizedRiskReward is the override-path ratio: the actual move achieved per
// unit of planned risk. It needs only a stop loss, not a target.
func realizedRiskReward(t models.Trade) float64 {
	risk := riskDistance(t)
	if t.StopLoss == nil || risk <= 0 {
		return 0
	}
	return math.Abs(t.ExitPrice-t.EntryPrice) / risk
}
