package models

import "time"

// Market identifies the instrument class a trade belongs to. It decides which
// point-value convention the contract table applies.
type Market string

const (
	MarketForex   Market = "forex"
	MarketFutures Market = "futures"
	MarketIndices Market = "indices"
)

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// DefaultAccountID tags trades that were recorded before accounts existed or
// when no account is active.
const DefaultAccountID = "default"

// Trade is the persisted unit of the journal.
//
// PnL, PnLPercentage and RiskReward are derived values: they are always the
// output of the calculator, except when UseManualPnL is set, in which case PnL
// equals ManualPnL exactly and the other two are recomputed from the override.
type Trade struct {
	ID        string `gorm:"primaryKey" json:"id"`
	AccountID string `gorm:"index;default:default" json:"accountId"`

	Symbol           string  `json:"symbol"`
	Market           Market  `json:"market"`
	Side             Side    `json:"side"`
	CustomMultiplier float64 `json:"customMultiplier,omitempty"` // 0 = use the contract table

	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	LotSize    float64 `json:"lotSize"`

	StopLoss   *float64 `json:"stopLoss,omitempty"`
	TakeProfit *float64 `json:"takeProfit,omitempty"`

	// Spread is in the instrument's native unit (pips for forex, points for
	// futures and indices); Commission and Swap are currency amounts.
	Spread     float64 `json:"spread"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`

	EntryTime time.Time `json:"entryTime"`
	ExitTime  time.Time `json:"exitTime"`

	PnL           float64 `json:"pnl"`
	PnLPercentage float64 `json:"pnlPercentage"`
	RiskReward    float64 `json:"riskReward"`

	UseManualPnL bool    `json:"useManualPnL"`
	ManualPnL    float64 `json:"manualPnL,omitempty"`

	Strategy string `json:"strategy,omitempty"`
	Notes    string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
