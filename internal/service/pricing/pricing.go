// Package pricing computes surge-adjusted fares from a base price and the
// number of recent booking attempts. It performs no I/O; attempt counting
// belongs to the caller.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultThreshold        = 3
	DefaultWindow           = 5 * time.Minute
	DefaultSurchargePercent = 10
	DefaultResetWindow      = 10 * time.Minute
)

// Policy holds the surge parameters. Window is the attempt lookback used for
// pricing; ResetWindow is how long attempt history is retained.
type Policy struct {
	Threshold        int
	Window           time.Duration
	SurchargePercent int64
	ResetWindow      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold:        DefaultThreshold,
		Window:           DefaultWindow,
		SurchargePercent: DefaultSurchargePercent,
		ResetWindow:      DefaultResetWindow,
	}
}

type Quote struct {
	BasePrice  int64
	FinalPrice int64
	IsSurged   bool
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy { return e.policy }

// Quote prices one booking. recentAttempts must already include the attempt
// being priced.
func (e *Engine) Quote(basePrice int64, recentAttempts int) Quote {
	q := Quote{BasePrice: basePrice, FinalPrice: basePrice}
	if recentAttempts < e.policy.Threshold {
		return q
	}
	q.IsSurged = true
	q.FinalPrice = Surcharge(basePrice, e.policy.SurchargePercent)
	return q
}

// ResetAt is when surge pricing started at now stops applying.
func (e *Engine) ResetAt(now time.Time) time.Time {
	return now.Add(e.policy.ResetWindow)
}

// Surcharge returns base*(100+percent)/100 rounded half-up to whole minor units.
func Surcharge(base, percent int64) int64 {
	factor := decimal.NewFromInt(100 + percent).Div(decimal.NewFromInt(100))
	// Round is half away from zero, which is half-up for non-negative prices.
	return decimal.NewFromInt(base).Mul(factor).Round(0).IntPart()
}
