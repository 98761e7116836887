package insights

import (
	"math"

	"github.com/shopspring/decimal"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Growth returns the percent change from previous to current. The nil return
// marks the "N/A" case: revenue appeared out of nowhere, so there is no
// meaningful baseline to grow from. Both windows empty reads as flat zero.
func Growth(current, previous decimal.Decimal) *float64 {
	if previous.IsPositive() {
		change := current.Sub(previous).
			Div(previous).
			InexactFloat64() * 100
		rounded := round2(change)
		return &rounded
	}
	if current.IsPositive() {
		return nil
	}
	zero := 0.0
	return &zero
}
