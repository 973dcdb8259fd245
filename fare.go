package tripfinder

import "fmt"

// Fare is the flat single-journey fare used for cost estimates
type Fare struct {
	Amount   float64
	Currency string
}

// Estimate returns the fare capped at budget, formatted like "€2.10".
// ok is false when no positive budget was given.
func (f Fare) Estimate(budget float64) (string, bool) {
	if budget <= 0 {
		return "", false
	}
	amount := f.Amount
	if budget < amount {
		amount = budget
	}
	return fmt.Sprintf("%s%.2f", f.Currency, amount), true
}
