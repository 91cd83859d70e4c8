package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"

	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
)

// MonthlyEquivalent normalises an amount billed over period to one month.
// Revenue figures are always aggregated on this value.
func MonthlyEquivalent(amount float64, period vo.BillingPeriod) float64 {
	return amount / float64(period.Months())
}

// FormatAmount renders amount with two decimals. Display only; the unrounded
// value is what gets stored and aggregated.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatMoney renders amount with the currency symbol, e.g. "€ 50.00". Unknown
// ISO codes fall back to "<code> 50.00".
func FormatMoney(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + FormatAmount(amount)
	}
	return fmt.Sprint(currency.Symbol(unit.Amount(amount)))
}

// IsValidAmount reports whether v is a finite, non-negative amount.
func IsValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
