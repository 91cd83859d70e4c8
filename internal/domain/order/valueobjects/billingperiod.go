package valueobjects

import (
	"fmt"
	"strings"
)

type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingAnnual  BillingPeriod = "annual"
)

// Older storefront clients still send the Spanish tokens.
var billingAliases = map[string]BillingPeriod{
	"monthly": BillingMonthly,
	"mensual": BillingMonthly,
	"annual":  BillingAnnual,
	"anual":   BillingAnnual,
	"yearly":  BillingAnnual,
}

func BillingPeriods() []BillingPeriod {
	return []BillingPeriod{BillingMonthly, BillingAnnual}
}

// ParseBillingPeriod normalises value, accepting legacy aliases.
func ParseBillingPeriod(value string) (BillingPeriod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("billing period cannot be empty")
	}
	p, ok := billingAliases[normalized]
	if !ok {
		return "", fmt.Errorf("invalid billing period: %s", value)
	}
	return p, nil
}

func (b BillingPeriod) String() string {
	return string(b)
}

func (b BillingPeriod) IsValid() bool {
	return b == BillingMonthly || b == BillingAnnual
}

func (b BillingPeriod) IsAnnual() bool {
	return b == BillingAnnual
}

// Months is the number of months one payment covers.
func (b BillingPeriod) Months() int {
	if b == BillingAnnual {
		return 12
	}
	return 1
}
