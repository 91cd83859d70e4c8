package pricing

import (
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
)

// Quote is a priced configuration.
type Quote struct {
	// Amount is the unrounded price for the configuration's billing period.
	Amount float64
	// MonthlyEquivalent is Amount normalised to one month.
	MonthlyEquivalent float64
	Currency          string
	// Clamped is set when a quantity was pulled into its range before pricing.
	Clamped bool
	// Configuration is what was actually priced.
	Configuration vo.ResourceConfiguration
}

// Engine prices configurations against a fixed tariff. Safe for concurrent use.
type Engine struct {
	tariff Tariff
}

func NewEngine(t Tariff) *Engine {
	return &Engine{tariff: t}
}

func (e *Engine) Tariff() Tariff {
	return e.tariff
}

// Clamp pulls each quantity into its tariff range.
func (e *Engine) Clamp(cfg vo.ResourceConfiguration) (vo.ResourceConfiguration, bool) {
	out := cfg
	out.Cores = e.tariff.Cores.Clamp(cfg.Cores)
	out.RAMGb = e.tariff.RAMGb.Clamp(cfg.RAMGb)
	out.StorageGb = e.tariff.StorageGb.Clamp(cfg.StorageGb)
	return out, out != cfg
}

// Monthly is the price of one month of cfg, ignoring its billing period.
func (e *Engine) Monthly(cfg vo.ResourceConfiguration) float64 {
	cfg, _ = e.Clamp(cfg)
	return e.monthly(cfg)
}

func (e *Engine) monthly(cfg vo.ResourceConfiguration) float64 {
	t := e.tariff
	raw := float64(cfg.Cores)*t.CorePrice +
		float64(cfg.RAMGb)*t.RAMPrice +
		float64(cfg.StorageGb)*t.StoragePrice
	return raw*t.LocationMultiplier(cfg.Location) + t.OSLicenseFee(cfg.OperatingSystem)
}

// Price returns the amount due per billing period. Annual billing is twelve
// months at the annual discount factor.
func (e *Engine) Price(cfg vo.ResourceConfiguration) float64 {
	cfg, _ = e.Clamp(cfg)
	m := e.monthly(cfg)
	if cfg.BillingPeriod.IsAnnual() {
		return m * 12 * e.tariff.AnnualDiscountFactor
	}
	return m
}

func (e *Engine) Quote(cfg vo.ResourceConfiguration) Quote {
	clamped, changed := e.Clamp(cfg)
	amount := e.Price(clamped)
	return Quote{
		Amount:            amount,
		MonthlyEquivalent: MonthlyEquivalent(amount, clamped.BillingPeriod),
		Currency:          e.tariff.Currency,
		Clamped:           changed,
		Configuration:     clamped,
	}
}
