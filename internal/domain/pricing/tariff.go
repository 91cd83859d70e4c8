// Package pricing maps a resource configuration to a price. Everything here
// is pure: no I/O, no clocks, no shared state.
package pricing

import (
	"fmt"

	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
)

// Range is an inclusive quantity range.
type Range struct {
	Min int
	Max int
}

func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Tariff holds the unit prices and tables the engine prices with.
type Tariff struct {
	Currency             string
	CorePrice            float64
	RAMPrice             float64
	StoragePrice         float64
	AnnualDiscountFactor float64
	LocationMultipliers  map[vo.Location]float64
	OSLicenseFees        map[vo.OperatingSystem]float64
	Cores                Range
	RAMGb                Range
	StorageGb            Range
}

// DefaultTariff returns the storefront's published prices.
func DefaultTariff() Tariff {
	return Tariff{
		Currency:             "EUR",
		CorePrice:            3,
		RAMPrice:             1,
		StoragePrice:         0.15,
		AnnualDiscountFactor: 0.9,
		LocationMultipliers: map[vo.Location]float64{
			vo.LocationMiami:  1.05,
			vo.LocationFrance: 1.0,
		},
		OSLicenseFees: map[vo.OperatingSystem]float64{
			vo.OSUbuntu2204:        0,
			vo.OSDebian12:          0,
			vo.OSWindowsServer2022: 15,
		},
		Cores:     Range{Min: 2, Max: 32},
		RAMGb:     Range{Min: 4, Max: 256},
		StorageGb: Range{Min: 100, Max: 4000},
	}
}

// LocationMultiplier defaults to 1 for locations without an entry.
func (t Tariff) LocationMultiplier(l vo.Location) float64 {
	if m, ok := t.LocationMultipliers[l]; ok {
		return m
	}
	return 1
}

// OSLicenseFee defaults to 0 for systems without an entry.
func (t Tariff) OSLicenseFee(os vo.OperatingSystem) float64 {
	return t.OSLicenseFees[os]
}

// Check verifies the tariff itself is usable.
func (t Tariff) Check() error {
	if t.CorePrice < 0 || t.RAMPrice < 0 || t.StoragePrice < 0 {
		return fmt.Errorf("unit prices must be non-negative")
	}
	if t.AnnualDiscountFactor <= 0 || t.AnnualDiscountFactor > 1 {
		return fmt.Errorf("annual discount factor must be in (0, 1], got %v", t.AnnualDiscountFactor)
	}
	for _, r := range []Range{t.Cores, t.RAMGb, t.StorageGb} {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("invalid range %d..%d", r.Min, r.Max)
		}
	}
	for l, m := range t.LocationMultipliers {
		if m < 0 {
			return fmt.Errorf("negative multiplier for location %s", l)
		}
	}
	for os, fee := range t.OSLicenseFees {
		if fee < 0 {
			return fmt.Errorf("negative license fee for %s", os)
		}
	}
	return nil
}

// Validate reports the first field of cfg the editor should have rejected:
// an unknown enumeration or a quantity outside its range.
func (t Tariff) Validate(cfg vo.ResourceConfiguration) error {
	if _, ok := t.LocationMultipliers[cfg.Location]; !ok {
		return &ConfigurationError{Field: "location", Reason: fmt.Sprintf("unknown location %q", cfg.Location)}
	}
	if _, ok := t.OSLicenseFees[cfg.OperatingSystem]; !ok {
		return &ConfigurationError{Field: "operatingSystem", Reason: fmt.Sprintf("unknown operating system %q", cfg.OperatingSystem)}
	}
	if !cfg.BillingPeriod.IsValid() {
		return &ConfigurationError{Field: "billingPeriod", Reason: fmt.Sprintf("unknown billing period %q", cfg.BillingPeriod)}
	}
	checks := []struct {
		field string
		value int
		r     Range
	}{
		{"cores", cfg.Cores, t.Cores},
		{"ramGb", cfg.RAMGb, t.RAMGb},
		{"storageGb", cfg.StorageGb, t.StorageGb},
	}
	for _, c := range checks {
		if !c.r.Contains(c.value) {
			return &ConfigurationError{
				Field:  c.field,
				Reason: fmt.Sprintf("%d is outside %d..%d", c.value, c.r.Min, c.r.Max),
			}
		}
	}
	return nil
}

// ConfigurationError is an out-of-range or unknown configuration field.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
