// Package services builds pricing collaborators from configuration.
package services

import (
	"fmt"

	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/shared/config"
)

// TariffFromConfig overlays cfg on the default tariff. Zero values keep the
// default, so a partial pricing section is enough.
func TariffFromConfig(cfg config.PricingConfig) (pricing.Tariff, error) {
	t := pricing.DefaultTariff()

	if cfg.Currency != "" {
		t.Currency = cfg.Currency
	}
	if cfg.CorePrice != 0 {
		t.CorePrice = cfg.CorePrice
	}
	if cfg.RAMPrice != 0 {
		t.RAMPrice = cfg.RAMPrice
	}
	if cfg.StoragePrice != 0 {
		t.StoragePrice = cfg.StoragePrice
	}
	if cfg.AnnualDiscountFactor != 0 {
		t.AnnualDiscountFactor = cfg.AnnualDiscountFactor
	}

	if len(cfg.LocationMultipliers) > 0 {
		t.LocationMultipliers = make(map[vo.Location]float64, len(cfg.LocationMultipliers))
		for key, m := range cfg.LocationMultipliers {
			l, err := vo.ParseLocation(key)
			if err != nil {
				return pricing.Tariff{}, fmt.Errorf("pricing.location_multipliers: %w", err)
			}
			t.LocationMultipliers[l] = m
		}
	}

	if len(cfg.OSLicenseFees) > 0 {
		t.OSLicenseFees = make(map[vo.OperatingSystem]float64, len(cfg.OSLicenseFees))
		for key, fee := range cfg.OSLicenseFees {
			os, err := vo.ParseOperatingSystem(key)
			if err != nil {
				return pricing.Tariff{}, fmt.Errorf("pricing.os_license_fees: %w", err)
			}
			t.OSLicenseFees[os] = fee
		}
	}

	t.Cores = overlayRange(t.Cores, cfg.Cores)
	t.RAMGb = overlayRange(t.RAMGb, cfg.RAMGb)
	t.StorageGb = overlayRange(t.StorageGb, cfg.StorageGb)

	if err := t.Check(); err != nil {
		return pricing.Tariff{}, fmt.Errorf("invalid pricing configuration: %w", err)
	}
	return t, nil
}

func overlayRange(r pricing.Range, c config.RangeConfig) pricing.Range {
	if c.Min != 0 {
		r.Min = c.Min
	}
	if c.Max != 0 {
		r.Max = c.Max
	}
	return r
}
