package dto

import (
	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
)

// QuoteDTO is the live price shown next to the configurator.
type QuoteDTO struct {
	Amount            float64                   `json:"amount"`
	MonthlyEquivalent float64                   `json:"monthlyEquivalent"`
	Currency          string                    `json:"currency"`
	Display           string                    `json:"display"`
	Clamped           bool                      `json:"clamped"`
	Config            orderdto.ConfigurationDTO `json:"config"`
	Warnings          []string                  `json:"warnings,omitempty"`
}

func ToQuoteDTO(q pricing.Quote) *QuoteDTO {
	return &QuoteDTO{
		Amount:            q.Amount,
		MonthlyEquivalent: q.MonthlyEquivalent,
		Currency:          q.Currency,
		Display:           pricing.FormatMoney(q.Amount, q.Currency),
		Clamped:           q.Clamped,
		Config:            orderdto.ToConfigurationDTO(q.Configuration),
	}
}

type OptionDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type RangeDTO struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// CatalogDTO is everything the configurator needs to render its controls.
type CatalogDTO struct {
	Currency             string                    `json:"currency"`
	Locations            []OptionDTO               `json:"locations"`
	OperatingSystems     []OptionDTO               `json:"operatingSystems"`
	BillingPeriods       []string                  `json:"billingPeriods"`
	Cores                RangeDTO                  `json:"cores"`
	RAMGb                RangeDTO                  `json:"ramGb"`
	StorageGb            RangeDTO                  `json:"storageGb"`
	CorePrice            float64                   `json:"corePrice"`
	RAMPrice             float64                   `json:"ramPrice"`
	StoragePrice         float64                   `json:"storagePrice"`
	AnnualDiscountFactor float64                   `json:"annualDiscountFactor"`
	Defaults             orderdto.ConfigurationDTO `json:"defaults"`
}

// Editor slider steps. They are hints for the UI and are not enforced.
const (
	coreStep    = 2
	ramStep     = 4
	storageStep = 100
)

// ToCatalogDTO lists the locations and systems the tariff prices, in the
// storefront's display order.
func ToCatalogDTO(t pricing.Tariff) *CatalogDTO {
	c := &CatalogDTO{
		Currency:             t.Currency,
		Locations:            make([]OptionDTO, 0, len(t.LocationMultipliers)),
		OperatingSystems:     make([]OptionDTO, 0, len(t.OSLicenseFees)),
		Cores:                RangeDTO{Min: t.Cores.Min, Max: t.Cores.Max, Step: coreStep},
		RAMGb:                RangeDTO{Min: t.RAMGb.Min, Max: t.RAMGb.Max, Step: ramStep},
		StorageGb:            RangeDTO{Min: t.StorageGb.Min, Max: t.StorageGb.Max, Step: storageStep},
		CorePrice:            t.CorePrice,
		RAMPrice:             t.RAMPrice,
		StoragePrice:         t.StoragePrice,
		AnnualDiscountFactor: t.AnnualDiscountFactor,
	}

	for _, l := range vo.Locations() {
		if m, ok := t.LocationMultipliers[l]; ok {
			c.Locations = append(c.Locations, OptionDTO{ID: l.String(), Name: l.DisplayName(), Value: m})
		}
	}
	for _, os := range vo.OperatingSystems() {
		if fee, ok := t.OSLicenseFees[os]; ok {
			c.OperatingSystems = append(c.OperatingSystems, OptionDTO{ID: os.String(), Name: os.DisplayName(), Value: fee})
		}
	}
	for _, p := range vo.BillingPeriods() {
		c.BillingPeriods = append(c.BillingPeriods, p.String())
	}

	defaultLocation := ""
	if len(c.Locations) > 0 {
		defaultLocation = c.Locations[0].ID
	}
	c.Defaults = orderdto.ConfigurationDTO{
		Location:        defaultLocation,
		OperatingSystem: vo.BaseOperatingSystem.String(),
		Cores:           t.Cores.Min,
		RAMGb:           t.RAMGb.Min,
		StorageGb:       t.StorageGb.Min,
		BillingPeriod:   vo.BillingMonthly.String(),
	}
	return c
}
