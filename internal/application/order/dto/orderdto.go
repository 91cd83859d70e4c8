package dto

import (
	"time"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
)

// ConfigurationDTO is a resource configuration as the storefront editor sends it.
type ConfigurationDTO struct {
	Location        string `json:"location" validate:"required"`
	OperatingSystem string `json:"operatingSystem" validate:"required"`
	Cores           int    `json:"cores" validate:"required,gt=0"`
	RAMGb           int    `json:"ramGb" validate:"required,gt=0"`
	StorageGb       int    `json:"storageGb" validate:"required,gt=0"`
	BillingPeriod   string `json:"billingPeriod" validate:"required"`
}

// ToValueObject parses the enumerations, accepting the configurator labels
// ("Miami", "Francia", "Ubuntu 22.04 LTS") and the legacy billing tokens.
func (c ConfigurationDTO) ToValueObject() (vo.ResourceConfiguration, error) {
	return vo.NewResourceConfiguration(c.Location, c.OperatingSystem, c.Cores, c.RAMGb, c.StorageGb, c.BillingPeriod)
}

func ToConfigurationDTO(cfg vo.ResourceConfiguration) ConfigurationDTO {
	return ConfigurationDTO{
		Location:        cfg.Location.String(),
		OperatingSystem: cfg.OperatingSystem.String(),
		Cores:           cfg.Cores,
		RAMGb:           cfg.RAMGb,
		StorageGb:       cfg.StorageGb,
		BillingPeriod:   cfg.BillingPeriod.String(),
	}
}

// OrderDTO is the admin view of an order.
type OrderDTO struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Config         ConfigurationDTO `json:"config"`
	QuotedPrice    float64          `json:"quoted_price"`
	MonthlyRevenue float64          `json:"monthly_revenue"`
	ClientName     string           `json:"client_name,omitempty"`
	ClientEmail    string           `json:"client_email,omitempty"`
	ClientIP       string           `json:"client_ip,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func ToOrderDTO(o *order.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	client := o.Client()
	return &OrderDTO{
		ID:             o.ID(),
		Name:           o.Name(),
		Config:         ToConfigurationDTO(o.Configuration()),
		QuotedPrice:    o.QuotedPrice(),
		MonthlyRevenue: o.MonthlyRevenue(),
		ClientName:     client.Name,
		ClientEmail:    client.Email,
		ClientIP:       client.IP,
		Status:         o.Status().String(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

// ToOrderDTOs keeps the order of orders. It never returns nil.
func ToOrderDTOs(orders []*order.Order) []*OrderDTO {
	out := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderDTO(o))
	}
	return out
}

// DashboardDTO is the admin panel summary.
type DashboardDTO struct {
	Stats   StatsDTO          `json:"stats"`
	Revenue []RevenuePointDTO `json:"revenue"`
}

type StatsDTO struct {
	MRR         float64 `json:"mrr"`
	ActiveVPS   int64   `json:"active_vps"`
	TotalOrders int64   `json:"total_orders"`
	Clients     int64   `json:"clients"`
}

type RevenuePointDTO struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

func ToStatsDTO(s *order.Stats) StatsDTO {
	return StatsDTO{
		MRR:         s.MRR,
		ActiveVPS:   s.ActiveOrders,
		TotalOrders: s.TotalOrders,
		Clients:     s.UniqueClients,
	}
}

func ToRevenuePointDTOs(points []order.RevenuePoint) []RevenuePointDTO {
	out := make([]RevenuePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, RevenuePointDTO{
			Month:   p.Month,
			Label:   monthLabel(p.Month),
			Revenue: p.Revenue,
			Orders:  p.Orders,
		})
	}
	return out
}

// monthLabel renders "2025-03" as "Mar 2025".
func monthLabel(key string) string {
	t, err := time.ParseInLocation("2006-01", key, biztime.Location())
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}
