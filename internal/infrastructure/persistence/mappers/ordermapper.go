package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/infrastructure/persistence/models"
)

// configurationSnapshot is the JSON shape of the configuration column.
type configurationSnapshot struct {
	Location        string `json:"location"`
	OperatingSystem string `json:"operatingSystem"`
	Cores           int    `json:"cores"`
	RAMGb           int    `json:"ramGb"`
	StorageGb       int    `json:"storageGb"`
	BillingPeriod   string `json:"billingPeriod"`
}

func OrderToModel(o *order.Order, currency string) (*models.OrderModel, error) {
	cfg := o.Configuration()
	client := o.Client()

	snapshot, err := json.Marshal(configurationSnapshot{
		Location:        cfg.Location.String(),
		OperatingSystem: cfg.OperatingSystem.String(),
		Cores:           cfg.Cores,
		RAMGb:           cfg.RAMGb,
		StorageGb:       cfg.StorageGb,
		BillingPeriod:   cfg.BillingPeriod.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return &models.OrderModel{
		ID:              o.ID(),
		Name:            o.Name(),
		Location:        cfg.Location.String(),
		OperatingSystem: cfg.OperatingSystem.String(),
		Cores:           cfg.Cores,
		RAMGb:           cfg.RAMGb,
		StorageGb:       cfg.StorageGb,
		BillingPeriod:   cfg.BillingPeriod.String(),
		QuotedPrice:     o.QuotedPrice(),
		MonthlyRevenue:  o.MonthlyRevenue(),
		Currency:        currency,
		Configuration:   datatypes.JSON(snapshot),
		ClientName:      optionalString(client.Name),
		ClientEmail:     optionalString(client.Email),
		ClientIP:        optionalString(client.IP),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}, nil
}

func OrderToDomain(model *models.OrderModel) (*order.Order, error) {
	if model == nil {
		return nil, nil
	}

	cfg, err := vo.NewResourceConfiguration(
		model.Location,
		model.OperatingSystem,
		model.Cores,
		model.RAMGb,
		model.StorageGb,
		model.BillingPeriod,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration for order %s: %w", model.ID, err)
	}

	status, err := order.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status for order %s: %w", model.ID, err)
	}

	client := order.ClientInfo{
		Name:  derefString(model.ClientName),
		Email: derefString(model.ClientEmail),
		IP:    derefString(model.ClientIP),
	}

	return order.ReconstructOrder(
		model.ID,
		model.Name,
		cfg,
		model.QuotedPrice,
		model.MonthlyRevenue,
		client,
		status,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}

func OrdersToDomain(rows []*models.OrderModel) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		o, err := OrderToDomain(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
