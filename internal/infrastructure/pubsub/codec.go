package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
)

// changeMessage is the wire form of a ChangeEvent on Redis and NATS.
type changeMessage struct {
	Type   order.ChangeType `json:"type"`
	ID     string           `json:"id"`
	Record *orderPayload    `json:"record,omitempty"`
}

type orderPayload struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	OperatingSystem string    `json:"operating_system"`
	Cores           int       `json:"cores"`
	RAMGb           int       `json:"ram_gb"`
	StorageGb       int       `json:"storage_gb"`
	BillingPeriod   string    `json:"billing_period"`
	QuotedPrice     float64   `json:"quoted_price"`
	MonthlyRevenue  float64   `json:"monthly_revenue"`
	ClientName      string    `json:"client_name,omitempty"`
	ClientEmail     string    `json:"client_email,omitempty"`
	ClientIP        string    `json:"client_ip,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func encodeChangeEvent(ev order.ChangeEvent) ([]byte, error) {
	msg := changeMessage{Type: ev.Type, ID: ev.ID}
	if o := ev.Record; o != nil {
		cfg := o.Configuration()
		client := o.Client()
		msg.Record = &orderPayload{
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
			ClientName:      client.Name,
			ClientEmail:     client.Email,
			ClientIP:        client.IP,
			Status:          o.Status().String(),
			CreatedAt:       o.CreatedAt(),
			UpdatedAt:       o.UpdatedAt(),
		}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change event: %w", err)
	}
	return data, nil
}

func decodeChangeEvent(data []byte) (order.ChangeEvent, error) {
	var msg changeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return order.ChangeEvent{}, fmt.Errorf("failed to unmarshal change event: %w", err)
	}

	ev := order.ChangeEvent{Type: msg.Type, ID: msg.ID}
	if p := msg.Record; p != nil {
		o, err := order.ReconstructOrder(
			p.ID, p.Name,
			vo.ResourceConfiguration{
				Location:        vo.Location(p.Location),
				OperatingSystem: vo.OperatingSystem(p.OperatingSystem),
				Cores:           p.Cores,
				RAMGb:           p.RAMGb,
				StorageGb:       p.StorageGb,
				BillingPeriod:   vo.BillingPeriod(p.BillingPeriod),
			},
			p.QuotedPrice, p.MonthlyRevenue,
			order.ClientInfo{Name: p.ClientName, Email: p.ClientEmail, IP: p.ClientIP},
			order.Status(p.Status),
			p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return order.ChangeEvent{}, err
		}
		ev.Record = o
	}
	if err := ev.Validate(); err != nil {
		return order.ChangeEvent{}, err
	}
	return ev, nil
}
