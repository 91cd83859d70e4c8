package order

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
	"github.com/fylo-cloud/fylo/internal/shared/id"
)

// ClientInfo is optional metadata captured with an order.
type ClientInfo struct {
	Name  string
	Email string
	IP    string
}

// Order is a submitted VPS order. The configuration is frozen at submission.
type Order struct {
	id             string
	name           string
	config         vo.ResourceConfiguration
	quotedPrice    float64
	monthlyRevenue float64
	client         ClientInfo
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

// NewOrder creates an active order for cfg quoted at quotedPrice. The monthly
// revenue figure is derived from the quote and the billing period.
func NewOrder(cfg vo.ResourceConfiguration, quotedPrice float64, client ClientInfo) (*Order, error) {
	if err := cfg.CheckComplete(); err != nil {
		return nil, err
	}
	if !pricing.IsValidAmount(quotedPrice) {
		return nil, ErrInvalidPrice
	}

	oid, err := id.NewOrderID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.TrimSpace(client.Email)
	client.IP = strings.TrimSpace(client.IP)

	name := client.Name
	if name == "" {
		name = cfg.Summary()
	}

	now := biztime.NowUTC()
	return &Order{
		id:             oid,
		name:           name,
		config:         cfg,
		quotedPrice:    quotedPrice,
		monthlyRevenue: pricing.MonthlyEquivalent(quotedPrice, cfg.BillingPeriod),
		client:         client,
		status:         StatusActive,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructOrder rebuilds an order from persistence or from a change event.
func ReconstructOrder(
	orderID, name string,
	cfg vo.ResourceConfiguration,
	quotedPrice, monthlyRevenue float64,
	client ClientInfo,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	return &Order{
		id:             orderID,
		name:           name,
		config:         cfg,
		quotedPrice:    quotedPrice,
		monthlyRevenue: monthlyRevenue,
		client:         client,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (o *Order) ID() string                              { return o.id }
func (o *Order) Name() string                            { return o.name }
func (o *Order) Configuration() vo.ResourceConfiguration { return o.config }
func (o *Order) Client() ClientInfo                      { return o.client }
func (o *Order) Status() Status                          { return o.status }
func (o *Order) CreatedAt() time.Time                    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                    { return o.updatedAt }

// QuotedPrice is the literal amount the client was shown, per billing period.
func (o *Order) QuotedPrice() float64 {
	return o.quotedPrice
}

// MonthlyRevenue is the quoted price normalised to one month.
func (o *Order) MonthlyRevenue() float64 {
	return o.monthlyRevenue
}

// ChangeStatus moves the order to status.
func (o *Order) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if o.status == status {
		return nil
	}
	o.status = status
	o.updatedAt = biztime.NowUTC()
	return nil
}

// Clone returns an independent copy.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}
