package order

import "context"

// Repository is the order store.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	// ListRecent returns up to limit orders, newest first. limit <= 0 means all.
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error)
	Delete(ctx context.Context, orderID string) error
	Stats(ctx context.Context) (*Stats, error)
	// MonthlyRevenue returns revenue per business month for the last months
	// months, oldest first, including empty months.
	MonthlyRevenue(ctx context.Context, months int) ([]RevenuePoint, error)
}

// Stats are the dashboard headline figures.
type Stats struct {
	// MRR sums the monthly revenue of active orders.
	MRR           float64
	ActiveOrders  int64
	TotalOrders   int64
	UniqueClients int64
}

type RevenuePoint struct {
	Month   string // 2006-01
	Revenue float64
	Orders  int64
}

// ChangeFeed distributes change events to every subscriber.
type ChangeFeed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context) (ChangeSubscription, error)
}

// ChangeSubscription delivers events in arrival order until closed. Events
// buffer without bound between the feed and the consumer, so a slow consumer
// never loses events. Events() is closed when the subscription ends.
type ChangeSubscription interface {
	Events() <-chan ChangeEvent
	Close() error
}
