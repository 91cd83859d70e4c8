package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/infrastructure/persistence/mappers"
	"github.com/fylo-cloud/fylo/internal/infrastructure/persistence/models"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
	"github.com/fylo-cloud/fylo/internal/shared/db"
)

// OrderRepository stores orders in the hosting_orders table.
type OrderRepository struct {
	db       *gorm.DB
	currency string
	now      func() time.Time
}

func NewOrderRepository(gdb *gorm.DB, currency string) *OrderRepository {
	return &OrderRepository{
		db:       gdb,
		currency: currency,
		now:      biztime.NowUTC,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model, err := mappers.OrderToModel(o, r.currency)
	if err != nil {
		return err
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	var model models.OrderModel

	if err := db.Conn(ctx, r.db).Where("id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	var rows []*models.OrderModel

	query := db.Conn(ctx, r.db).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return mappers.OrdersToDomain(rows)
}

// UpdateStatus changes the status of one order and returns the updated order.
// The read and the write share one transaction.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	var updated *order.Order

	err := db.InTx(ctx, r.db, func(txCtx context.Context) error {
		o, err := r.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := o.ChangeStatus(status); err != nil {
			return err
		}

		result := db.Conn(txCtx, r.db).Model(&models.OrderModel{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     o.Status().String(),
				"updated_at": o.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	result := db.Conn(ctx, r.db).Where("id = ?", orderID).Delete(&models.OrderModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

type statsRow struct {
	MRR           float64
	ActiveOrders  int64
	TotalOrders   int64
	UniqueClients int64
}

// Stats aggregates the dashboard headline figures in one query.
func (r *OrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	var row statsRow

	err := db.Conn(ctx, r.db).
		Model(&models.OrderModel{}).
		Select(`COALESCE(SUM(CASE WHEN status = ? THEN monthly_revenue ELSE 0 END), 0) AS mrr,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active_orders,
			COUNT(*) AS total_orders,
			COUNT(DISTINCT client_email) AS unique_clients`,
			order.StatusActive.String(), order.StatusActive.String()).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}

	return &order.Stats{
		MRR:           row.MRR,
		ActiveOrders:  row.ActiveOrders,
		TotalOrders:   row.TotalOrders,
		UniqueClients: row.UniqueClients,
	}, nil
}

type revenueRow struct {
	CreatedAt      time.Time
	MonthlyRevenue float64
}

// MonthlyRevenue sums the monthly revenue of active orders by the business
// month they were created in. Bucketing happens here rather than in SQL so
// MySQL and SQLite agree on month boundaries in the business timezone.
func (r *OrderRepository) MonthlyRevenue(ctx context.Context, months int) ([]order.RevenuePoint, error) {
	if months <= 0 {
		return []order.RevenuePoint{}, nil
	}

	now := r.now()
	keys := biztime.RecentMonths(now, months)
	start := firstMonthStart(now, months)

	var rows []revenueRow
	err := db.Conn(ctx, r.db).
		Model(&models.OrderModel{}).
		Select("created_at, monthly_revenue").
		Where("status = ? AND created_at >= ?", order.StatusActive.String(), start).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}

	buckets := make(map[string]*order.RevenuePoint, len(keys))
	points := make([]order.RevenuePoint, len(keys))
	for i, k := range keys {
		points[i] = order.RevenuePoint{Month: k}
		buckets[k] = &points[i]
	}

	for _, row := range rows {
		p, ok := buckets[biztime.MonthKey(row.CreatedAt)]
		if !ok {
			continue
		}
		p.Revenue += row.MonthlyRevenue
		p.Orders++
	}

	return points, nil
}

// firstMonthStart is 00:00 on the first day of the oldest of the last n
// business months, in UTC.
func firstMonthStart(now time.Time, n int) time.Time {
	b := now.In(biztime.Location())
	first := time.Date(b.Year(), b.Month()-time.Month(n-1), 1, 0, 0, 0, 0, biztime.Location())
	return first.UTC()
}
