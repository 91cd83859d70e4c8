// Package testutil provides mock implementations for testing the order application layer.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// MockOrderRepository is an in-memory order.Repository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order

	// Error injection for testing
	CreateError  error
	ListError    error
	UpdateError  error
	DeleteError  error
	StatsError   error
	RevenueError error

	CreateCalls int
	StatsCalls  int
	Revenue     []order.RevenuePoint
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]*order.Order)}
}

// Add stores o without counting a Create call.
func (m *MockOrderRepository) Add(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID()] = o.Clone()
}

func (m *MockOrderRepository) Create(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	m.orders[o.ID()] = o.Clone()
	return nil
}

func (m *MockOrderRepository) GetByID(_ context.Context, orderID string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (m *MockOrderRepository) ListRecent(_ context.Context, limit int) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	out := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() > out[j].ID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockOrderRepository) UpdateStatus(_ context.Context, orderID string, status order.Status) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if err := o.ChangeStatus(status); err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (m *MockOrderRepository) Delete(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.orders[orderID]; !ok {
		return order.ErrOrderNotFound
	}
	delete(m.orders, orderID)
	return nil
}

func (m *MockOrderRepository) Stats(_ context.Context) (*order.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StatsCalls++
	if m.StatsError != nil {
		return nil, m.StatsError
	}

	stats := &order.Stats{TotalOrders: int64(len(m.orders))}
	clients := make(map[string]struct{})
	for _, o := range m.orders {
		if o.Status().CountsTowardsRevenue() {
			stats.MRR += o.MonthlyRevenue()
			stats.ActiveOrders++
		}
		if email := o.Client().Email; email != "" {
			clients[email] = struct{}{}
		}
	}
	stats.UniqueClients = int64(len(clients))
	return stats, nil
}

func (m *MockOrderRepository) MonthlyRevenue(_ context.Context, months int) ([]order.RevenuePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.RevenueError != nil {
		return nil, m.RevenueError
	}
	if len(m.Revenue) > months {
		return append([]order.RevenuePoint(nil), m.Revenue[len(m.Revenue)-months:]...), nil
	}
	return append([]order.RevenuePoint(nil), m.Revenue...), nil
}

// Len returns the number of stored orders.
func (m *MockOrderRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// MockOrderNotifier records notified orders on a channel.
type MockOrderNotifier struct {
	Notified chan *order.Order
	Err      error
}

func NewMockOrderNotifier() *MockOrderNotifier {
	return &MockOrderNotifier{Notified: make(chan *order.Order, 16)}
}

func (m *MockOrderNotifier) NotifyOrderCreated(_ context.Context, o *order.Order) error {
	m.Notified <- o
	return m.Err
}

// MockStatsCache is an in-memory dashboard stats cache.
type MockStatsCache struct {
	mu       sync.Mutex
	stats    *order.Stats
	GetError error
	SetCalls int
}

func (m *MockStatsCache) Get(context.Context) (*order.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.stats == nil {
		return nil, nil
	}
	s := *m.stats
	return &s, nil
}

func (m *MockStatsCache) Set(_ context.Context, stats *order.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	s := *stats
	m.stats = &s
	return nil
}

func (m *MockStatsCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = nil
	return nil
}

// MockLogger is a mock implementation of Logger for testing.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// LogEntry records a log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func NewMockLogger() *MockLogger {
	return &MockLogger{entries: make([]LogEntry, 0)}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.log("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)  { m.log("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.log("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any) { m.log("ERROR", msg, args...) }

func (m *MockLogger) With(args ...any) logger.Interface  { return m }
func (m *MockLogger) Named(name string) logger.Interface { return m }

func (m *MockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	m.log("DEBUG", msg, keysAndValues...)
}

func (m *MockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.log("INFO", msg, keysAndValues...)
}

func (m *MockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	m.log("WARN", msg, keysAndValues...)
}

func (m *MockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.log("ERROR", msg, keysAndValues...)
}

func (m *MockLogger) log(level, msg string, fields ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := LogEntry{
		Level:   level,
		Message: msg,
		Fields:  make(map[string]interface{}),
	}
	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			entry.Fields[key] = fields[i+1]
		}
	}
	m.entries = append(m.entries, entry)
}

// HasMessage reports whether msg was logged at level.
func (m *MockLogger) HasMessage(level, msg string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// Find returns the first entry logged at level with msg.
func (m *MockLogger) Find(level, msg string) (LogEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}
