package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/application/order/services"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/infrastructure/metrics"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/middleware"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/utils"
)

const (
	// SSE keepalive interval
	sseKeepAliveInterval = 30 * time.Second
)

// OrderStream is one viewer's reconciled order view.
type OrderStream interface {
	Start(ctx context.Context) error
	Close() error
	CurrentView() []*order.Order
	State() services.State
	Err() error
	Changed() <-chan struct{}
}

// OrderStreamFactory builds a fresh stream per connection.
type OrderStreamFactory func() OrderStream

// NewReconcilerFactory adapts the reconciler constructor to a stream factory.
func NewReconcilerFactory(reader services.SnapshotReader, feed order.ChangeFeed, log logger.Interface, bulkLimit int) OrderStreamFactory {
	return func() OrderStream {
		return services.NewChangeStreamReconciler(reader, feed, log, services.WithBulkLimit(bulkLimit))
	}
}

type ordersEvent struct {
	State  string               `json:"state"`
	Orders []*orderdto.OrderDTO `json:"orders"`
}

type staleEvent struct {
	Error string `json:"error"`
}

// OrderStreamHandler pushes each admin's reconciled order list over SSE.
type OrderStreamHandler struct {
	newStream         OrderStreamFactory
	storageConfigured bool
	maxPerAdmin       int
	logger            logger.Interface

	mu     sync.Mutex
	active map[string]int

	done      chan struct{}
	closeOnce sync.Once
}

func NewOrderStreamHandler(newStream OrderStreamFactory, storageConfigured bool, maxPerAdmin int, log logger.Interface) *OrderStreamHandler {
	return &OrderStreamHandler{
		newStream:         newStream,
		storageConfigured: storageConfigured,
		maxPerAdmin:       maxPerAdmin,
		logger:            log,
		active:            make(map[string]int),
		done:              make(chan struct{}),
	}
}

// Close ends all open streams. New connections are refused afterwards.
func (h *OrderStreamHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Stream handles GET /api/admin/orders/stream
// Each connection gets its own reconciler. The full view is sent as an
// "orders" event after every change; a broken change stream is reported
// once per distinct error as a "stale" event while the view stays usable.
func (h *OrderStreamHandler) Stream(c *gin.Context) {
	if !h.storageConfigured {
		utils.PlainErrorResponse(c, errors.NewUnavailableError(order.ErrStorageNotConfigured.Error()))
		return
	}

	select {
	case <-h.done:
		utils.PlainErrorResponse(c, errors.NewUnavailableError("server is shutting down"))
		return
	default:
	}

	admin := c.GetString(middleware.ContextKeyAdminSubject)
	if !h.acquire(admin) {
		utils.ErrorResponse(c, http.StatusTooManyRequests, "too many open order streams")
		return
	}
	defer h.release(admin)

	connID := uuid.New().String()
	ctx := c.Request.Context()

	stream := h.newStream()
	if err := stream.Start(ctx); err != nil {
		h.logger.Errorw("failed to start order stream", "conn_id", connID, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to start order stream")
		return
	}
	defer func() {
		if err := stream.Close(); err != nil {
			h.logger.Warnw("order stream close error", "conn_id", connID, "error", err)
		}
	}()

	metrics.ActiveOrderStreams.Inc()
	defer metrics.ActiveOrderStreams.Dec()

	// Note: CORS headers are handled by global CORS middleware
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable Nginx buffering

	h.logger.Infow("order stream established", "conn_id", connID, "admin", admin)

	if _, err := c.Writer.WriteString(": connected\n\n"); err != nil {
		h.logger.Warnw("SSE initial write error", "conn_id", connID, "error", err)
		return
	}
	c.Writer.Flush()

	keepAliveTicker := time.NewTicker(sseKeepAliveInterval)
	defer keepAliveTicker.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			h.logger.Infow("order stream closed by client", "conn_id", connID)
			return

		case <-h.done:
			h.logger.Infow("order stream closed by server shutdown", "conn_id", connID)
			return

		case <-stream.Changed():
			if err := stream.Err(); err != nil && err != lastErr {
				lastErr = err
				if !h.write(c, "stale", staleEvent{Error: err.Error()}, connID) {
					return
				}
			}
			if stream.State() == services.StateLoading {
				continue
			}
			payload := ordersEvent{
				State:  stream.State().String(),
				Orders: orderdto.ToOrderDTOs(stream.CurrentView()),
			}
			if !h.write(c, "orders", payload, connID) {
				return
			}

		case <-keepAliveTicker.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				h.logger.Warnw("SSE keepalive error", "conn_id", connID, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

func (h *OrderStreamHandler) write(c *gin.Context, event string, payload any, connID string) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorw("failed to encode SSE event", "conn_id", connID, "event", event, "error", err)
		return true
	}
	if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
		h.logger.Warnw("SSE write error", "conn_id", connID, "error", err)
		return false
	}
	c.Writer.Flush()
	return true
}

func (h *OrderStreamHandler) acquire(admin string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxPerAdmin > 0 && h.active[admin] >= h.maxPerAdmin {
		return false
	}
	h.active[admin]++
	return true
}

func (h *OrderStreamHandler) release(admin string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active[admin] <= 1 {
		delete(h.active, admin)
		return
	}
	h.active[admin]--
}
