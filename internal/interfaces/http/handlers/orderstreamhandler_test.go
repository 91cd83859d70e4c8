package handlers

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylo-cloud/fylo/internal/application/order/services"
	ordertestutil "github.com/fylo-cloud/fylo/internal/application/order/testutil"
	"github.com/fylo-cloud/fylo/internal/domain/order"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/infrastructure/pubsub"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/handlers/testutil"
)

// fakeStream is an OrderStream driven directly by the test.
type fakeStream struct {
	mu      sync.Mutex
	state   services.State
	err     error
	view    []*order.Order
	changed chan struct{}
	closed  bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{state: services.StateUninitialized, changed: make(chan struct{}, 1)}
}

func (f *fakeStream) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = services.StateLoading
	return nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStream) CurrentView() []*order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeStream) State() services.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeStream) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeStream) Changed() <-chan struct{} { return f.changed }

func (f *fakeStream) update(state services.State, err error) {
	f.mu.Lock()
	f.state = state
	f.err = err
	f.mu.Unlock()
	f.changed <- struct{}{}
}

func streamServer(t *testing.T, handler *OrderStreamHandler) *httptest.Server {
	t.Helper()
	engine := gin.New()
	engine.GET("/stream", func(c *gin.Context) {
		testutil.SetAdminContext(c, "admin")
		c.Next()
	}, handler.Stream)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

// openStream connects and forwards every non-empty SSE line.
func openStream(t *testing.T, url string) (*http.Response, <-chan string, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				lines <- line
			}
		}
	}()

	t.Cleanup(func() {
		cancel()
		_ = resp.Body.Close()
	})
	return resp, lines, cancel
}

// nextEvent returns the data line of the next event with the given name.
func nextEvent(t *testing.T, lines <-chan string, name string) string {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended before %q event", name)
			if line != "event: "+name {
				continue
			}
			select {
			case data := <-lines:
				return strings.TrimPrefix(data, "data: ")
			case <-timeout:
				t.Fatalf("no data for %q event", name)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q event", name)
		}
	}
}

func testOrder(t *testing.T, orderID string, createdAt time.Time) *order.Order {
	t.Helper()
	cfg, err := vo.NewResourceConfiguration("france", "ubuntu-22.04", 4, 8, 200, "monthly")
	require.NoError(t, err)
	o, err := order.ReconstructOrder(orderID, "VPS", cfg, 50, 50, order.ClientInfo{}, order.StatusActive, createdAt, createdAt)
	require.NoError(t, err)
	return o
}

func TestOrderStreamHandler_StorageDisabled(t *testing.T) {
	handler := NewOrderStreamHandler(func() OrderStream { return newFakeStream() }, false, 0, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/orders/stream", nil)
	handler.Stream(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "order storage is not configured")
}

func TestOrderStreamHandler_LiveUpdates(t *testing.T) {
	repo := ordertestutil.NewMockOrderRepository()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.Add(testOrder(t, "ord_existing", base))

	feed := pubsub.NewMemoryChangeFeed(testutil.NewMockLogger())
	factory := NewReconcilerFactory(repo, feed, testutil.NewMockLogger(), 100)
	handler := NewOrderStreamHandler(factory, true, 0, testutil.NewMockLogger())
	srv := streamServer(t, handler)

	resp, lines, _ := openStream(t, srv.URL+"/stream")
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	first := nextEvent(t, lines, "orders")
	assert.Contains(t, first, `"state":"live"`)
	assert.Contains(t, first, "ord_existing")

	require.NoError(t, feed.Publish(context.Background(), order.NewInsertEvent(testOrder(t, "ord_new", base.Add(time.Hour)))))

	second := nextEvent(t, lines, "orders")
	assert.Contains(t, second, "ord_new")
	assert.Contains(t, second, "ord_existing")
	assert.Less(t, strings.Index(second, "ord_new"), strings.Index(second, "ord_existing"), "newest first")

	require.NoError(t, feed.Publish(context.Background(), order.NewDeleteEvent("ord_existing")))

	third := nextEvent(t, lines, "orders")
	assert.Contains(t, third, "ord_new")
	assert.NotContains(t, third, "ord_existing")
}

func TestReconcilerFactory_ZeroLimitLoadsEveryOrder(t *testing.T) {
	repo := ordertestutil.NewMockOrderRepository()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	const total = 620
	for i := 0; i < total; i++ {
		repo.Add(testOrder(t, fmt.Sprintf("ord_%04d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	feed := pubsub.NewMemoryChangeFeed(testutil.NewMockLogger())
	stream := NewReconcilerFactory(repo, feed, testutil.NewMockLogger(), 0)()
	t.Cleanup(func() { _ = stream.Close() })

	require.NoError(t, stream.Start(context.Background()))
	require.Eventually(t, func() bool { return stream.State() == services.StateLive }, 2*time.Second, 5*time.Millisecond)

	view := stream.CurrentView()
	require.Len(t, view, total)
	assert.Equal(t, "ord_0619", view[0].ID())
	assert.Equal(t, "ord_0000", view[total-1].ID(), "oldest order is kept")
}

func TestOrderStreamHandler_StaleReportedOncePerError(t *testing.T) {
	stream := newFakeStream()
	handler := NewOrderStreamHandler(func() OrderStream { return stream }, true, 0, testutil.NewMockLogger())
	srv := streamServer(t, handler)

	_, lines, _ := openStream(t, srv.URL+"/stream")

	broken := &order.StreamError{Op: "receive", Err: stderrors.New("connection reset")}
	stream.update(services.StateLive, broken)
	assert.Contains(t, nextEvent(t, lines, "stale"), "connection reset")
	assert.Contains(t, nextEvent(t, lines, "orders"), `"state":"live"`)

	// Same error again: only the view is resent.
	stream.update(services.StateLive, broken)
	line := <-lines
	assert.Equal(t, "event: orders", line)
}

func TestOrderStreamHandler_PerAdminLimit(t *testing.T) {
	handler := NewOrderStreamHandler(func() OrderStream { return newFakeStream() }, true, 1, testutil.NewMockLogger())
	srv := streamServer(t, handler)

	_, lines, _ := openStream(t, srv.URL+"/stream")
	select {
	case line := <-lines:
		assert.Equal(t, ": connected", line)
	case <-time.After(5 * time.Second):
		t.Fatal("first stream did not connect")
	}

	resp, err := http.Get(srv.URL + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestOrderStreamHandler_CloseEndsStreams(t *testing.T) {
	stream := newFakeStream()
	handler := NewOrderStreamHandler(func() OrderStream { return stream }, true, 0, testutil.NewMockLogger())
	srv := streamServer(t, handler)

	_, lines, _ := openStream(t, srv.URL+"/stream")
	select {
	case line := <-lines:
		assert.Equal(t, ": connected", line)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not connect")
	}

	handler.Close()

	select {
	case _, ok := <-lines:
		assert.False(t, ok, "stream should end without further events")
	case <-time.After(5 * time.Second):
		t.Fatal("stream still open after Close")
	}
	stream.mu.Lock()
	assert.True(t, stream.closed)
	stream.mu.Unlock()

	resp, err := http.Get(srv.URL + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
