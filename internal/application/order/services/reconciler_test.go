package services

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
	"github.com/fylo-cloud/fylo/internal/infrastructure/pubsub"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

const waitTimeout = 2 * time.Second

// gatedReader blocks the bulk read until release is closed.
type gatedReader struct {
	release chan struct{}
	records []*order.Order
	err     error
	calls   atomic.Int32
	limit   atomic.Int32
}

func newGatedReader(records ...*order.Order) *gatedReader {
	return &gatedReader{release: make(chan struct{}), records: records}
}

func (g *gatedReader) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	g.calls.Add(1)
	g.limit.Store(int32(limit))
	<-g.release
	return g.records, g.err
}

func (g *gatedReader) open() { close(g.release) }

// manualSubscription lets a test end the stream itself.
type manualSubscription struct {
	ch     chan order.ChangeEvent
	once   sync.Once
	closed atomic.Bool
}

func (m *manualSubscription) Events() <-chan order.ChangeEvent { return m.ch }
func (m *manualSubscription) Close() error {
	m.closed.Store(true)
	m.end()
	return nil
}

// end simulates the upstream dropping the stream.
func (m *manualSubscription) end() { m.once.Do(func() { close(m.ch) }) }

type manualFeed struct {
	sub *manualSubscription
	err error
}

func (f *manualFeed) Publish(ctx context.Context, ev order.ChangeEvent) error { return nil }
func (f *manualFeed) Subscribe(ctx context.Context) (order.ChangeSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func mkOrder(t *testing.T, cores int) *order.Order {
	t.Helper()
	o, err := order.NewOrder(vo.ResourceConfiguration{
		Location:        vo.LocationFrance,
		OperatingSystem: vo.OSUbuntu2204,
		Cores:           cores,
		RAMGb:           8,
		StorageGb:       200,
		BillingPeriod:   vo.BillingMonthly,
	}, float64(cores*3+38), order.ClientInfo{})
	require.NoError(t, err)
	return o
}

func withStatus(t *testing.T, o *order.Order, s order.Status) *order.Order {
	t.Helper()
	c := o.Clone()
	require.NoError(t, c.ChangeStatus(s))
	return c
}

func ids(records []*order.Order) []string {
	out := make([]string, len(records))
	for i, o := range records {
		out[i] = o.ID()
	}
	return out
}

func find(records []*order.Order, id string) *order.Order {
	for _, o := range records {
		if o.ID() == id {
			return o
		}
	}
	return nil
}

func newMemoryReconciler(t *testing.T, reader SnapshotReader) (*ChangeStreamReconciler, *pubsub.MemoryChangeFeed) {
	t.Helper()
	feed := pubsub.NewMemoryChangeFeed(logger.NewNopLogger())
	r := NewChangeStreamReconciler(reader, feed, logger.NewNopLogger())
	t.Cleanup(func() { _ = r.Close() })
	return r, feed
}

func waitLive(t *testing.T, r *ChangeStreamReconciler) {
	t.Helper()
	require.Eventually(t, func() bool { return r.State() == StateLive }, waitTimeout, 5*time.Millisecond)
}

func waitContains(t *testing.T, r *ChangeStreamReconciler, id string) {
	t.Helper()
	require.Eventually(t, func() bool { return find(r.CurrentView(), id) != nil }, waitTimeout, 5*time.Millisecond)
}

func TestReconciler_UninitializedViewIsEmpty(t *testing.T) {
	r, _ := newMemoryReconciler(t, newGatedReader())

	assert.Equal(t, StateUninitialized, r.State())
	assert.NotNil(t, r.CurrentView())
	assert.Empty(t, r.CurrentView())
	assert.NoError(t, r.Err())
}

func TestReconciler_SeedsFromSnapshotDeduplicated(t *testing.T) {
	a, b := mkOrder(t, 4), mkOrder(t, 8)
	staleA := withStatus(t, a, order.StatusCancelled)
	reader := newGatedReader(a, b, staleA)
	r, _ := newMemoryReconciler(t, reader)

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, StateLoading, r.State())
	assert.Empty(t, r.CurrentView())

	reader.open()
	waitLive(t, r)

	view := r.CurrentView()
	assert.Equal(t, []string{a.ID(), b.ID()}, ids(view))
	assert.Equal(t, order.StatusActive, find(view, a.ID()).Status(), "first occurrence in the snapshot wins")
	assert.NoError(t, r.Err())
}

func TestReconciler_UpdateBeforeSnapshotWins(t *testing.T) {
	x, y := mkOrder(t, 4), mkOrder(t, 6)
	reader := newGatedReader(y, x)
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))

	suspended := withStatus(t, x, order.StatusSuspended)
	require.NoError(t, feed.Publish(ctx, order.NewUpdateEvent(suspended)))
	waitContains(t, r, x.ID())
	assert.Equal(t, StateLoading, r.State(), "events apply before the snapshot resolves")

	reader.open()
	waitLive(t, r)

	view := r.CurrentView()
	assert.Equal(t, []string{x.ID(), y.ID()}, ids(view))
	assert.Equal(t, order.StatusSuspended, find(view, x.ID()).Status())
}

func TestReconciler_DeleteBeforeSnapshotIsNotResurrected(t *testing.T) {
	x, y, marker := mkOrder(t, 4), mkOrder(t, 6), mkOrder(t, 10)
	reader := newGatedReader(x, y)
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))

	require.NoError(t, feed.Publish(ctx, order.NewDeleteEvent(x.ID())))
	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(marker)))
	waitContains(t, r, marker.ID())

	reader.open()
	waitLive(t, r)

	assert.Equal(t, []string{marker.ID(), y.ID()}, ids(r.CurrentView()))
}

func TestReconciler_ReinsertAfterDeleteWhileLoading(t *testing.T) {
	x := mkOrder(t, 4)
	reader := newGatedReader(x)
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))

	require.NoError(t, feed.Publish(ctx, order.NewDeleteEvent(x.ID())))
	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(x)))
	waitContains(t, r, x.ID())

	reader.open()
	waitLive(t, r)
	assert.Equal(t, []string{x.ID()}, ids(r.CurrentView()))
}

func TestReconciler_LiveMergeOrdersByArrival(t *testing.T) {
	a, b := mkOrder(t, 4), mkOrder(t, 6)
	reader := newGatedReader(b, a)
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	reader.open()
	waitLive(t, r)
	require.Equal(t, []string{b.ID(), a.ID()}, ids(r.CurrentView()))

	c := mkOrder(t, 8)
	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(c)))
	// The update touches the oldest record; arrival, not created_at, decides position.
	require.NoError(t, feed.Publish(ctx, order.NewUpdateEvent(withStatus(t, a, order.StatusSuspended))))
	require.Eventually(t, func() bool {
		v := r.CurrentView()
		return len(v) == 3 && v[0].ID() == a.ID()
	}, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{a.ID(), c.ID(), b.ID()}, ids(r.CurrentView()))

	require.NoError(t, feed.Publish(ctx, order.NewDeleteEvent(c.ID())))
	require.NoError(t, feed.Publish(ctx, order.NewDeleteEvent("ord_neverSeen1")))
	require.Eventually(t, func() bool { return len(r.CurrentView()) == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{a.ID(), b.ID()}, ids(r.CurrentView()))
	assert.NoError(t, r.Err())
}

func TestReconciler_AppliesEveryEventInOrder(t *testing.T) {
	reader := newGatedReader()
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	reader.open()
	waitLive(t, r)

	var want []string
	for i := 0; i < 300; i++ {
		o := mkOrder(t, 2+i%30)
		want = append([]string{o.ID()}, want...)
		require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(o)))
	}
	require.Eventually(t, func() bool { return len(r.CurrentView()) == 300 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, want, ids(r.CurrentView()))
}

func TestReconciler_CloseReleasesAndIgnoresLateSnapshot(t *testing.T) {
	x := mkOrder(t, 4)
	reader := newGatedReader(x)
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	require.Eventually(t, func() bool { return reader.calls.Load() == 1 }, waitTimeout, 5*time.Millisecond)
	require.Equal(t, 1, feed.SubscriberCount())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, StateClosed, r.State())
	assert.Equal(t, 0, feed.SubscriberCount())

	select {
	case <-r.Done():
	case <-time.After(waitTimeout):
		t.Fatal("pump did not stop after Close")
	}

	reader.open()
	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(mkOrder(t, 6))))
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StateClosed, r.State())
	assert.Empty(t, r.CurrentView())
	assert.ErrorIs(t, r.Start(ctx), ErrReconcilerClosed)
}

func TestReconciler_CloseBeforeStart(t *testing.T) {
	r, _ := newMemoryReconciler(t, newGatedReader())
	require.NoError(t, r.Close())

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed")
	}
	assert.ErrorIs(t, r.Start(context.Background()), ErrReconcilerClosed)
}

func TestReconciler_StartTwice(t *testing.T) {
	reader := newGatedReader()
	r, _ := newMemoryReconciler(t, reader)
	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrReconcilerStarted)
	reader.open()
}

func TestReconciler_SubscribeFailureKeepsSnapshot(t *testing.T) {
	x := mkOrder(t, 4)
	reader := newGatedReader(x)
	r := NewChangeStreamReconciler(reader, &manualFeed{err: errors.New("redis: connection refused")}, logger.NewNopLogger())
	defer r.Close()

	require.NoError(t, r.Start(context.Background()))
	reader.open()
	waitLive(t, r)

	var streamErr *order.StreamError
	require.ErrorAs(t, r.Err(), &streamErr)
	assert.Equal(t, "subscribe", streamErr.Op)
	assert.Equal(t, []string{x.ID()}, ids(r.CurrentView()))
}

func TestReconciler_StreamEndIsReportedNotFatal(t *testing.T) {
	x, y := mkOrder(t, 4), mkOrder(t, 6)
	sub := &manualSubscription{ch: make(chan order.ChangeEvent, 8)}
	reader := newGatedReader(x)
	r := NewChangeStreamReconciler(reader, &manualFeed{sub: sub}, logger.NewNopLogger())
	defer r.Close()

	require.NoError(t, r.Start(context.Background()))
	reader.open()
	waitLive(t, r)

	sub.ch <- order.NewInsertEvent(y)
	sub.end()

	require.Eventually(t, func() bool { return r.Err() != nil }, waitTimeout, 5*time.Millisecond)
	var streamErr *order.StreamError
	require.ErrorAs(t, r.Err(), &streamErr)
	assert.Equal(t, "receive", streamErr.Op)
	assert.ErrorIs(t, r.Err(), order.ErrFeedClosed)
	assert.Equal(t, StateLive, r.State())
	assert.Equal(t, []string{y.ID(), x.ID()}, ids(r.CurrentView()))
}

func TestReconciler_BulkReadFailureStillGoesLive(t *testing.T) {
	sub := &manualSubscription{ch: make(chan order.ChangeEvent, 8)}
	reader := newGatedReader()
	reader.err = errors.New("table missing")
	r := NewChangeStreamReconciler(reader, &manualFeed{sub: sub}, logger.NewNopLogger(), WithBulkLimit(250))
	defer r.Close()

	require.NoError(t, r.Start(context.Background()))
	reader.open()
	waitLive(t, r)
	assert.EqualValues(t, 250, reader.limit.Load())

	var streamErr *order.StreamError
	require.ErrorAs(t, r.Err(), &streamErr)
	assert.Equal(t, "bulk read", streamErr.Op)

	o := mkOrder(t, 4)
	sub.ch <- order.NewInsertEvent(o)
	waitContains(t, r, o.ID())
}

func TestReconciler_SkipsMalformedEvents(t *testing.T) {
	sub := &manualSubscription{ch: make(chan order.ChangeEvent, 8)}
	reader := newGatedReader()
	r := NewChangeStreamReconciler(reader, &manualFeed{sub: sub}, logger.NewNopLogger())
	defer r.Close()
	require.NoError(t, r.Start(context.Background()))
	reader.open()
	waitLive(t, r)

	marker := mkOrder(t, 4)
	sub.ch <- order.ChangeEvent{Type: order.ChangeInsert, ID: "ord_noRecord"}
	sub.ch <- order.NewInsertEvent(marker)
	waitContains(t, r, marker.ID())
	assert.Equal(t, []string{marker.ID()}, ids(r.CurrentView()))
}

func TestReconciler_ChangedSignals(t *testing.T) {
	reader := newGatedReader()
	r, feed := newMemoryReconciler(t, reader)
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	reader.open()
	waitLive(t, r)

	// Drain whatever loading produced.
	select {
	case <-r.Changed():
	default:
	}

	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(mkOrder(t, 4))))
	select {
	case <-r.Changed():
	case <-time.After(waitTimeout):
		t.Fatal("no change signal after event")
	}
}

func TestReconciler_ViewIsACopy(t *testing.T) {
	x := mkOrder(t, 4)
	reader := newGatedReader(x)
	r, _ := newMemoryReconciler(t, reader)
	require.NoError(t, r.Start(context.Background()))
	reader.open()
	waitLive(t, r)

	v := r.CurrentView()
	require.NoError(t, v[0].ChangeStatus(order.StatusCancelled))
	assert.Equal(t, order.StatusActive, r.CurrentView()[0].Status())
}

func TestReconciler_InstancesAreIndependent(t *testing.T) {
	feed := pubsub.NewMemoryChangeFeed(logger.NewNopLogger())
	readerA, readerB := newGatedReader(), newGatedReader()
	a := NewChangeStreamReconciler(readerA, feed, logger.NewNopLogger())
	b := NewChangeStreamReconciler(readerB, feed, logger.NewNopLogger())
	defer a.Close()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))
	readerA.open()
	readerB.open()
	waitLive(t, a)
	waitLive(t, b)

	o := mkOrder(t, 4)
	require.NoError(t, feed.Publish(ctx, order.NewInsertEvent(o)))
	waitContains(t, a, o.ID())
	waitContains(t, b, o.ID())

	require.NoError(t, a.Close())
	require.NoError(t, feed.Publish(ctx, order.NewDeleteEvent(o.ID())))
	require.Eventually(t, func() bool { return len(b.CurrentView()) == 0 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, StateLive, b.State())
}

func TestOrderView_InsertUpdateIdempotent(t *testing.T) {
	a, b := mkOrder(t, 4), mkOrder(t, 6)
	upd := order.NewUpdateEvent(withStatus(t, a, order.StatusSuspended))

	once := newOrderView()
	once.apply(order.NewInsertEvent(a))
	once.apply(order.NewInsertEvent(b))
	once.apply(upd)

	twice := newOrderView()
	twice.apply(order.NewInsertEvent(a))
	twice.apply(order.NewInsertEvent(a))
	twice.apply(order.NewInsertEvent(b))
	twice.apply(upd)
	twice.apply(upd)

	assert.Equal(t, ids(once.snapshot()), ids(twice.snapshot()))
	assert.Equal(t, order.StatusSuspended, find(twice.snapshot(), a.ID()).Status())
}

func TestOrderView_DeleteTwiceIsNoop(t *testing.T) {
	a, b := mkOrder(t, 4), mkOrder(t, 6)
	v := newOrderView()
	v.seed([]*order.Order{a, b})

	v.apply(order.NewDeleteEvent(a.ID()))
	after := ids(v.snapshot())
	v.apply(order.NewDeleteEvent(a.ID()))
	v.apply(order.NewDeleteEvent("ord_unknown123"))

	assert.Equal(t, after, ids(v.snapshot()))
	assert.Equal(t, []string{b.ID()}, after)
}

func TestOrderView_SeedAfterLiveDoesNotTombstone(t *testing.T) {
	a := mkOrder(t, 4)
	v := newOrderView()
	v.seed(nil)
	v.apply(order.NewDeleteEvent(a.ID()))
	v.apply(order.NewInsertEvent(a))
	assert.Equal(t, []string{a.ID()}, ids(v.snapshot()))
	assert.Nil(t, v.deleted)
}

// Events for distinct ids may interleave arbitrarily; as long as each id's own
// events keep their relative order the final set of records is the same.
func TestOrderView_DisjointIdsOrderIndependent(t *testing.T) {
	a, b, c, d := mkOrder(t, 4), mkOrder(t, 6), mkOrder(t, 8), mkOrder(t, 10)
	streams := [][]order.ChangeEvent{
		{order.NewInsertEvent(a), order.NewUpdateEvent(withStatus(t, a, order.StatusSuspended))},
		{order.NewInsertEvent(b), order.NewDeleteEvent(b.ID())},
		{order.NewInsertEvent(c)},
		{order.NewUpdateEvent(d), order.NewUpdateEvent(withStatus(t, d, order.StatusCancelled)), order.NewInsertEvent(withStatus(t, d, order.StatusActive))},
	}

	type row struct {
		id     string
		status order.Status
	}
	final := func(v *orderView) []row {
		var out []row
		for _, o := range v.snapshot() {
			out = append(out, row{o.ID(), o.Status()})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
		return out
	}

	reference := newOrderView()
	for _, s := range streams {
		for _, ev := range s {
			reference.apply(ev)
		}
	}
	want := final(reference)
	require.Len(t, want, 3)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		cursor := make([]int, len(streams))
		v := newOrderView()
		for remaining := 8; remaining > 0; remaining-- {
			var ready []int
			for i, s := range streams {
				if cursor[i] < len(s) {
					ready = append(ready, i)
				}
			}
			pick := ready[rng.Intn(len(ready))]
			v.apply(streams[pick][cursor[pick]])
			cursor[pick]++
		}
		assert.Equal(t, want, final(v), "trial %d", trial)
	}
}
