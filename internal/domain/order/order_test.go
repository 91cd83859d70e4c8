package order

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/fylo-cloud/fylo/internal/domain/order/valueobjects"
)

func testConfig(period vo.BillingPeriod) vo.ResourceConfiguration {
	return vo.ResourceConfiguration{
		Location:        vo.LocationFrance,
		OperatingSystem: vo.OSUbuntu2204,
		Cores:           4,
		RAMGb:           8,
		StorageGb:       200,
		BillingPeriod:   period,
	}
}

func TestNewOrder(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingMonthly), 50, ClientInfo{Email: " ana@example.com ", IP: "203.0.113.7"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(o.ID(), "ord_"))
	assert.Equal(t, "VPS 4 vCPU / 8GB RAM", o.Name())
	assert.Equal(t, 50.0, o.QuotedPrice())
	assert.Equal(t, 50.0, o.MonthlyRevenue())
	assert.Equal(t, "ana@example.com", o.Client().Email)
	assert.Equal(t, StatusActive, o.Status())
	assert.Equal(t, time.UTC, o.CreatedAt().Location())
}

func TestNewOrder_AnnualRevenueIsMonthlyEquivalent(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingAnnual), 540, ClientInfo{Name: "Ana"})
	require.NoError(t, err)

	assert.Equal(t, "Ana", o.Name())
	assert.Equal(t, 540.0, o.QuotedPrice())
	assert.InDelta(t, 45.0, o.MonthlyRevenue(), 1e-9)
}

func TestNewOrder_Rejects(t *testing.T) {
	_, err := NewOrder(testConfig(vo.BillingMonthly), -1, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewOrder(testConfig(vo.BillingMonthly), math.NaN(), ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	incomplete := testConfig(vo.BillingMonthly)
	incomplete.Location = ""
	_, err = NewOrder(incomplete, 10, ClientInfo{})
	assert.ErrorIs(t, err, vo.ErrIncompleteConfiguration)
}

func TestOrder_ChangeStatus(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingMonthly), 50, ClientInfo{})
	require.NoError(t, err)
	before := o.UpdatedAt()

	time.Sleep(time.Millisecond)
	require.NoError(t, o.ChangeStatus(StatusSuspended))
	assert.Equal(t, StatusSuspended, o.Status())
	assert.True(t, o.UpdatedAt().After(before))

	assert.Error(t, o.ChangeStatus("paused"))
}

func TestOrder_CloneIsIndependent(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingMonthly), 50, ClientInfo{})
	require.NoError(t, err)

	c := o.Clone()
	require.NoError(t, c.ChangeStatus(StatusCancelled))
	assert.Equal(t, StatusActive, o.Status())
}

func TestReconstructOrder(t *testing.T) {
	_, err := ReconstructOrder("", "x", testConfig(vo.BillingMonthly), 1, 1, ClientInfo{}, StatusActive, time.Now(), time.Now())
	assert.Error(t, err)

	_, err = ReconstructOrder("ord_1", "x", testConfig(vo.BillingMonthly), 1, 1, ClientInfo{}, "paused", time.Now(), time.Now())
	assert.Error(t, err)
}

func TestChangeEvent_Validate(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingMonthly), 50, ClientInfo{})
	require.NoError(t, err)

	assert.NoError(t, NewInsertEvent(o).Validate())
	assert.NoError(t, NewUpdateEvent(o).Validate())
	assert.NoError(t, NewDeleteEvent(o.ID()).Validate())

	assert.Error(t, ChangeEvent{Type: "truncate", ID: "ord_1"}.Validate())
	assert.Error(t, ChangeEvent{Type: ChangeInsert, ID: "ord_1"}.Validate())
	assert.Error(t, ChangeEvent{Type: ChangeDelete}.Validate())
	assert.Error(t, ChangeEvent{Type: ChangeUpdate, ID: "ord_other", Record: o}.Validate())
}

func TestChangeEvent_SnapshotsRecord(t *testing.T) {
	o, err := NewOrder(testConfig(vo.BillingMonthly), 50, ClientInfo{})
	require.NoError(t, err)

	ev := NewInsertEvent(o)
	require.NoError(t, o.ChangeStatus(StatusCancelled))
	assert.Equal(t, StatusActive, ev.Record.Status())
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("connection refused")
	sub := &SubmissionError{Reason: "connection refused", Err: cause}
	assert.ErrorIs(t, sub, cause)
	assert.Equal(t, "order submission failed: connection refused", sub.Error())

	se := &StreamError{Op: "subscribe", Err: cause}
	assert.ErrorIs(t, se, cause)
	assert.Contains(t, se.Error(), "subscribe")
}
