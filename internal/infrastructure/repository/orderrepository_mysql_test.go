package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func TestOrderRepository_MySQL_CreateFailureIsWrapped(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrderRepository(db, "EUR")

	mock.ExpectExec("INSERT INTO `hosting_orders`").
		WillReturnError(errors.New("Error 1045: access denied"))

	err := repo.Create(context.Background(), newTestOrder(t, "monthly", 50, order.ClientInfo{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order")
	assert.Contains(t, err.Error(), "access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_MySQL_GetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrderRepository(db, "EUR")

	mock.ExpectQuery("SELECT \\* FROM `hosting_orders` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "ord_missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_MySQL_DeleteNoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrderRepository(db, "EUR")

	mock.ExpectExec("DELETE FROM `hosting_orders` WHERE id = \\?").
		WithArgs("ord_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "ord_missing"), order.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_MySQL_Stats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrderRepository(db, "EUR")

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(CASE WHEN status = \\?").
		WithArgs("active", "active").
		WillReturnRows(sqlmock.NewRows([]string{"mrr", "active_orders", "total_orders", "unique_clients"}).
			AddRow(99.5, 2, 3, 2))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &order.Stats{MRR: 99.5, ActiveOrders: 2, TotalOrders: 3, UniqueClients: 2}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyingOrderRepository_MySQL_NoEventOnFailedCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	feed := &recordingFeed{}
	repo := NewNotifyingOrderRepository(NewOrderRepository(db, "EUR"), feed, logger.NewNopLogger())

	mock.ExpectExec("INSERT INTO `hosting_orders`").
		WillReturnError(errors.New("Error 1213: deadlock"))

	assert.Error(t, repo.Create(context.Background(), newTestOrder(t, "monthly", 50, order.ClientInfo{})))
	assert.Empty(t, feed.events)
}
