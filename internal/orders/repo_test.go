package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  number INTEGER NOT NULL,
  cashier TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  items TEXT,
  total INTEGER NOT NULL,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, number int64, customerID string, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:           uuid.NewString(),
		Number:       number,
		Cashier:      "Queequeg",
		CustomerID:   customerID,
		CustomerName: "Ishmael",
		Method:       enums.PaymentMethodTab,
		Status:       enums.OrderStatusCompleted,
		Items:        types.OrderItems{{ProductID: "coke", Name: "Coke", Price: 30, Qty: 2}},
		Total:        60,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryRoundTripPreservesItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	seeded := seedOrder(t, db, 1, "crew-1", time.Now())
	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, enums.OrderStatusCompleted, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Coke", found.Items[0].Name)
	assert.Equal(t, 30, found.Items[0].Price)
	assert.Equal(t, 2, found.Items[0].Qty)
	assert.Equal(t, "#0001", found.DisplayID())
}

func TestRepositoryFindByID_missing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCount(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	seedOrder(t, db, 1, "crew-1", now)
	seedOrder(t, db, 2, "crew-2", now)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryListByCustomer_newestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	older := seedOrder(t, db, 1, "crew-1", now.Add(-time.Hour))
	newer := seedOrder(t, db, 2, "crew-1", now)
	seedOrder(t, db, 3, "crew-2", now)

	list, err := repo.ListByCustomer(context.Background(), "crew-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRepositoryListInWindow(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	inside := seedOrder(t, db, 1, "crew-1", base)
	seedOrder(t, db, 2, "crew-1", base.AddDate(0, 0, -2))
	seedOrder(t, db, 3, "crew-1", base.AddDate(0, 0, 1))

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	list, err := repo.ListInWindow(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inside.ID, list[0].ID)
}

func TestRepositoryUpdatePersistsStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(t, db, 1, "crew-1", time.Now())
	order.Status = enums.OrderStatusDeleted
	require.NoError(t, repo.Update(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDeleted, found.Status)
}
