package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/types"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS audit_entries (
  id INTEGER PRIMARY KEY,
  action TEXT NOT NULL,
  cashier TEXT NOT NULL,
  order_id TEXT NOT NULL,
  order_number INTEGER NOT NULL,
  total INTEGER NOT NULL,
  method TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  detail TEXT NOT NULL DEFAULT '',
  snapshot TEXT,
  created_at TIMESTAMP
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedEntry(t *testing.T, db *gorm.DB, id int64, action enums.AuditAction, created time.Time) *models.AuditEntry {
	t.Helper()

	entry := &models.AuditEntry{
		ID:           id,
		Action:       action,
		Cashier:      "Starbuck",
		OrderID:      "order-1",
		OrderNumber:  1,
		Total:        60,
		Method:       enums.PaymentMethodTab,
		CustomerName: "Ishmael",
		CreatedAt:    created,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositorySnapshotRoundTrip(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	entry := &models.AuditEntry{
		ID:           1000,
		Action:       enums.AuditActionModify,
		Cashier:      "Starbuck",
		OrderID:      "order-1",
		OrderNumber:  1,
		Total:        30,
		Method:       enums.PaymentMethodTab,
		CustomerName: "Ishmael",
		Detail:       "total changed from 60 to 30",
		Snapshot: &models.OrderSnapshot{
			OrderID: "order-1",
			Number:  1,
			Total:   60,
			Status:  enums.OrderStatusCompleted,
			Items:   types.OrderItems{{ProductID: "coke", Name: "Coke", Price: 30, Qty: 2}},
		},
	}
	require.NoError(t, repo.Create(context.Background(), entry))

	found, err := repo.FindByID(context.Background(), 1000)
	require.NoError(t, err)
	require.True(t, found.HasSnapshot())
	assert.Equal(t, 60, found.Snapshot.Total)
	require.Len(t, found.Snapshot.Items, 1)
	assert.Equal(t, 2, found.Snapshot.Items[0].Qty)
}

func TestRepositoryListByActionInWindow(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	older := seedEntry(t, db, 1, enums.AuditActionModify, base.Add(-time.Hour))
	newer := seedEntry(t, db, 2, enums.AuditActionModify, base)
	seedEntry(t, db, 3, enums.AuditActionDelete, base)
	seedEntry(t, db, 4, enums.AuditActionModify, base.AddDate(0, 0, 2))

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	list, err := repo.ListByActionInWindow(context.Background(), enums.AuditActionModify, from, to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRepositoryMaxID(t *testing.T) {
	db := setupAuditTestDB(t)
	repo := NewRepository(db)

	empty, err := repo.MaxID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty)

	seedEntry(t, db, 42, enums.AuditActionDelete, time.Now())
	max, err := repo.MaxID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), max)
}
