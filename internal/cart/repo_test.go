package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/types"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  lines TEXT,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestCartRepositoryRoundTripsLines(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.CartRecord{
		ID:           uuid.NewString(),
		UserID:       "session-1",
		CustomerID:   "c-1",
		CustomerName: "Ishmael",
		Lines: types.OrderItems{
			{ProductID: "coke", Name: "Coke", Price: 30, Qty: 2},
		},
	}
	require.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindByUserID(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", found.CustomerID)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, 30, found.Lines[0].Price)
	assert.Equal(t, 60, found.Total())
}

func TestCartRepositorySaveUpdatesExistingRecord(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.CartRecord{ID: uuid.NewString(), UserID: "session-1"}
	require.NoError(t, repo.Save(ctx, record))

	record.CustomerID = "c-2"
	record.Lines = types.OrderItems{{ProductID: "soap", Name: "Soap", Price: 12, Qty: 1}}
	require.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindByUserID(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "c-2", found.CustomerID)
	assert.Equal(t, 12, found.Total())
}

func TestCartRepositoryMissingSessionReturnsNotFound(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByUserID(context.Background(), "session-unknown")
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestCartRepositoryDeleteByUserID(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.CartRecord{ID: uuid.NewString(), UserID: "session-1"}))
	require.NoError(t, repo.DeleteByUserID(ctx, "session-1"))

	_, err := repo.FindByUserID(ctx, "session-1")
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	// Deleting an absent session is a no-op.
	require.NoError(t, repo.DeleteByUserID(ctx, "session-1"))
}
