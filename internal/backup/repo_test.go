package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

func setupBackupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0,
  barcode TEXT NOT NULL DEFAULT '',
  on_sale BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  department TEXT NOT NULL DEFAULT '',
  balance INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestBackupRepositoryReplaceSwapsCollection(t *testing.T) {
	db := setupBackupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{ID: "old", Name: "Hardtack", Price: 5}).Error)

	incoming := []models.Product{
		{ID: "coke", Name: "Coke", Price: 30, Stock: 10, OnSale: true},
		{ID: "soap", Name: "Soap", Price: 12, Stock: 4, OnSale: true},
	}
	require.NoError(t, repo.ReplaceProducts(ctx, incoming))

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "old", row.ID)
	}
}

func TestBackupRepositoryReplaceWithEmptySetClearsTable(t *testing.T) {
	db := setupBackupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Customer{ID: "c-1", Name: "Ishmael", Balance: 60}).Error)
	require.NoError(t, repo.ReplaceCustomers(ctx, nil))

	rows, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBackupRepositoryReplaceRollsBackWithTx(t *testing.T) {
	db := setupBackupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Customer{ID: "c-1", Name: "Ishmael", Balance: 60}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).ReplaceCustomers(ctx, []models.Customer{{ID: "c-2", Name: "Queequeg"}}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	rows, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c-1", rows[0].ID)
}
