package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  category TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  barcode TEXT,
  on_sale INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at TIMESTAMP,
  updated_at TIMESTAMP
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(categories).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:     uuid.NewString(),
		Name:   name,
		Price:  price,
		Stock:  stock,
		OnSale: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryProductRoundTrip(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seeded := seedProduct(t, db, "Coke", 30, 24)
	found, err := repo.FindProductByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coke", found.Name)
	assert.Equal(t, 30, found.Price)
	assert.Equal(t, 24, found.Stock)
	assert.True(t, found.OnSale)
}

func TestRepositoryListProducts_sortedByName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "Soap", 15, 10)
	seedProduct(t, db, "Coke", 30, 24)

	list, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Coke", list[0].Name)
	assert.Equal(t, "Soap", list[1].Name)
}

func TestRepositoryCategoryByName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := &models.Category{ID: uuid.NewString(), Name: "Drinks"}
	require.NoError(t, repo.CreateCategory(context.Background(), category))

	found, err := repo.FindCategoryByName(context.Background(), "Drinks")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	_, err = repo.FindCategoryByName(context.Background(), "Tools")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStockDebiter(t *testing.T) {
	db := setupCatalogTestDB(t)
	debiter := NewStockDebiter()

	product := seedProduct(t, db, "Coke", 30, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return debiter.Debit(context.Background(), tx, product.ID, 2)
	})
	require.NoError(t, err)

	var stock int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, 0, stock)
}

func TestStockDebiter_driftsNegativeOnOversell(t *testing.T) {
	db := setupCatalogTestDB(t)
	debiter := NewStockDebiter()

	product := seedProduct(t, db, "Coke", 30, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return debiter.Debit(context.Background(), tx, product.ID, 3)
	})
	require.NoError(t, err)

	var stock int
	require.NoError(t, db.Raw("SELECT stock FROM products WHERE id = ?", product.ID).Scan(&stock).Error)
	assert.Equal(t, -2, stock)
}

func TestStockDebiter_requiresTransaction(t *testing.T) {
	debiter := NewStockDebiter()
	err := debiter.Debit(context.Background(), nil, "coke", 1)
	require.Error(t, err)
}

func TestStockDebiter_zeroQtyIsNoop(t *testing.T) {
	debiter := NewStockDebiter()
	require.NoError(t, debiter.Debit(context.Background(), nil, "coke", 0))
}
