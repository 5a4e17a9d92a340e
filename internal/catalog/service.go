package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/csvutil"
	"github.com/harborline/slopchest-backend/pkg/db/models"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// Service exposes product and category management for the store catalog.
// Stock movement at sale time does not go through here; the order engine
// debits stock directly inside its own transaction.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ImportProductsCSV(ctx context.Context, r io.Reader) (int, error)
}

type service struct {
	repo Repository
}

// ProductInput carries the fields a manager can set on a product.
type ProductInput struct {
	ID       string
	Name     string
	Price    int
	Category string
	Stock    int
	Barcode  string
	OnSale   bool
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:       input.ID,
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
		Stock:    input.Stock,
		Barcode:  input.Barcode,
		OnSale:   input.OnSale,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := s.ensureCategory(ctx, input.Category); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Category = input.Category
	product.Stock = input.Stock
	product.Barcode = input.Barcode
	product.OnSale = input.OnSale

	if err := s.ensureCategory(ctx, input.Category); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// ImportProductsCSV bulk-loads products from a header-rowed CSV file.
// Rows without a name are rejected as a format error before anything is
// written. Returns the number of imported products.
func (s *service) ImportProductsCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := csvutil.ReadRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "csv file has no data rows")
	}

	products := make([]*models.Product, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row["name"]) == "" {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: product name is required", i+1))
		}
		product := &models.Product{
			ID:       strings.TrimSpace(row["id"]),
			Name:     strings.TrimSpace(row["name"]),
			Category: strings.TrimSpace(row["category"]),
			Price:    csvutil.ParseInt(row["price"]),
			Stock:    csvutil.ParseInt(row["stock"]),
			Barcode:  strings.TrimSpace(row["barcode"]),
			OnSale:   true,
		}
		if product.ID == "" {
			product.ID = uuid.NewString()
		}
		products = append(products, product)
	}

	for _, product := range products {
		if err := s.ensureCategory(ctx, product.Category); err != nil {
			return 0, err
		}
		if err := s.repo.CreateProduct(ctx, product); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import product")
		}
	}
	return len(products), nil
}

// ensureCategory registers a category name the first time it appears, the
// same way typing a new category into the product form creates it.
func (s *service) ensureCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := s.repo.FindCategoryByName(ctx, name)
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup category")
	}
	category := &models.Category{ID: uuid.NewString(), Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	return nil
}

