package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/types"
)

// Service manages the per-cashier staging cart. One line per product:
// repeated adds fold into the existing line, and a quantity at or below
// zero removes it. Prices are snapshotted when the line is first added so
// a catalog edit mid-sale cannot change what the customer was quoted.
type Service interface {
	Get(ctx context.Context, userID string) (*models.CartRecord, error)
	SetCustomer(ctx context.Context, userID, customerID string) (*models.CartRecord, error)
	AddLine(ctx context.Context, userID, productID string, qty int) (*models.CartRecord, error)
	SetLineQty(ctx context.Context, userID, productID string, qty int) (*models.CartRecord, error)
	RemoveLine(ctx context.Context, userID, productID string) (*models.CartRecord, error)
	Clear(ctx context.Context, userID string) error
}

// ProductLoader resolves the product a line is added from.
type ProductLoader interface {
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
}

// CustomerLoader resolves the crew member a cart is charged to.
type CustomerLoader interface {
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
}

type service struct {
	repo      Repository
	products  ProductLoader
	customers CustomerLoader
}

// NewService wires a cart service with its repository and lookups.
func NewService(repo Repository, products ProductLoader, customers CustomerLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	return &service{repo: repo, products: products, customers: customers}, nil
}

// Get returns the cashier's staged cart, or an empty one if nothing has
// been staged yet.
func (s *service) Get(ctx context.Context, userID string) (*models.CartRecord, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	record, err := s.repo.FindByUserID(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		return &models.CartRecord{ID: uuid.NewString(), UserID: userID, Lines: types.OrderItems{}}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

func (s *service) SetCustomer(ctx context.Context, userID, customerID string) (*models.CartRecord, error) {
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindCustomerByID(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	record.CustomerID = customer.ID
	record.CustomerName = customer.Name
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return record, nil
}

// AddLine folds qty into the product's line, creating it with the current
// catalog price on first add.
func (s *service) AddLine(ctx context.Context, userID, productID string, qty int) (*models.CartRecord, error) {
	if qty == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be non-zero")
	}
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := record.Lines.IndexOf(productID)
	if idx < 0 {
		product, err := s.products.FindProductByID(ctx, productID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if qty < 0 {
			return record, nil
		}
		record.Lines = append(record.Lines, types.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Qty:       qty,
		})
	} else {
		record.Lines[idx].Qty += qty
		if record.Lines[idx].Qty <= 0 {
			record.Lines = append(record.Lines[:idx], record.Lines[idx+1:]...)
		}
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return record, nil
}

// SetLineQty overwrites a line's quantity; zero or less removes the line.
func (s *service) SetLineQty(ctx context.Context, userID, productID string, qty int) (*models.CartRecord, error) {
	record, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := record.Lines.IndexOf(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if qty <= 0 {
		record.Lines = append(record.Lines[:idx], record.Lines[idx+1:]...)
	} else {
		record.Lines[idx].Qty = qty
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return record, nil
}

func (s *service) RemoveLine(ctx context.Context, userID, productID string) (*models.CartRecord, error) {
	return s.SetLineQty(ctx, userID, productID, 0)
}

func (s *service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
