package backup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// FormatVersion is bumped whenever the document layout changes shape.
const FormatVersion = 1

// Document is the full-store JSON backup: every collection plus the
// format version and export timestamp.
type Document struct {
	Version     int                 `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Users       []models.User       `json:"users"`
	Products    []models.Product    `json:"products"`
	Customers   []models.Customer   `json:"customers"`
	Orders      []models.Order      `json:"orders"`
	Categories  []models.Category   `json:"categories"`
	Departments []models.Department `json:"departments"`
	Logs        []models.AuditEntry `json:"logs"`
}

// Service exports and restores the whole store. Restore replaces every
// collection inside one transaction: either the document lands completely
// or nothing changes.
type Service interface {
	Export(ctx context.Context) (*Document, error)
	Restore(ctx context.Context, doc *Document) error
}

// TxRunner starts a transaction and runs fn inside it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   Repository
	runner TxRunner
}

// NewService wires a backup service with its repository and transaction
// runner.
func NewService(repo Repository, runner TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("backup repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, runner: runner}, nil
}

func (s *service) Export(ctx context.Context) (*Document, error) {
	doc := &Document{Version: FormatVersion, ExportedAt: time.Now()}

	var err error
	if doc.Users, err = s.repo.ListUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export users")
	}
	if doc.Products, err = s.repo.ListProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export products")
	}
	if doc.Customers, err = s.repo.ListCustomers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export customers")
	}
	if doc.Orders, err = s.repo.ListOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export orders")
	}
	if doc.Categories, err = s.repo.ListCategories(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export categories")
	}
	if doc.Departments, err = s.repo.ListDepartments(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export departments")
	}
	if doc.Logs, err = s.repo.ListAuditEntries(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export logs")
	}
	return doc, nil
}

func (s *service) Restore(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "backup document rejected")
	}

	return s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceUsers(ctx, doc.Users); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore users")
		}
		if err := repo.ReplaceProducts(ctx, doc.Products); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore products")
		}
		if err := repo.ReplaceCustomers(ctx, doc.Customers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore customers")
		}
		if err := repo.ReplaceOrders(ctx, doc.Orders); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore orders")
		}
		if err := repo.ReplaceCategories(ctx, doc.Categories); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore categories")
		}
		if err := repo.ReplaceDepartments(ctx, doc.Departments); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore departments")
		}
		if err := repo.ReplaceAuditEntries(ctx, doc.Logs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore logs")
		}
		return nil
	})
}

// validateDocument checks the whole document before anything is written
// and reports every problem at once.
func validateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is empty")
	}

	var err error
	if doc.Version != FormatVersion {
		err = multierr.Append(err, fmt.Errorf("unsupported format version %d", doc.Version))
	}
	for i, user := range doc.Users {
		if user.ID == "" || user.Name == "" {
			err = multierr.Append(err, fmt.Errorf("users[%d]: id and name are required", i))
		}
		if !user.Role.IsValid() {
			err = multierr.Append(err, fmt.Errorf("users[%d]: invalid role %q", i, user.Role))
		}
	}
	for i, product := range doc.Products {
		if product.ID == "" || product.Name == "" {
			err = multierr.Append(err, fmt.Errorf("products[%d]: id and name are required", i))
		}
	}
	for i, customer := range doc.Customers {
		if customer.ID == "" || customer.Name == "" {
			err = multierr.Append(err, fmt.Errorf("customers[%d]: id and name are required", i))
		}
	}
	for i, order := range doc.Orders {
		if order.ID == "" {
			err = multierr.Append(err, fmt.Errorf("orders[%d]: id is required", i))
		}
		if !order.Method.IsValid() {
			err = multierr.Append(err, fmt.Errorf("orders[%d]: invalid method %q", i, order.Method))
		}
		if !order.Status.IsValid() {
			err = multierr.Append(err, fmt.Errorf("orders[%d]: invalid status %q", i, order.Status))
		}
	}
	for i, entry := range doc.Logs {
		if entry.ID == 0 || entry.OrderID == "" {
			err = multierr.Append(err, fmt.Errorf("logs[%d]: id and order id are required", i))
		}
		if !entry.Action.IsValid() {
			err = multierr.Append(err, fmt.Errorf("logs[%d]: invalid action %q", i, entry.Action))
		}
	}
	return err
}
