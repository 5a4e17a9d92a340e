package backup

import (
	"context"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

// Repository reads and replaces whole collections. Replace methods are
// called only inside the restore transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUsers(ctx context.Context) ([]models.User, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListAuditEntries(ctx context.Context) ([]models.AuditEntry, error)
	ReplaceUsers(ctx context.Context, rows []models.User) error
	ReplaceProducts(ctx context.Context, rows []models.Product) error
	ReplaceCustomers(ctx context.Context, rows []models.Customer) error
	ReplaceOrders(ctx context.Context, rows []models.Order) error
	ReplaceCategories(ctx context.Context, rows []models.Category) error
	ReplaceDepartments(ctx context.Context, rows []models.Department) error
	ReplaceAuditEntries(ctx context.Context, rows []models.AuditEntry) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a backup repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var rows []models.Department
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ListAuditEntries(ctx context.Context) ([]models.AuditEntry, error) {
	var rows []models.AuditEntry
	return rows, r.db.WithContext(ctx).Find(&rows).Error
}

func (r *repository) ReplaceUsers(ctx context.Context, rows []models.User) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceProducts(ctx context.Context, rows []models.Product) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceCustomers(ctx context.Context, rows []models.Customer) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Customer{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceOrders(ctx context.Context, rows []models.Order) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceCategories(ctx context.Context, rows []models.Category) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceDepartments(ctx context.Context, rows []models.Department) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Department{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ReplaceAuditEntries(ctx context.Context, rows []models.AuditEntry) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.AuditEntry{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
