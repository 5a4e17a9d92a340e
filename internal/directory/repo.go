package directory

import (
	"context"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

// Repository is the persistence surface for customers and departments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateDepartment(ctx context.Context, department *models.Department) error
	FindDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a directory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) DeleteCustomer(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}

func (r *repository) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) CreateDepartment(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *repository) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *repository) DeleteDepartment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id).Error
}
