package directory

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

// Service exposes crew member and department management. Balance changes
// at sale time do not go through here; the order engine adjusts balances
// directly inside its own transaction.
type Service interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	ImportCustomersCSV(ctx context.Context, r io.Reader) (int, error)
}

type service struct {
	repo Repository
}

// CustomerInput carries the fields an operator can set on a crew member.
// Balance is absent on purpose: it only moves through order history.
type CustomerInput struct {
	ID         string
	Name       string
	Department string
}

// NewService wires a directory service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	customer := &models.Customer{
		ID:         input.ID,
		Name:       input.Name,
		Department: input.Department,
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}

	if err := s.ensureDepartment(ctx, input.Department); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*models.Customer, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	customer.Name = input.Name
	customer.Department = input.Department

	if err := s.ensureDepartment(ctx, input.Department); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return customer, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}

func (s *service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list departments")
	}
	return departments, nil
}

func (s *service) DeleteDepartment(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "department id is required")
	}
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete department")
	}
	return nil
}

// ImportCustomersCSV bulk-loads crew members. An explicit balance column
// is honored so a roster migrated from the paper ledger keeps its tabs.
func (s *service) ImportCustomersCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := csvutil.ReadRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "csv file has no data rows")
	}

	customers := make([]*models.Customer, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row["name"]) == "" {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: customer name is required", i+1))
		}
		customer := &models.Customer{
			ID:         strings.TrimSpace(row["id"]),
			Name:       strings.TrimSpace(row["name"]),
			Department: strings.TrimSpace(row["department"]),
			Balance:    csvutil.ParseInt(row["balance"]),
		}
		if customer.ID == "" {
			customer.ID = uuid.NewString()
		}
		customers = append(customers, customer)
	}

	for _, customer := range customers {
		if err := s.ensureDepartment(ctx, customer.Department); err != nil {
			return 0, err
		}
		if err := s.repo.CreateCustomer(ctx, customer); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import customer")
		}
	}
	return len(customers), nil
}

func (s *service) ensureDepartment(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := s.repo.FindDepartmentByName(ctx, name)
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup department")
	}
	department := &models.Department{ID: uuid.NewString(), Name: name}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create department")
	}
	return nil
}
