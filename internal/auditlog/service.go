package auditlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/dayrange"
	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// Service records corrective order actions and answers the review
// queries. Entries are never mutated or removed once written.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.AuditEntry, error)
	Query(ctx context.Context, input QueryInput) ([]models.AuditEntry, error)
	Get(ctx context.Context, id int64) (*models.AuditEntry, error)
}

// RecordInput captures the immutable data an audit entry requires.
// Snapshot is the deep pre-action copy; it is mandatory for modify
// actions and absent for deletes, whose order row stays inspectable.
type RecordInput struct {
	Action       enums.AuditAction
	Cashier      string
	OrderID      string
	OrderNumber  int64
	Total        int
	Method       enums.PaymentMethod
	CustomerName string
	Detail       string
	Snapshot     *models.OrderSnapshot
}

// QueryInput filters the log by action kind and an inclusive calendar-day
// range.
type QueryInput struct {
	Action    enums.AuditAction
	DateStart string
	DateEnd   string
}

type service struct {
	repo Repository

	mu     sync.Mutex
	lastID int64
}

// NewService wires an audit log service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit log repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.AuditEntry, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid audit action %q", input.Action))
	}
	if input.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.Action == enums.AuditActionModify && input.Snapshot == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "modify entries require a pre-edit snapshot")
	}

	entry := &models.AuditEntry{
		ID:           s.nextID(ctx),
		Action:       input.Action,
		Cashier:      input.Cashier,
		OrderID:      input.OrderID,
		OrderNumber:  input.OrderNumber,
		Total:        input.Total,
		Method:       input.Method,
		CustomerName: input.CustomerName,
		Detail:       input.Detail,
		Snapshot:     input.Snapshot,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append audit entry")
	}
	return entry, nil
}

func (s *service) Query(ctx context.Context, input QueryInput) ([]models.AuditEntry, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid audit action %q", input.Action))
	}
	from, to, err := dayrange.Parse(input.DateStart, input.DateEnd)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByActionInWindow(ctx, input.Action, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query audit log")
	}
	return entries, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.AuditEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "audit entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load audit entry")
	}
	return entry, nil
}

// nextID derives a millisecond-timestamp id, bumped past the last issued
// or persisted id so two corrections in the same millisecond stay in
// order.
func (s *service) nextID(ctx context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastID == 0 {
		if persisted, err := s.repo.MaxID(ctx); err == nil {
			s.lastID = persisted
		}
	}

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
