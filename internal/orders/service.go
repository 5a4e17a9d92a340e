package orders

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/internal/auditlog"
	"github.com/harborline/slopchest-backend/pkg/csvutil"
	"github.com/harborline/slopchest-backend/pkg/dayrange"
	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/metrics"
)

// Service is the order engine: the only component allowed to move money
// and stock. Every mutation runs inside one transaction so a failure
// partway through leaves the ledger untouched.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Edit(ctx context.Context, input EditInput) (*models.Order, error)
	Delete(ctx context.Context, orderID, cashier string) (*models.Order, error)
	Refund(ctx context.Context, orderID string) (*models.Order, error)
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByDateRange(ctx context.Context, start, end string) ([]DayGroup, error)
	Summary(ctx context.Context, start, end string) (*RevenueSummary, error)
	ImportReceiptsCSV(ctx context.Context, r io.Reader) (int, error)
}

// TxRunner starts a transaction and runs fn inside it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockDebiter removes sold quantity from a product inside the engine's
// transaction.
type StockDebiter interface {
	Debit(ctx context.Context, tx *gorm.DB, productID string, qty int) error
}

// BalanceAdjuster applies a signed delta to a customer's tab inside the
// engine's transaction.
type BalanceAdjuster interface {
	Adjust(ctx context.Context, tx *gorm.DB, customerID string, delta int) error
}

// CustomerLoader resolves the customer a checkout is charged to.
type CustomerLoader interface {
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
}

// CartClearer empties a cashier's staged cart inside the engine's
// transaction.
type CartClearer interface {
	Clear(ctx context.Context, tx *gorm.DB, userID string) error
}

// AuditRecorder appends a corrective-action entry inside the engine's
// transaction.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, input auditlog.RecordInput) (*models.AuditEntry, error)
}

type service struct {
	repo      Repository
	runner    TxRunner
	stock     StockDebiter
	balances  BalanceAdjuster
	customers CustomerLoader
	carts     CartClearer
	audit     AuditRecorder
	metrics   *metrics.OrderMetrics
}

// NewService wires the order engine. The metrics sink may be nil.
func NewService(
	repo Repository,
	runner TxRunner,
	stock StockDebiter,
	balances BalanceAdjuster,
	customers CustomerLoader,
	carts CartClearer,
	audit AuditRecorder,
	orderMetrics *metrics.OrderMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock debiter required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance adjuster required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:      repo,
		runner:    runner,
		stock:     stock,
		balances:  balances,
		customers: customers,
		carts:     carts,
		audit:     audit,
		metrics:   orderMetrics,
	}, nil
}

// Create finalizes a checkout: debits stock per line, credits the tab
// when paying on account, and clears the cashier's staged cart. Stock has
// no floor; an oversell goes negative and is caught at stocktake.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.Method))
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || line.Qty <= 0 || line.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart line for product %q", line.ProductID))
		}
	}

	customer, err := s.customers.FindCustomerByID(ctx, input.CustomerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	items := input.Lines.Clone()
	order := &models.Order{
		ID:           uuid.NewString(),
		Cashier:      input.Cashier,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Method:       input.Method,
		Status:       enums.OrderStatusCompleted,
		Items:        items,
		Total:        items.Total(),
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Receipt numbers restart from the ledger size; a single till
		// writes orders, so count+1 cannot race.
		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		order.Number = count + 1

		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for _, line := range order.Items {
			if err := s.stock.Debit(ctx, tx, line.ProductID, line.Qty); err != nil {
				return err
			}
		}
		if order.Method == enums.PaymentMethodTab {
			if err := s.balances.Adjust(ctx, tx, order.CustomerID, order.Total); err != nil {
				return err
			}
		}
		if input.SessionUserID != "" {
			if err := s.carts.Clear(ctx, tx, input.SessionUserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated(string(order.Method), order.Total)
	return order, nil
}

// Edit replaces a completed order's lines in place, recomputes the total,
// and moves the tab balance by the difference. Stock is not touched: the
// goods already left the shelf. A modify audit entry freezes the pre-edit
// order.
func (s *service) Edit(ctx context.Context, input EditInput) (*models.Order, error) {
	if input.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must keep at least one line")
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || line.Qty <= 0 || line.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order line for product %q", line.ProductID))
		}
	}

	var edited *models.Order
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForCorrection(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		snapshot := order.Snapshot()
		oldTotal := order.Total

		order.Items = input.Lines.Clone()
		order.Total = order.Items.Total()
		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if order.Method == enums.PaymentMethodTab && order.Total != oldTotal {
			if err := s.balances.Adjust(ctx, tx, order.CustomerID, order.Total-oldTotal); err != nil {
				return err
			}
		}

		_, err = s.audit.Record(ctx, tx, auditlog.RecordInput{
			Action:       enums.AuditActionModify,
			Cashier:      input.Cashier,
			OrderID:      order.ID,
			OrderNumber:  order.Number,
			Total:        order.Total,
			Method:       order.Method,
			CustomerName: order.CustomerName,
			Detail:       fmt.Sprintf("total changed from %d to %d", oldTotal, order.Total),
			Snapshot:     snapshot,
		})
		if err != nil {
			return err
		}

		edited = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCorrected(string(enums.AuditActionModify))
	return edited, nil
}

// Delete marks a completed order deleted and backs its value out of the
// tab. The row stays in the ledger, so the delete audit entry carries no
// snapshot. Stock is not restored.
func (s *service) Delete(ctx context.Context, orderID, cashier string) (*models.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var deleted *models.Order
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForCorrection(ctx, repo, orderID)
		if err != nil {
			return err
		}

		order.Status = enums.OrderStatusDeleted
		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if order.Method == enums.PaymentMethodTab {
			if err := s.balances.Adjust(ctx, tx, order.CustomerID, -order.Total); err != nil {
				return err
			}
		}

		_, err = s.audit.Record(ctx, tx, auditlog.RecordInput{
			Action:       enums.AuditActionDelete,
			Cashier:      cashier,
			OrderID:      order.ID,
			OrderNumber:  order.Number,
			Total:        order.Total,
			Method:       order.Method,
			CustomerName: order.CustomerName,
		})
		if err != nil {
			return err
		}

		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCorrected(string(enums.AuditActionDelete))
	return deleted, nil
}

// Refund marks a completed order refunded and backs its value out of the
// tab. Refunds are visible in the ledger and the revenue summary, so no
// audit entry is written. Stock is not restored.
func (s *service) Refund(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var refunded *models.Order
	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := loadForCorrection(ctx, repo, orderID)
		if err != nil {
			return err
		}

		order.Status = enums.OrderStatusRefunded
		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if order.Method == enums.PaymentMethodTab {
			if err := s.balances.Adjust(ctx, tx, order.CustomerID, -order.Total); err != nil {
				return err
			}
		}

		refunded = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCorrected("refund")
	return refunded, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return list, nil
}

// ListByDateRange groups an inclusive day range's receipts by calendar
// day, newest day first, newest receipt first within a day.
func (s *service) ListByDateRange(ctx context.Context, start, end string) ([]DayGroup, error) {
	from, to, err := dayrange.Parse(start, end)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListInWindow(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders in window")
	}

	groups := make([]DayGroup, 0)
	for _, order := range list {
		day := dayrange.Day(order.CreatedAt)
		if len(groups) == 0 || groups[len(groups)-1].Date != day {
			groups = append(groups, DayGroup{Date: day})
		}
		groups[len(groups)-1].Orders = append(groups[len(groups)-1].Orders, order)
	}
	return groups, nil
}

// Summary aggregates a day range for the revenue view. Deleted orders are
// invisible; refunded orders still count as receipts but their value sits
// in the refund column.
func (s *service) Summary(ctx context.Context, start, end string) (*RevenueSummary, error) {
	from, to, err := dayrange.Parse(start, end)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListInWindow(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders in window")
	}

	summary := &RevenueSummary{}
	for _, order := range list {
		switch order.Status {
		case enums.OrderStatusDeleted:
			continue
		case enums.OrderStatusCompleted:
			summary.SalesTotal += order.Total
		case enums.OrderStatusRefunded:
			summary.RefundTotal += order.Total
		}
		summary.ReceiptCount++
	}
	summary.NetRevenue = summary.SalesTotal - summary.RefundTotal
	return summary, nil
}

// ImportReceiptsCSV loads historical receipts carried over from the old
// paper ledger. Imported rows bypass stock and balance movement: the
// goods and money already moved before this system existed.
func (s *service) ImportReceiptsCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := csvutil.ReadRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "csv file has no data rows")
	}

	imported := make([]*models.Order, 0, len(rows))
	for i, row := range rows {
		method := enums.PaymentMethod(strings.TrimSpace(row["method"]))
		if !method.IsValid() {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: invalid payment method %q", i+1, method))
		}
		status := enums.OrderStatus(strings.TrimSpace(row["status"]))
		if status == "" {
			status = enums.OrderStatusCompleted
		}
		if !status.IsValid() {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: invalid status %q", i+1, status))
		}
		createdAt, err := time.ParseInLocation(dayrange.Layout, strings.TrimSpace(row["date"]), time.Local)
		if err != nil {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: invalid date %q", i+1, row["date"]))
		}

		order := &models.Order{
			ID:           strings.TrimSpace(row["id"]),
			Cashier:      strings.TrimSpace(row["cashier"]),
			CustomerID:   strings.TrimSpace(row["customer_id"]),
			CustomerName: strings.TrimSpace(row["customer_name"]),
			Method:       method,
			Status:       status,
			Total:        csvutil.ParseInt(row["total"]),
			CreatedAt:    createdAt,
		}
		if order.ID == "" {
			order.ID = uuid.NewString()
		}
		imported = append(imported, order)
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		for _, order := range imported {
			count++
			order.Number = count
			if err := repo.Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import receipt")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(imported), nil
}

// loadForCorrection fetches an order and enforces the one-way lifecycle:
// only completed orders may be edited, deleted, or refunded.
func loadForCorrection(ctx context.Context, repo Repository, orderID string) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is %s and can no longer be corrected", order.Status))
	}
	return order, nil
}
