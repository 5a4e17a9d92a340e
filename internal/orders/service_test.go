package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/internal/auditlog"
	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/types"
)

type fakeOrdersRepo struct {
	orders map[string]*models.Order
	window []models.Order
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrdersRepo) Update(ctx context.Context, order *models.Order) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrdersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}

func (f *fakeOrdersRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var list []models.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			list = append(list, *order)
		}
	}
	return list, nil
}

func (f *fakeOrdersRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return f.window, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeStockDebiter struct {
	debits map[string]int
}

func (f *fakeStockDebiter) Debit(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	if f.debits == nil {
		f.debits = make(map[string]int)
	}
	f.debits[productID] += qty
	return nil
}

type fakeBalanceAdjuster struct {
	deltas map[string][]int
}

func (f *fakeBalanceAdjuster) Adjust(ctx context.Context, tx *gorm.DB, customerID string, delta int) error {
	if f.deltas == nil {
		f.deltas = make(map[string][]int)
	}
	f.deltas[customerID] = append(f.deltas[customerID], delta)
	return nil
}

func (f *fakeBalanceAdjuster) total(customerID string) int {
	sum := 0
	for _, delta := range f.deltas[customerID] {
		sum += delta
	}
	return sum
}

type fakeCustomerLoader struct {
	customers map[string]*models.Customer
}

func (f *fakeCustomerLoader) FindCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

type fakeCartClearer struct {
	cleared []string
}

func (f *fakeCartClearer) Clear(ctx context.Context, tx *gorm.DB, userID string) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeAuditRecorder struct {
	entries []auditlog.RecordInput
}

func (f *fakeAuditRecorder) Record(ctx context.Context, tx *gorm.DB, input auditlog.RecordInput) (*models.AuditEntry, error) {
	f.entries = append(f.entries, input)
	return &models.AuditEntry{
		ID:       time.Now().UnixMilli(),
		Action:   input.Action,
		OrderID:  input.OrderID,
		Snapshot: input.Snapshot,
	}, nil
}

type engineFixture struct {
	svc       Service
	repo      *fakeOrdersRepo
	stock     *fakeStockDebiter
	balances  *fakeBalanceAdjuster
	customers *fakeCustomerLoader
	carts     *fakeCartClearer
	audit     *fakeAuditRecorder
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		repo:     newFakeOrdersRepo(),
		stock:    &fakeStockDebiter{},
		balances: &fakeBalanceAdjuster{},
		customers: &fakeCustomerLoader{customers: map[string]*models.Customer{
			"crew-1": {ID: "crew-1", Name: "Ishmael", Department: "Deck", Balance: 0},
		}},
		carts: &fakeCartClearer{},
		audit: &fakeAuditRecorder{},
	}
	svc, err := NewService(f.repo, fakeTxRunner{}, f.stock, f.balances, f.customers, f.carts, f.audit, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func cokeLines(qty int) types.OrderItems {
	return types.OrderItems{{ProductID: "coke", Name: "Coke", Price: 30, Qty: qty}}
}

func TestServiceCreate_tabOrder(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID:    "crew-1",
		Cashier:       "Queequeg",
		Method:        enums.PaymentMethodTab,
		Lines:         cokeLines(2),
		SessionUserID: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.Number)
	assert.Equal(t, "#0001", order.DisplayID())
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
	assert.Equal(t, 60, order.Total)
	assert.Equal(t, "Ishmael", order.CustomerName)
	assert.Equal(t, 2, f.stock.debits["coke"])
	assert.Equal(t, 60, f.balances.total("crew-1"))
	assert.Equal(t, []string{"user-1"}, f.carts.cleared)
	assert.Empty(t, f.audit.entries)
}

func TestServiceCreate_cashOrderSkipsBalance(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Cashier:    "Queequeg",
		Method:     enums.PaymentMethodCash,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, order.Total)
	assert.Equal(t, 2, f.stock.debits["coke"])
	assert.Empty(t, f.balances.deltas)
	assert.Empty(t, f.carts.cleared)
}

func TestServiceCreate_numbersFollowLedgerSize(t *testing.T) {
	f := newEngineFixture(t)

	for want := int64(1); want <= 3; want++ {
		order, err := f.svc.Create(context.Background(), CreateInput{
			CustomerID: "crew-1",
			Cashier:    "Queequeg",
			Method:     enums.PaymentMethodCash,
			Lines:      cokeLines(1),
		})
		require.NoError(t, err)
		assert.Equal(t, want, order.Number)
	}
}

func TestServiceCreate_emptyCart(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Method:     enums.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.stock.debits)
}

func TestServiceCreate_unknownCustomer(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "nobody",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(1),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceEdit_adjustsBalanceAndSnapshots(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Cashier:    "Queequeg",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)
	require.Equal(t, 60, f.balances.total("crew-1"))

	edited, err := f.svc.Edit(context.Background(), EditInput{
		OrderID: order.ID,
		Cashier: "Starbuck",
		Lines:   cokeLines(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 30, edited.Total)
	assert.Equal(t, 30, f.balances.total("crew-1"))
	// Goods already left the shelf: edits never move stock.
	assert.Equal(t, 2, f.stock.debits["coke"])

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, enums.AuditActionModify, entry.Action)
	assert.Equal(t, "Starbuck", entry.Cashier)
	assert.Equal(t, order.ID, entry.OrderID)
	assert.Equal(t, 30, entry.Total)
	require.NotNil(t, entry.Snapshot)
	assert.Equal(t, 60, entry.Snapshot.Total)
	assert.Equal(t, 2, entry.Snapshot.Items[0].Qty)
	assert.True(t, strings.Contains(entry.Detail, "60"))
	assert.True(t, strings.Contains(entry.Detail, "30"))
}

func TestServiceEdit_snapshotIsFrozenCopy(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)

	_, err = f.svc.Edit(context.Background(), EditInput{OrderID: order.ID, Lines: cokeLines(1)})
	require.NoError(t, err)

	snapshot := f.audit.entries[0].Snapshot
	stored := f.repo.orders[order.ID]
	stored.Items[0].Qty = 99
	assert.Equal(t, 2, snapshot.Items[0].Qty)
}

func TestServiceDelete_reversesBalanceAndLogs(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Cashier:    "Queequeg",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)

	deleted, err := f.svc.Delete(context.Background(), order.ID, "Starbuck")
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusDeleted, deleted.Status)
	assert.Equal(t, 0, f.balances.total("crew-1"))
	assert.Equal(t, 2, f.stock.debits["coke"])

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, enums.AuditActionDelete, entry.Action)
	assert.Equal(t, "Starbuck", entry.Cashier)
	assert.Equal(t, 60, entry.Total)
	assert.Nil(t, entry.Snapshot)
	assert.Empty(t, entry.Detail)
}

func TestServiceDelete_secondDeleteRejected(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)

	_, err = f.svc.Delete(context.Background(), order.ID, "Starbuck")
	require.NoError(t, err)

	_, err = f.svc.Delete(context.Background(), order.ID, "Starbuck")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	// The reversal happened exactly once.
	assert.Equal(t, 0, f.balances.total("crew-1"))
	assert.Len(t, f.audit.entries, 1)
}

func TestServiceRefund_reversesBalanceWithoutLog(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Method:     enums.PaymentMethodTab,
		Lines:      cokeLines(2),
	})
	require.NoError(t, err)

	refunded, err := f.svc.Refund(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusRefunded, refunded.Status)
	assert.Equal(t, 0, f.balances.total("crew-1"))
	assert.Equal(t, 2, f.stock.debits["coke"])
	assert.Empty(t, f.audit.entries)
}

func TestServiceRefund_terminalStatesRejected(t *testing.T) {
	f := newEngineFixture(t)

	order, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: "crew-1",
		Method:     enums.PaymentMethodCash,
		Lines:      cokeLines(1),
	})
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	_, err = f.svc.Edit(context.Background(), EditInput{OrderID: order.ID, Lines: cokeLines(1)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestServiceDelete_unknownOrder(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.svc.Delete(context.Background(), "missing", "Starbuck")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListByDateRange_groupsByDay(t *testing.T) {
	f := newEngineFixture(t)

	day2 := time.Date(2026, 3, 2, 14, 0, 0, 0, time.Local)
	f.repo.window = []models.Order{
		{ID: "c", Number: 3, CreatedAt: day2.Add(time.Hour)},
		{ID: "b", Number: 2, CreatedAt: day2},
		{ID: "a", Number: 1, CreatedAt: day2.AddDate(0, 0, -1)},
	}

	groups, err := f.svc.ListByDateRange(context.Background(), "2026-03-01", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-03-02", groups[0].Date)
	require.Len(t, groups[0].Orders, 2)
	assert.Equal(t, "c", groups[0].Orders[0].ID)
	assert.Equal(t, "2026-03-01", groups[1].Date)
	assert.Equal(t, "a", groups[1].Orders[0].ID)
}

func TestServiceSummary(t *testing.T) {
	f := newEngineFixture(t)

	f.repo.window = []models.Order{
		{ID: "a", Status: enums.OrderStatusCompleted, Total: 100},
		{ID: "b", Status: enums.OrderStatusCompleted, Total: 40},
		{ID: "c", Status: enums.OrderStatusRefunded, Total: 30},
		{ID: "d", Status: enums.OrderStatusDeleted, Total: 500},
	}

	summary, err := f.svc.Summary(context.Background(), "2026-03-01", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ReceiptCount)
	assert.Equal(t, 140, summary.SalesTotal)
	assert.Equal(t, 30, summary.RefundTotal)
	assert.Equal(t, 110, summary.NetRevenue)
}

func TestServiceSummary_invalidRange(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.svc.Summary(context.Background(), "2026-03-02", "2026-03-01")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceImportReceiptsCSV(t *testing.T) {
	f := newEngineFixture(t)

	csv := strings.Join([]string{
		"cashier,customer_id,customer_name,method,status,total,date",
		"Queequeg,crew-1,Ishmael,tab,completed,60,2026-02-01",
		"Queequeg,crew-1,Ishmael,cash,refunded,30,2026-02-02",
	}, "\n")

	count, err := f.svc.ImportReceiptsCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, f.repo.orders, 2)
	// Historical rows never move stock or balances.
	assert.Empty(t, f.stock.debits)
	assert.Empty(t, f.balances.deltas)
}

func TestServiceImportReceiptsCSV_badMethod(t *testing.T) {
	f := newEngineFixture(t)

	csv := "cashier,customer_id,customer_name,method,total,date\nQueequeg,crew-1,Ishmael,iou,60,2026-02-01"
	_, err := f.svc.ImportReceiptsCSV(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, f.repo.orders)
}
