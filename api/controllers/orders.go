package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborline/slopchest-backend/api/middleware"
	"github.com/harborline/slopchest-backend/api/responses"
	"github.com/harborline/slopchest-backend/api/validators"
	"github.com/harborline/slopchest-backend/internal/cart"
	"github.com/harborline/slopchest-backend/internal/orders"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/logger"
	"github.com/harborline/slopchest-backend/pkg/types"
)

type checkoutRequest struct {
	Method string `json:"method" validate:"required,oneof=cash tab"`
}

type editOrderRequest struct {
	Lines []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     int    `json:"price" validate:"min=0"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

func (req editOrderRequest) toItems() types.OrderItems {
	items := make(types.OrderItems, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, types.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Qty:       line.Qty,
		})
	}
	return items
}

// Checkout finalizes the caller's staged cart into an order.
func Checkout(orderSvc orders.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := cartSvc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if record.CustomerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no customer selected"))
			return
		}

		order, err := orderSvc.Create(r.Context(), orders.CreateInput{
			CustomerID:    record.CustomerID,
			Cashier:       middleware.UserNameFromContext(r.Context()),
			Method:        enums.PaymentMethod(payload.Method),
			Lines:         record.Lines,
			SessionUserID: userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// EditOrder replaces a completed order's lines in place.
func EditOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload editOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Edit(r.Context(), orders.EditInput{
			OrderID: chi.URLParam(r, "id"),
			Cashier: middleware.UserNameFromContext(r.Context()),
			Lines:   payload.toItems(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Delete(r.Context(), chi.URLParam(r, "id"), middleware.UserNameFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func RefundOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Refund(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns a day range's receipts grouped by calendar day.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := validators.DateRangeQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := svc.ListByDateRange(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

// OrderSummary aggregates a day range for the revenue view.
func OrderSummary(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := validators.DateRangeQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ImportReceipts loads historical receipts from an uploaded CSV body.
func ImportReceipts(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.ImportReceiptsCSV(r.Context(), r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"imported": count})
	}
}
