package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborline/slopchest-backend/api/middleware"
	"github.com/harborline/slopchest-backend/api/responses"
	"github.com/harborline/slopchest-backend/api/validators"
	"github.com/harborline/slopchest-backend/internal/cart"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/logger"
)

type cartCustomerRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

type cartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required"`
}

func sessionUserID(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return "", false
	}
	return userID, true
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}
		record, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func SetCartCustomer(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		var payload cartCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetCustomer(r.Context(), userID, payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AddCartLine folds a signed quantity delta into the product's line.
func AddCartLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddLine(r.Context(), userID, payload.ProductID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// SetCartLine overwrites a line's quantity; zero removes it.
func SetCartLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		qty, err := validators.ParseQueryInt(r, "qty", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetLineQty(r.Context(), userID, chi.URLParam(r, "productID"), qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func RemoveCartLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		record, err := svc.RemoveLine(r.Context(), userID, chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := sessionUserID(r, logg, w)
		if !ok {
			return
		}

		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
