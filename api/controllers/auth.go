package controllers

import (
	"net/http"

	"github.com/harborline/slopchest-backend/api/middleware"
	"github.com/harborline/slopchest-backend/api/responses"
	"github.com/harborline/slopchest-backend/api/validators"
	"github.com/harborline/slopchest-backend/internal/users"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/logger"
)

type loginRequest struct {
	Name string `json:"name" validate:"required"`
	PIN  string `json:"pin" validate:"required"`
}

type changePINRequest struct {
	CurrentPIN string `json:"current_pin" validate:"required"`
	NewPIN     string `json:"new_pin" validate:"required,min=4"`
}

// AuthLogin exchanges a name and PIN for a bearer token.
func AuthLogin(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Name, payload.PIN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthChangePIN rotates the caller's own PIN.
func AuthChangePIN(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload changePINRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePIN(r.Context(), userID, payload.CurrentPIN, payload.NewPIN); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"changed": true})
	}
}
