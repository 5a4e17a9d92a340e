package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harborline/slopchest-backend/api/responses"
	"github.com/harborline/slopchest-backend/api/validators"
	"github.com/harborline/slopchest-backend/internal/auditlog"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/logger"
)

// QueryAuditLog lists corrective actions of one kind over a day range,
// newest first.
func QueryAuditLog(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, err := validators.RequireQuery(r, "action")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		start, end, err := validators.DateRangeQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Query(r.Context(), auditlog.QueryInput{
			Action:    enums.AuditAction(action),
			DateStart: start,
			DateEnd:   end,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// GetAuditEntry fetches one entry, snapshot included.
func GetAuditEntry(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry id"))
			return
		}

		entry, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}
