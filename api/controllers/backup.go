package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/harborline/slopchest-backend/api/responses"
	"github.com/harborline/slopchest-backend/internal/backup"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/logger"
)

// ExportBackup streams the full-store backup document.
func ExportBackup(svc backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// RestoreBackup replaces the whole store from an uploaded document.
func RestoreBackup(svc backup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer io.Copy(io.Discard, r.Body)

		var doc backup.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid backup document"))
			return
		}

		if err := svc.Restore(r.Context(), &doc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"restored": true})
	}
}
