package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// RequireQuery returns a trimmed query parameter or a validation error.
func RequireQuery(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "missing query parameter").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}

// DateRangeQuery pulls the start/end day parameters, defaulting end to
// start for single-day lookups.
func DateRangeQuery(r *http.Request) (string, string, error) {
	start, err := RequireQuery(r, "start")
	if err != nil {
		return "", "", err
	}
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if end == "" {
		end = start
	}
	return start, end, nil
}

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
