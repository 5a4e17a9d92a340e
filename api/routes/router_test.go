package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/harborline/slopchest-backend/pkg/auth"
	"github.com/harborline/slopchest-backend/pkg/config"
	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/logger"
	"github.com/harborline/slopchest-backend/pkg/metrics"
)

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "slopchest", ExpirationMinutes: 60},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel})

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)
	orderMetrics.IncCreated("tab", 30)

	return NewRouter(cfg, logg, nil, Services{}, registry), cfg
}

func bearerFor(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   "u-1",
		UserName: "quartermaster",
		Role:     role,
		JTI:      "jti-1",
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterHealthLiveIsPublic(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.AppEnvDev, rec.Header().Get("X-Slopchest-Env"))
}

func TestRouterMetricsEndpointServes(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders_created_total")
}

func TestRouterRejectsMissingToken(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/customers",
		"/api/v1/cart",
		"/api/v1/orders",
		"/api/v1/audit-log",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouterLoginIsPublic(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	// An empty body fails validation, which proves the request reached the
	// handler instead of being stopped by the auth middleware.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterAdminGates(t *testing.T) {
	r, cfg := testRouter(t)
	cashier := bearerFor(t, cfg, enums.UserRoleCashier)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/products/import"},
		{http.MethodDelete, "/api/v1/customers/c-1"},
		{http.MethodPost, "/api/v1/orders/import"},
		{http.MethodGet, "/api/v1/backup"},
		{http.MethodPost, "/api/v1/backup"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", cashier)
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.method+" "+tc.path)
	}
}

func TestRouterCashierCanReachTillRoutes(t *testing.T) {
	r, cfg := testRouter(t)
	cashier := bearerFor(t, cfg, enums.UserRoleCashier)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", cashier)
	r.ServeHTTP(rec, req)

	// Validation rejects the empty body, so the request cleared both gates.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}
