package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harborline/slopchest-backend/api/controllers"
	"github.com/harborline/slopchest-backend/api/middleware"
	"github.com/harborline/slopchest-backend/internal/auditlog"
	"github.com/harborline/slopchest-backend/internal/backup"
	"github.com/harborline/slopchest-backend/internal/cart"
	"github.com/harborline/slopchest-backend/internal/catalog"
	"github.com/harborline/slopchest-backend/internal/directory"
	"github.com/harborline/slopchest-backend/internal/orders"
	"github.com/harborline/slopchest-backend/internal/users"
	"github.com/harborline/slopchest-backend/pkg/config"
	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/logger"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Users     users.Service
	Catalog   catalog.Service
	Directory directory.Service
	Cart      cart.Service
	Orders    orders.Service
	AuditLog  auditlog.Service
	Backup    backup.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	svcs Services,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Users, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/change-pin", controllers.AuthChangePIN(svcs.Users, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Put("/{id}", controllers.UpdateUser(svcs.Users, logg))
			r.Delete("/{id}", controllers.DeleteUser(svcs.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.With(adminOnly).Post("/", controllers.CreateProduct(svcs.Catalog, logg))
			r.With(adminOnly).Post("/import", controllers.ImportProducts(svcs.Catalog, logg))
			r.With(adminOnly).Put("/{id}", controllers.UpdateProduct(svcs.Catalog, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteProduct(svcs.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Catalog, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteCategory(svcs.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Directory, logg))
			r.Post("/", controllers.CreateCustomer(svcs.Directory, logg))
			r.With(adminOnly).Post("/import", controllers.ImportCustomers(svcs.Directory, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Directory, logg))
			r.Get("/{id}/orders", controllers.CustomerOrders(svcs.Orders, logg))
			r.Put("/{id}", controllers.UpdateCustomer(svcs.Directory, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteCustomer(svcs.Directory, logg))
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", controllers.ListDepartments(svcs.Directory, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteDepartment(svcs.Directory, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
			r.Put("/customer", controllers.SetCartCustomer(svcs.Cart, logg))
			r.Post("/lines", controllers.AddCartLine(svcs.Cart, logg))
			r.Put("/lines/{productID}", controllers.SetCartLine(svcs.Cart, logg))
			r.Delete("/lines/{productID}", controllers.RemoveCartLine(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/checkout", controllers.Checkout(svcs.Orders, svcs.Cart, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/summary", controllers.OrderSummary(svcs.Orders, logg))
			r.With(adminOnly).Post("/import", controllers.ImportReceipts(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Put("/{id}", controllers.EditOrder(svcs.Orders, logg))
			r.Delete("/{id}", controllers.DeleteOrder(svcs.Orders, logg))
			r.Post("/{id}/refund", controllers.RefundOrder(svcs.Orders, logg))
		})

		r.Route("/audit-log", func(r chi.Router) {
			r.Get("/", controllers.QueryAuditLog(svcs.AuditLog, logg))
			r.Get("/{id}", controllers.GetAuditEntry(svcs.AuditLog, logg))
		})

		r.Route("/backup", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", controllers.ExportBackup(svcs.Backup, logg))
			r.Post("/", controllers.RestoreBackup(svcs.Backup, logg))
		})
	})

	return r
}
