package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chem-is-try/po-generator/api/controllers"
	"github.com/chem-is-try/po-generator/api/middleware"
	"github.com/chem-is-try/po-generator/internal/auth"
	"github.com/chem-is-try/po-generator/internal/docstore"
	"github.com/chem-is-try/po-generator/internal/documents"
	"github.com/chem-is-try/po-generator/internal/items"
	"github.com/chem-is-try/po-generator/internal/orders"
	"github.com/chem-is-try/po-generator/internal/templates"
	"github.com/chem-is-try/po-generator/internal/users"
	"github.com/chem-is-try/po-generator/internal/vendors"
	"github.com/chem-is-try/po-generator/pkg/auth/session"
	"github.com/chem-is-try/po-generator/pkg/config"
	"github.com/chem-is-try/po-generator/pkg/db"
	"github.com/chem-is-try/po-generator/pkg/logger"
	pkgredis "github.com/chem-is-try/po-generator/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	SessionManager session.AccessSessionChecker
	Registry       *prometheus.Registry

	AuthService      auth.Service
	UsersRepo        *users.Repository
	VendorsService   vendors.Service
	ItemsService     items.Service
	TemplatesService templates.Service
	OrdersService    orders.Service
	DocumentsService documents.Service
	DocumentStore    *docstore.Store
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// Download links are handed out by the generation endpoints and carry
	// unguessable names; the route itself is public.
	r.Get("/download/{filename}", controllers.Download(deps.DocumentStore, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/users/me", controllers.UsersMe(deps.UsersRepo, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.VendorCreate(deps.VendorsService, logg))
			r.Get("/", controllers.VendorList(deps.VendorsService, logg))
			r.Get("/{id}", controllers.VendorGet(deps.VendorsService, logg))
			r.Put("/{id}", controllers.VendorUpdate(deps.VendorsService, logg))
			r.Delete("/{id}", controllers.VendorDelete(deps.VendorsService, logg))
		})

		r.Route("/line-items", func(r chi.Router) {
			r.Post("/", controllers.LineItemCreate(deps.ItemsService, logg))
			r.Get("/", controllers.LineItemList(deps.ItemsService, logg))
			r.Get("/{id}", controllers.LineItemGet(deps.ItemsService, logg))
			r.Put("/{id}", controllers.LineItemUpdate(deps.ItemsService, logg))
			r.Delete("/{id}", controllers.LineItemDelete(deps.ItemsService, logg))
		})

		r.Route("/saved-vendors", func(r chi.Router) {
			r.Post("/", controllers.SavedVendorCreate(deps.TemplatesService, logg))
			r.Get("/", controllers.SavedVendorList(deps.TemplatesService, logg))
			r.Delete("/{id}", controllers.SavedVendorDelete(deps.TemplatesService, logg))
		})

		r.Route("/saved-line-items", func(r chi.Router) {
			r.Post("/", controllers.SavedLineItemCreate(deps.TemplatesService, logg))
			r.Get("/", controllers.SavedLineItemList(deps.TemplatesService, logg))
			r.Delete("/{id}", controllers.SavedLineItemDelete(deps.TemplatesService, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Post("/", controllers.PurchaseOrderCreate(deps.OrdersService, logg))
			r.Get("/", controllers.PurchaseOrderList(deps.OrdersService, logg))
			r.Get("/{id}", controllers.PurchaseOrderGet(deps.OrdersService, logg))
			r.Put("/{id}", controllers.PurchaseOrderUpdate(deps.OrdersService, logg))
			r.Delete("/{id}", controllers.PurchaseOrderDelete(deps.OrdersService, logg))
			r.Get("/{id}/pdf", controllers.PurchaseOrderPDF(deps.OrdersService, logg))
		})

		r.Post("/documents", controllers.DocumentGenerate(deps.DocumentsService, cfg.Documents, logg))
	})

	return r
}
