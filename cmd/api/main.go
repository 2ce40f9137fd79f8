package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chem-is-try/po-generator/api/routes"
	"github.com/chem-is-try/po-generator/internal/auth"
	"github.com/chem-is-try/po-generator/internal/docstore"
	"github.com/chem-is-try/po-generator/internal/documents"
	"github.com/chem-is-try/po-generator/internal/items"
	"github.com/chem-is-try/po-generator/internal/orders"
	"github.com/chem-is-try/po-generator/internal/pdf"
	"github.com/chem-is-try/po-generator/internal/signature"
	"github.com/chem-is-try/po-generator/internal/templates"
	"github.com/chem-is-try/po-generator/internal/users"
	"github.com/chem-is-try/po-generator/internal/vendors"
	"github.com/chem-is-try/po-generator/pkg/auth/session"
	"github.com/chem-is-try/po-generator/pkg/config"
	"github.com/chem-is-try/po-generator/pkg/db"
	"github.com/chem-is-try/po-generator/pkg/logger"
	"github.com/chem-is-try/po-generator/pkg/metrics"
	"github.com/chem-is-try/po-generator/pkg/migrate"
	"github.com/chem-is-try/po-generator/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	docMetrics := metrics.NewDocumentMetrics(registry)

	assets, err := pdf.LoadAssets(cfg.Documents.AssetsDir)
	if err != nil {
		// Artwork is optional: documents render with a text masthead instead.
		logg.Warn(logg.WithField(context.Background(), "dir", cfg.Documents.AssetsDir), "pdf assets unavailable, rendering without artwork")
		assets = nil
	}
	assembler := pdf.NewAssembler(assets)

	store, err := docstore.NewStore(cfg.Documents, logg, docMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create document store", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.SweepStale(context.Background()); err != nil {
		logg.Error(context.Background(), "stale document sweep failed", err)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	vendorsRepo := vendors.NewRepository(dbClient.DB())
	itemsRepo := items.NewRepository(dbClient.DB())
	templatesRepo := templates.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	vendorsService, err := vendors.NewService(vendorsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendors service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create line items service", err)
		os.Exit(1)
	}

	templatesService, err := templates.NewService(templatesRepo, vendorsRepo, itemsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create templates service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      ordersRepo,
		Vendors:   vendorsRepo,
		Items:     itemsRepo,
		Users:     usersRepo,
		Signature: signature.NewProducer(),
		Assembler: assembler,
		Metrics:   docMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(assembler, store, docMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			Registry:       registry,

			AuthService:      authService,
			UsersRepo:        usersRepo,
			VendorsService:   vendorsService,
			ItemsService:     itemsService,
			TemplatesService: templatesService,
			OrdersService:    ordersService,
			DocumentsService: documentsService,
			DocumentStore:    store,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
