package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emontecinos/campusmarket-backend/api/routes"
	"github.com/emontecinos/campusmarket-backend/internal/accounts"
	"github.com/emontecinos/campusmarket-backend/internal/admin"
	authsvc "github.com/emontecinos/campusmarket-backend/internal/auth"
	"github.com/emontecinos/campusmarket-backend/internal/chat"
	"github.com/emontecinos/campusmarket-backend/internal/favorites"
	"github.com/emontecinos/campusmarket-backend/internal/notifications"
	"github.com/emontecinos/campusmarket-backend/internal/products"
	"github.com/emontecinos/campusmarket-backend/internal/publications"
	"github.com/emontecinos/campusmarket-backend/internal/ratings"
	"github.com/emontecinos/campusmarket-backend/internal/realtime"
	"github.com/emontecinos/campusmarket-backend/internal/reports"
	"github.com/emontecinos/campusmarket-backend/internal/transactions"
	"github.com/emontecinos/campusmarket-backend/pkg/auth/session"
	"github.com/emontecinos/campusmarket-backend/pkg/config"
	"github.com/emontecinos/campusmarket-backend/pkg/db"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/metrics"
	"github.com/emontecinos/campusmarket-backend/pkg/migrate"
	"github.com/emontecinos/campusmarket-backend/pkg/redis"
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

	accountRepo := accounts.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())

	svcs, hub, socketHandler, err := buildServices(cfg, logg, dbClient, sessionManager, accountRepo, productRepo, notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	collector := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, hub, socketHandler, collector, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionManager *session.Manager,
	accountRepo accounts.Repository,
	productRepo products.Repository,
	notificationRepo notifications.Repository,
) (routes.Services, *realtime.Hub, realtime.EventHandler, error) {
	var svcs routes.Services

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Repo:     accountRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	accountService, err := accounts.NewService(accounts.ServiceParams{
		Repo:   accountRepo,
		Logger: logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:   productRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	transactionService, err := transactions.NewService(transactions.ServiceParams{
		Repo:        transactions.NewRepository(dbClient.DB()),
		ProductRepo: productRepo,
		Tx:          dbClient,
		Logger:      logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	publicationService, err := publications.NewService(publications.NewRepository(dbClient.DB()))
	if err != nil {
		return svcs, nil, nil, err
	}

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:        favorites.NewRepository(dbClient.DB()),
		ProductRepo: productRepo,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		return svcs, nil, nil, err
	}

	ratingService, err := ratings.NewService(ratings.ServiceParams{
		Repo:             ratings.NewRepository(dbClient.DB()),
		NotificationRepo: notificationRepo,
		Tx:               dbClient,
		Logger:           logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	reportService, err := reports.NewService(reports.ServiceParams{
		Repo:             reports.NewRepository(dbClient.DB()),
		NotificationRepo: notificationRepo,
		Logger:           logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	adminService, err := admin.NewService(dbClient.DB())
	if err != nil {
		return svcs, nil, nil, err
	}

	hub := realtime.NewHub(logg)

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:     chat.NewRepository(dbClient.DB()),
		Presence: hub,
		Logger:   logg,
	})
	if err != nil {
		return svcs, nil, nil, err
	}

	socketHandler, err := chat.NewSocketHandler(chatService, logg)
	if err != nil {
		return svcs, nil, nil, err
	}

	svcs = routes.Services{
		Auth:          authService,
		Accounts:      accountService,
		Products:      productService,
		Transactions:  transactionService,
		Publications:  publicationService,
		Favorites:     favoriteService,
		Chat:          chatService,
		Notifications: notificationService,
		Ratings:       ratingService,
		Reports:       reportService,
		Admin:         adminService,
	}
	return svcs, hub, socketHandler, nil
}
