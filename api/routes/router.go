package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emontecinos/campusmarket-backend/api/controllers"
	"github.com/emontecinos/campusmarket-backend/api/middleware"
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
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/metrics"
	"github.com/emontecinos/campusmarket-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services groups the wired service layer handed to the router.
type Services struct {
	Auth          authsvc.Service
	Accounts      accounts.Service
	Products      products.Service
	Transactions  transactions.Service
	Publications  publications.Service
	Favorites     favorites.Service
	Chat          chat.Service
	Notifications notifications.Service
	Ratings       ratings.Service
	Reports       reports.Service
	Admin         admin.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	sessions sessionManager,
	hub *realtime.Hub,
	socketHandler realtime.EventHandler,
	collector *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(collector),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, redisClient))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/ws", controllers.ChatSocket(cfg, sessions, hub, socketHandler, logg))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Catalog reads are public; a valid token upgrades the view so sellers
	// and admins see hidden listings.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
		r.Get("/api/products", controllers.ProductList(svcs.Products, logg))
		r.Get("/api/products/categories", controllers.ProductCategories(svcs.Products, logg))
		r.Get("/api/products/{productId}", controllers.ProductGet(svcs.Products, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", controllers.UserProfile(svcs.Accounts, logg))
			r.Put("/profile", controllers.UserUpdateProfile(svcs.Accounts, logg))
			r.Post("/rate/{sellerId}", controllers.RateSeller(svcs.Ratings, logg))
			r.Get("/{sellerId}/ratings", controllers.SellerRatings(svcs.Ratings, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Get("/mine", controllers.ProductMine(svcs.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
			r.Patch("/{productId}/visibility", controllers.ProductSetVisibility(svcs.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(svcs.Transactions, logg))
			r.Post("/", controllers.PurchaseCreate(svcs.Transactions, logg))
			r.Get("/{saleId}", controllers.SaleDetail(svcs.Transactions, logg))
		})

		r.Route("/publications", func(r chi.Router) {
			r.Get("/", controllers.PublicationList(svcs.Publications, logg))
			r.Post("/", controllers.PublicationCreate(svcs.Publications, logg))
			r.Put("/{publicationId}", controllers.PublicationUpdate(svcs.Publications, logg))
			r.Delete("/{publicationId}", controllers.PublicationDelete(svcs.Publications, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoriteList(svcs.Favorites, logg))
			r.Post("/", controllers.FavoriteAdd(svcs.Favorites, logg))
			r.Delete("/{productId}", controllers.FavoriteRemove(svcs.Favorites, logg))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/send", controllers.ChatSend(svcs.Chat, logg))
			r.Get("/conversation/{userId}", controllers.ChatConversation(svcs.Chat, logg))
			r.Get("/conversations", controllers.ChatConversations(svcs.Chat, logg))
			r.Post("/read/{userId}", controllers.ChatMarkRead(svcs.Chat, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationsCount(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", controllers.ReportCreate(svcs.Reports, logg))
			r.Get("/mine", controllers.ReportMine(svcs.Reports, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Get("/users", controllers.AdminUserList(svcs.Accounts, logg))
			r.Delete("/users/{userId}", controllers.AdminUserDelete(svcs.Accounts, logg))
			r.Patch("/users/{userId}/ban", controllers.AdminUserBan(svcs.Accounts, logg))
			r.Get("/reports", controllers.AdminReportList(svcs.Reports, logg))
			r.Patch("/reports/{reportId}", controllers.AdminReportResolve(svcs.Reports, logg))
			r.Get("/metrics", controllers.AdminMetrics(svcs.Admin, logg))
		})
	})

	return r
}
