package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-role-auth/internal/config"
	"go-role-auth/internal/handler"
	"go-role-auth/internal/metrics"
	"go-role-auth/internal/middleware"
	"go-role-auth/internal/model"
)

func New(
	cfg *config.Config,
	logger *slog.Logger,
	appMetrics *metrics.Metrics,
	authMiddleware *middleware.AuthMiddleware,
	accountHandler *handler.AccountHandler,
	roleHandler *handler.RoleHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(logger))
	r.Use(appMetrics.Middleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/account", func(account chi.Router) {
			account.Post("/register", accountHandler.Register)
			account.Post("/login", accountHandler.Login)
			account.With(authMiddleware.RequireAuth).Get("/me", accountHandler.Me)
		})

		api.Route("/roles", func(roles chi.Router) {
			roles.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.AdminRole))

			roles.Post("/create-role", roleHandler.CreateRole)
			roles.Get("/get-roles", roleHandler.ListRoles)
			roles.Delete("/{id}", roleHandler.DeleteRole)
			roles.Post("/role-assign", roleHandler.AssignRole)
		})
	})

	return r
}
