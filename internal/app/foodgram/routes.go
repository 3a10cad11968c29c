package foodgram

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/marusyakotova/foodgram-backend/internal/config"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/auth/login"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/auth/register"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/catalog/ingredients"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/catalog/tags"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/health"
	membershipadd "github.com/marusyakotova/foodgram-backend/internal/http/handlers/membership/add"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/membership/download"
	membershipremove "github.com/marusyakotova/foodgram-backend/internal/http/handlers/membership/remove"
	recipecreate "github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/create"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/getlink"
	recipelist "github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/list"
	reciperead "github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/read"
	reciperemove "github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/remove"
	recipeupdate "github.com/marusyakotova/foodgram-backend/internal/http/handlers/recipe/update"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/shortlink/redirect"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/avatar"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/me"
	userread "github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/read"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/subscribe"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/subscriptions"
	"github.com/marusyakotova/foodgram-backend/internal/http/handlers/user/unsubscribe"
	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	authservice "github.com/marusyakotova/foodgram-backend/internal/services/auth"
	catalogservice "github.com/marusyakotova/foodgram-backend/internal/services/catalog"
	membershipservice "github.com/marusyakotova/foodgram-backend/internal/services/membership"
	recipeservice "github.com/marusyakotova/foodgram-backend/internal/services/recipe"
	userservice "github.com/marusyakotova/foodgram-backend/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	userService *userservice.UserService,
	catalogService *catalogservice.CatalogService,
	recipeService *recipeservice.RecipeService,
	membershipService *membershipservice.MembershipService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/tags", tags.NewList(logger, catalogService).ServeHTTP)
		r.Get("/tags/{id}", tags.NewRead(logger, catalogService).ServeHTTP)
		r.Get("/ingredients", ingredients.NewList(logger, catalogService).ServeHTTP)
		r.Get("/ingredients/{id}", ingredients.NewRead(logger, catalogService).ServeHTTP)

		// Чтение с необязательной аутентификацией: персональные флаги
		// проставляются только вошедшим пользователям
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(authService, logger))
			r.Get("/users/{id}", userread.New(logger, userService).ServeHTTP)
			r.Get("/recipes", recipelist.New(logger, recipeService, cfg.PageSize).ServeHTTP)
			r.Get("/recipes/{id}", reciperead.New(logger, recipeService).ServeHTTP)
			r.Get("/recipes/{id}/get-link", getlink.New(logger, recipeService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/me", me.New(logger, userService).ServeHTTP)
			r.Put("/users/me/avatar", avatar.NewSet(logger, userService).ServeHTTP)
			r.Delete("/users/me/avatar", avatar.NewDelete(logger, userService).ServeHTTP)
			r.Get("/users/subscriptions", subscriptions.New(logger, userService, cfg.PageSize).ServeHTTP)
			r.Post("/users/{id}/subscribe", subscribe.New(logger, userService, cfg.PageSize).ServeHTTP)
			r.Delete("/users/{id}/subscribe", unsubscribe.New(logger, userService).ServeHTTP)

			r.Post("/recipes", recipecreate.New(logger, recipeService).ServeHTTP)
			r.Patch("/recipes/{id}", recipeupdate.New(logger, recipeService).ServeHTTP)
			r.Delete("/recipes/{id}", reciperemove.New(logger, recipeService).ServeHTTP)

			r.Post("/recipes/{id}/favorite", membershipadd.New(logger, membershipService.Favorites()).ServeHTTP)
			r.Delete("/recipes/{id}/favorite", membershipremove.New(logger, membershipService.Favorites()).ServeHTTP)
			r.Post("/recipes/{id}/shopping_cart", membershipadd.New(logger, membershipService.ShoppingCart()).ServeHTTP)
			r.Delete("/recipes/{id}/shopping_cart", membershipremove.New(logger, membershipService.ShoppingCart()).ServeHTTP)
			r.Get("/recipes/download_shopping_cart", download.New(logger, membershipService).ServeHTTP)
		})
	})

	// Переход по короткой ссылке живет вне /api
	r.Get("/s/{token}", redirect.New(logger, recipeService).ServeHTTP)

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
