// Package foodgram собирает приложение рецептурной платформы: хранилище,
// кеш, сервисы и HTTP-сервер с маршрутами.
package foodgram

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/marusyakotova/foodgram-backend/internal/cache"
	"github.com/marusyakotova/foodgram-backend/internal/config"
	"github.com/marusyakotova/foodgram-backend/internal/lib/jwt"
	"github.com/marusyakotova/foodgram-backend/internal/migrations"
	authservice "github.com/marusyakotova/foodgram-backend/internal/services/auth"
	catalogservice "github.com/marusyakotova/foodgram-backend/internal/services/catalog"
	membershipservice "github.com/marusyakotova/foodgram-backend/internal/services/membership"
	recipeservice "github.com/marusyakotova/foodgram-backend/internal/services/recipe"
	userservice "github.com/marusyakotova/foodgram-backend/internal/services/user"
	"github.com/marusyakotova/foodgram-backend/internal/storage/repository"
)

// App хранит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует зависимости приложения и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	userService := userservice.NewUserService(db, logger)
	catalogService := catalogservice.NewCatalogService(db)
	recipeService := recipeservice.NewRecipeService(db, cacheRedis, logger, cfg.ShortLink.BaseURL)
	membershipService := membershipservice.NewMembershipService(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, authService, userService, catalogService, recipeService, membershipService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
