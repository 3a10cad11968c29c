// Package subscriptions реализует HTTP-обработчик списка подписок
// текущего пользователя.
package subscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы списка подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	pageSize int
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	ListSubscriptions(ctx context.Context, subscriberUID string, limit, offset, recipesLimit int) ([]models.AuthorView, int, error)
}

// New создает новый Handler с переданными логгером, сервисом и размером страницы.
func New(log *slog.Logger, service Service, pageSize int) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		pageSize: pageSize,
	}
}

// ServeHTTP godoc
// @Summary Мои подписки
// @Description Возвращает страницу авторов, на которых подписан текущий пользователь.
// @Tags Users
// @Produce  json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Param recipes_limit query int false "Сколько рецептов вернуть в каждой карточке"
// @Success 200 {object} map[string]any "Страница подписок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /users/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscriptions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subscriberUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || subscriberUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = h.pageSize
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	// Без recipes_limit превью рецептов ограничивается размером страницы,
	// чтобы карточка автора никогда не приходила пустой.
	recipesLimit, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || recipesLimit <= 0 {
		recipesLimit = h.pageSize
	}

	authors, total, err := h.service.ListSubscriptions(r.Context(), subscriberUID, limit, (page-1)*limit, recipesLimit)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.DomainError(w, r, err, "could not list subscriptions")
		return
	}

	log.Info("subscriptions listed", "count", len(authors))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":   total,
		"results": authors,
	}))
}
