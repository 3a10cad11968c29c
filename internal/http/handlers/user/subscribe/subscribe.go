// Package subscribe реализует HTTP-обработчик подписки на автора.
//
// В ответ возвращается карточка автора с его рецептами; количество рецептов
// в карточке ограничивается query-параметром recipes_limit.
package subscribe

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	pageSize int
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	Subscribe(ctx context.Context, subscriberUID, authorUID string, recipesLimit int) (*models.AuthorView, error)
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
// @Summary Подписаться на автора
// @Description Подписывает текущего пользователя на автора. Возвращает карточку автора.
// @Tags Users
// @Produce  json
// @Param id path string true "Идентификатор автора"
// @Param recipes_limit query int false "Сколько рецептов автора вернуть"
// @Success 201 {object} models.AuthorView "Карточка автора"
// @Failure 400 {object} response.ErrorResponse "Повторная подписка или подписка на себя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автор не найден"
// @Router /users/{id}/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.subscribe"

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

	authorUID := chi.URLParam(r, "id")

	// Без recipes_limit превью рецептов ограничивается размером страницы,
	// чтобы карточка автора никогда не приходила пустой.
	recipesLimit, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || recipesLimit <= 0 {
		recipesLimit = h.pageSize
	}

	author, err := h.service.Subscribe(r.Context(), subscriberUID, authorUID, recipesLimit)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		response.DomainError(w, r, err, "could not subscribe")
		return
	}

	log.Info("subscribed", slog.String("author_uid", authorUID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(author))
}
