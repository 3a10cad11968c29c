// Package read реализует HTTP-обработчик просмотра профиля пользователя.
//
// Профиль доступен без авторизации; для вошедшего пользователя поле
// is_subscribed отражает его подписку на просматриваемого автора.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы просмотра профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профилей.
type Service interface {
	GetProfile(ctx context.Context, userUID, requesterUID string) (*models.UserView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль пользователя по идентификатору.
// @Tags Users
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Success 200 {object} models.UserView "Профиль пользователя"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "id")
	requesterUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	profile, err := h.service.GetProfile(r.Context(), userUID, requesterUID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		response.DomainError(w, r, err, "could not get profile")
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
