// Package unsubscribe реализует HTTP-обработчик отписки от автора.
package unsubscribe

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
)

// Handler обрабатывает HTTP-запросы отписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	Unsubscribe(ctx context.Context, subscriberUID, authorUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отписаться от автора
// @Description Удаляет подписку текущего пользователя на автора.
// @Tags Users
// @Produce  json
// @Param id path string true "Идентификатор автора"
// @Success 204 "Подписка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не существует"
// @Router /users/{id}/subscribe [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.unsubscribe"

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

	if err := h.service.Unsubscribe(r.Context(), subscriberUID, authorUID); err != nil {
		log.Error("failed to unsubscribe", sl.Err(err))
		response.DomainError(w, r, err, "could not unsubscribe")
		return
	}

	log.Info("unsubscribed", slog.String("author_uid", authorUID))
	w.WriteHeader(http.StatusNoContent)
}
