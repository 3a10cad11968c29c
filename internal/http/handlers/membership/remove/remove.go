// Package remove реализует HTTP-обработчик исключения рецепта из
// пользовательского множества. Обслуживает избранное и корзину покупок:
// конкретное множество выбирается при сборке маршрутов.
package remove

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
)

// Handler обрабатывает HTTP-запросы исключения из множества.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс одного пользовательского множества.
type Service interface {
	Remove(ctx context.Context, userUID string, recipeID int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Исключить рецепт из множества
// @Description Убирает рецепт из избранного или корзины покупок текущего пользователя.
// @Tags Memberships
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Success 204 "Рецепт исключен"
// @Failure 400 {object} response.ErrorResponse "Рецепта нет в множестве"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.Remove(r.Context(), userUID, id); err != nil {
		log.Error("failed to remove recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not remove recipe")
		return
	}

	log.Info("recipe removed", slog.Int("id", id))
	w.WriteHeader(http.StatusNoContent)
}
