// Package remove реализует HTTP-обработчик удаления рецепта.
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

// Handler обрабатывает HTTP-запросы удаления рецепта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	Delete(ctx context.Context, recipeID int, authorUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить рецепт
// @Description Удаляет рецепт вместе со связями. Доступно только автору.
// @Tags Recipes
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Success 204 "Рецепт удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Рецепт принадлежит другому автору"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.remove"

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

	if err := h.service.Delete(r.Context(), id, userUID); err != nil {
		log.Error("failed to delete recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not delete recipe")
		return
	}

	log.Info("recipe deleted", slog.Int("id", id))
	w.WriteHeader(http.StatusNoContent)
}
