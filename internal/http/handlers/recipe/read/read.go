// Package read реализует HTTP-обработчик просмотра рецепта.
package read

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

// Handler обрабатывает HTTP-запросы просмотра рецепта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	Get(ctx context.Context, recipeID int, requesterUID string) (*models.RecipeView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Рецепт по идентификатору
// @Description Возвращает карточку рецепта. Для вошедшего пользователя проставляются персональные флаги.
// @Tags Recipes
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Success 200 {object} models.RecipeView "Карточка рецепта"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	requesterUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	view, err := h.service.Get(r.Context(), id, requesterUID)
	if err != nil {
		log.Error("failed to get recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not get recipe")
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
