// Package add реализует HTTP-обработчик добавления рецепта в пользовательское
// множество. Один и тот же обработчик обслуживает избранное и корзину покупок:
// конкретное множество выбирается при сборке маршрутов.
package add

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

// Handler обрабатывает HTTP-запросы добавления в множество.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс одного пользовательского множества.
type Service interface {
	Add(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Добавить рецепт в множество
// @Description Добавляет рецепт в избранное или корзину покупок текущего пользователя.
// @Tags Memberships
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Success 201 {object} models.RecipeSummary "Краткая карточка рецепта"
// @Failure 400 {object} response.ErrorResponse "Рецепт уже в множестве"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id}/favorite [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.add"

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

	summary, err := h.service.Add(r.Context(), userUID, id)
	if err != nil {
		log.Error("failed to add recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not add recipe")
		return
	}

	log.Info("recipe added", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(summary))
}
