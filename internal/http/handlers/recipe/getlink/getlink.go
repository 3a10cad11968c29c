// Package getlink реализует HTTP-обработчик получения короткой ссылки рецепта.
package getlink

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы короткой ссылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	GetLink(ctx context.Context, recipeID int) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Короткая ссылка на рецепт
// @Description Возвращает постоянную короткую ссылку рецепта.
// @Tags Recipes
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Success 200 {object} map[string]any "Короткая ссылка"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id}/get-link [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.getlink"

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

	link, err := h.service.GetLink(r.Context(), id)
	if err != nil {
		log.Error("failed to get short link", sl.Err(err))
		response.DomainError(w, r, err, "could not get short link")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"short-link": link,
	}))
}
