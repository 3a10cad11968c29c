// Package update реализует HTTP-обработчик изменения рецепта.
//
// Изменение выполняется целиком: состав тегов и ингредиентов заменяется
// на присланный. Изменять рецепт может только его автор.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler управляет HTTP-запросами на изменение рецептов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	Update(ctx context.Context, recipeID int, authorUID string, req models.DummyRecipe) error
	Get(ctx context.Context, recipeID int, requesterUID string) (*models.RecipeView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить рецепт
// @Description Полностью заменяет данные рецепта. Доступно только автору.
// @Tags Recipes
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор рецепта"
// @Param request body models.DummyRecipe true "Новые данные рецепта"
// @Success 200 {object} models.RecipeView "Обновленный рецепт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестные теги и ингредиенты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Рецепт принадлежит другому автору"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.update"

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

	var req models.DummyRecipe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	if err := h.service.Update(r.Context(), id, userUID, req); err != nil {
		log.Error("failed to update recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not update recipe")
		return
	}

	view, err := h.service.Get(r.Context(), id, userUID)
	if err != nil {
		log.Error("failed to load updated recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not load updated recipe")
		return
	}

	log.Info("recipe updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(view))
}
