// Package create реализует HTTP-обработчик создания рецептов.
//
// Handler принимает JSON-запрос с данными рецепта, валидирует их, извлекает
// идентификатор пользователя из контекста, вызывает бизнес-логику создания
// рецепта и возвращает карточку созданного рецепта в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler управляет HTTP-запросами на создание рецептов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	Create(ctx context.Context, authorUID string, req models.DummyRecipe) (int, error)
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
// @Summary Создать рецепт
// @Description Создает новый рецепт текущего пользователя. Возвращает карточку рецепта.
// @Tags Recipes
// @Accept  json
// @Produce  json
// @Param request body models.DummyRecipe true "Данные нового рецепта"
// @Success 201 {object} models.RecipeView "Созданный рецепт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестные теги и ингредиенты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании рецепта"
// @Router /recipes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.create"

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

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not create recipe")
		return
	}

	view, err := h.service.Get(r.Context(), id, userUID)
	if err != nil {
		log.Error("failed to load created recipe", sl.Err(err))
		response.DomainError(w, r, err, "could not load created recipe")
		return
	}

	log.Info("recipe created", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(view))
}
