// Package list реализует HTTP-обработчик списка рецептов.
//
// Список доступен без авторизации и поддерживает фильтры по автору и тегам.
// Фильтры по избранному и корзине работают только для вошедшего пользователя,
// для анонимного они игнорируются.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы списка рецептов.
type Handler struct {
	log      *slog.Logger
	service  Service
	pageSize int
}

// Service описывает интерфейс бизнес-логики рецептов.
type Service interface {
	List(ctx context.Context, filter models.RecipeFilter, requesterUID string, limit, offset int) ([]models.RecipeView, int, error)
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
// @Summary Список рецептов
// @Description Возвращает страницу рецептов от новых к старым с учетом фильтров.
// @Tags Recipes
// @Produce  json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Param author query string false "Идентификатор автора"
// @Param tags query []string false "Слаги тегов; совпадение по любому"
// @Param is_favorited query int false "Только избранные текущего пользователя"
// @Param is_in_shopping_cart query int false "Только рецепты из корзины текущего пользователя"
// @Success 200 {object} map[string]any "Страница рецептов"
// @Router /recipes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requesterUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = h.pageSize
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	var filter models.RecipeFilter
	if author := r.URL.Query().Get("author"); author != "" {
		filter.AuthorUID = &author
	}
	filter.TagSlugs = r.URL.Query()["tags"]
	if requesterUID != "" {
		if r.URL.Query().Get("is_favorited") == "1" {
			filter.FavoritedBy = &requesterUID
		}
		if r.URL.Query().Get("is_in_shopping_cart") == "1" {
			filter.InShoppingCart = &requesterUID
		}
	}

	views, total, err := h.service.List(r.Context(), filter, requesterUID, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list recipes", sl.Err(err))
		response.DomainError(w, r, err, "could not list recipes")
		return
	}

	log.Info("recipes listed", "count", len(views))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":   total,
		"results": views,
	}))
}
