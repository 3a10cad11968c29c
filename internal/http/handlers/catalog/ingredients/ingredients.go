// Package ingredients реализует HTTP-обработчики справочника ингредиентов.
//
// Список поддерживает фильтрацию по началу названия через query-параметр name.
package ingredients

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
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Service описывает интерфейс справочника ингредиентов.
type Service interface {
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int) (*models.Ingredient, error)
}

// ListHandler обрабатывает запросы списка ингредиентов.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый ListHandler с переданными логгером и сервисом.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ингредиентов
// @Description Возвращает ингредиенты, отфильтрованные по началу названия.
// @Tags Catalog
// @Produce  json
// @Param name query string false "Префикс названия"
// @Success 200 {array} models.Ingredient "Список ингредиентов"
// @Router /ingredients [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ingredients.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	namePrefix := r.URL.Query().Get("name")

	items, err := h.service.ListIngredients(r.Context(), namePrefix)
	if err != nil {
		log.Error("failed to list ingredients", sl.Err(err))
		response.DomainError(w, r, err, "could not list ingredients")
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}

// ReadHandler обрабатывает запросы одного ингредиента.
type ReadHandler struct {
	log     *slog.Logger
	service Service
}

// NewRead создает новый ReadHandler с переданными логгером и сервисом.
func NewRead(log *slog.Logger, service Service) *ReadHandler {
	return &ReadHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Ингредиент по идентификатору
// @Description Возвращает ингредиент по числовому идентификатору.
// @Tags Catalog
// @Produce  json
// @Param id path int true "Идентификатор ингредиента"
// @Success 200 {object} models.Ingredient "Ингредиент"
// @Failure 404 {object} response.ErrorResponse "Ингредиент не найден"
// @Router /ingredients/{id} [get]
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ingredients.read"

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

	item, err := h.service.GetIngredient(r.Context(), id)
	if err != nil {
		log.Error("failed to get ingredient", sl.Err(err))
		response.DomainError(w, r, err, "could not get ingredient")
		return
	}

	render.JSON(w, r, response.OKWithData(item))
}
