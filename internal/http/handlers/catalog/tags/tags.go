// Package tags реализует HTTP-обработчики справочника тегов.
package tags

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

// Service описывает интерфейс справочника тегов.
type Service interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int) (*models.Tag, error)
}

// ListHandler обрабатывает запросы полного списка тегов.
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
// @Summary Список тегов
// @Description Возвращает все теги без пагинации.
// @Tags Catalog
// @Produce  json
// @Success 200 {array} models.Tag "Список тегов"
// @Router /tags [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.tags.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		log.Error("failed to list tags", sl.Err(err))
		response.DomainError(w, r, err, "could not list tags")
		return
	}

	render.JSON(w, r, response.OKWithData(tags))
}

// ReadHandler обрабатывает запросы одного тега.
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
// @Summary Тег по идентификатору
// @Description Возвращает тег по числовому идентификатору.
// @Tags Catalog
// @Produce  json
// @Param id path int true "Идентификатор тега"
// @Success 200 {object} models.Tag "Тег"
// @Failure 404 {object} response.ErrorResponse "Тег не найден"
// @Router /tags/{id} [get]
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.tags.read"

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

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		log.Error("failed to get tag", sl.Err(err))
		response.DomainError(w, r, err, "could not get tag")
		return
	}

	render.JSON(w, r, response.OKWithData(tag))
}
