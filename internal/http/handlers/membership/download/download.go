// Package download реализует HTTP-обработчик выгрузки списка покупок.
//
// Список строится по корзине текущего пользователя: одинаковые ингредиенты
// суммируются, результат отдается текстовым файлом.
package download

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выгрузки списка покупок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс агрегатора списка покупок.
type Service interface {
	BuildShoppingList(ctx context.Context, userUID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузить список покупок
// @Description Возвращает текстовый файл с суммированными ингредиентами корзины.
// @Tags Memberships
// @Produce  plain
// @Success 200 {string} string "Список покупок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.download"

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

	list, err := h.service.BuildShoppingList(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build shopping list", sl.Err(err))
		response.DomainError(w, r, err, "could not build shopping list")
		return
	}

	log.Info("shopping list built")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(list))
}
