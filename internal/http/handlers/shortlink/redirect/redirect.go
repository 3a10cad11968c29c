// Package redirect реализует HTTP-обработчик перехода по короткой ссылке.
//
// По токену из пути находится рецепт, и клиент перенаправляется на его
// каноническую страницу в API.
package redirect

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/marusyakotova/foodgram-backend/internal/http/response"
	"github.com/marusyakotova/foodgram-backend/internal/lib/sl"
)

// Handler обрабатывает переходы по коротким ссылкам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс разрешения коротких ссылок.
type Service interface {
	ResolveShortLink(ctx context.Context, token string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переход по короткой ссылке
// @Description Перенаправляет на страницу рецепта по токену короткой ссылки.
// @Tags Recipes
// @Param token path string true "Токен короткой ссылки"
// @Success 302 "Перенаправление на рецепт"
// @Failure 404 {object} response.ErrorResponse "Ссылка не существует"
// @Router /s/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shortlink.redirect"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")

	id, err := h.service.ResolveShortLink(r.Context(), token)
	if err != nil {
		log.Error("failed to resolve short link", sl.Err(err))
		response.DomainError(w, r, err, "could not resolve short link")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/api/recipes/%d/", id), http.StatusFound)
}
