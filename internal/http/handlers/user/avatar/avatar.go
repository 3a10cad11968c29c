// Package avatar реализует HTTP-обработчики установки и удаления аватара
// текущего пользователя.
package avatar

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

// Service описывает интерфейс бизнес-логики аватаров.
type Service interface {
	SetAvatar(ctx context.Context, userUID, avatar string) error
	DeleteAvatar(ctx context.Context, userUID string) error
}

// SetHandler обрабатывает установку аватара.
type SetHandler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// NewSet создает новый SetHandler с переданными логгером и сервисом.
func NewSet(log *slog.Logger, service Service) *SetHandler {
	return &SetHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Установить аватар
// @Description Сохраняет аватар текущего пользователя.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.DummyAvatar true "Аватар"
// @Success 200 {object} map[string]any "Аватар сохранен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/me/avatar [put]
func (h *SetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.avatar.set"

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

	var req models.DummyAvatar
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

	if err := h.service.SetAvatar(r.Context(), userUID, req.Avatar); err != nil {
		log.Error("failed to set avatar", sl.Err(err))
		response.DomainError(w, r, err, "could not set avatar")
		return
	}

	log.Info("avatar updated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"avatar": req.Avatar,
	}))
}

// DeleteHandler обрабатывает удаление аватара.
type DeleteHandler struct {
	log     *slog.Logger
	service Service
}

// NewDelete создает новый DeleteHandler с переданными логгером и сервисом.
func NewDelete(log *slog.Logger, service Service) *DeleteHandler {
	return &DeleteHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить аватар
// @Description Удаляет аватар текущего пользователя.
// @Tags Users
// @Produce  json
// @Success 204 "Аватар удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /users/me/avatar [delete]
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.avatar.delete"

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

	if err := h.service.DeleteAvatar(r.Context(), userUID); err != nil {
		log.Error("failed to delete avatar", sl.Err(err))
		response.DomainError(w, r, err, "could not delete avatar")
		return
	}

	log.Info("avatar deleted")
	w.WriteHeader(http.StatusNoContent)
}
