package response

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
)

// DomainError отдаёт клиенту доменную ошибку с её сообщением и статусом.
// Недоменные ошибки скрываются за fallback-сообщением и статусом 500.
func DomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errs.IsDomain(err) {
		w.WriteHeader(errs.HTTPStatus(err))
		render.JSON(w, r, Error(err.Error()))
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	render.JSON(w, r, Error(fallback))
}
