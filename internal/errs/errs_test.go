package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", NotFound("Рецепт не найден."), ErrNotFound, "Рецепт не найден."},
		{"already exists", AlreadyExists("%s уже в избранном.", "Борщ"), ErrAlreadyExists, "Борщ уже в избранном."},
		{"validation", Validation("Нужно выбрать хотя бы один тег."), ErrValidation, "Нужно выбрать хотя бы один тег."},
		{"permission", Permission("Изменять рецепт может только его автор."), ErrPermission, "Изменять рецепт может только его автор."},
		{"self reference", SelfReference("Вы не можете подписаться на себя."), ErrSelfReference, "Вы не можете подписаться на себя."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())
			assert.True(t, IsDomain(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("нет"), http.StatusNotFound},
		{"permission", Permission("нельзя"), http.StatusForbidden},
		{"already exists", AlreadyExists("дубликат"), http.StatusBadRequest},
		{"validation", Validation("плохой ввод"), http.StatusBadRequest},
		{"self reference", SelfReference("сам на себя"), http.StatusBadRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrappedDomainError(t *testing.T) {
	err := fmt.Errorf("storage.GetRecipe: %w", NotFound("Рецепт не найден."))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsDomain(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestIsDomainPlainError(t *testing.T) {
	assert.False(t, IsDomain(errors.New("plain")))
}
