package subscriptions

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/marusyakotova/foodgram-backend/internal/http/middlewarectx"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// MockService реализует интерфейс subscriptions.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListSubscriptions(ctx context.Context, subscriberUID string, limit, offset, recipesLimit int) ([]models.AuthorView, int, error) {
	args := m.Called(ctx, subscriberUID, limit, offset, recipesLimit)
	views, _ := args.Get(0).([]models.AuthorView)
	return views, args.Int(1), args.Error(2)
}

const testUserUID = "0b2f3e44-5a6b-4c7d-8e9f-0a1b2c3d4e5f"

func TestSubscriptionsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	authorCard := models.AuthorView{
		UserView:     models.UserView{UID: "a1", Username: "author", IsSubscribed: true},
		RecipesCount: 2,
		Recipes:      []models.RecipeSummary{{ID: 1, Name: "Борщ"}},
	}

	tests := []struct {
		name             string
		url              string
		wantLimit        int
		wantOffset       int
		wantRecipesLimit int
	}{
		{
			name:             "recipes_limit по умолчанию равен размеру страницы",
			url:              "/users/subscriptions",
			wantLimit:        6,
			wantOffset:       0,
			wantRecipesLimit: 6,
		},
		{
			name:             "явный recipes_limit передается как есть",
			url:              "/users/subscriptions?recipes_limit=2&page=2&limit=4",
			wantLimit:        4,
			wantOffset:       4,
			wantRecipesLimit: 2,
		},
		{
			name:             "отрицательный recipes_limit заменяется на размер страницы",
			url:              "/users/subscriptions?recipes_limit=-1",
			wantLimit:        6,
			wantOffset:       0,
			wantRecipesLimit: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("ListSubscriptions", mock.Anything, testUserUID,
				tt.wantLimit, tt.wantOffset, tt.wantRecipesLimit).
				Return([]models.AuthorView{authorCard}, 9, nil).Once()

			handler := New(logger, mockService, 6)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			// count — общее число подписок, не длина страницы
			assert.True(t, strings.Contains(w.Body.String(), `"count":9`),
				"response body should contain total count, got %s", w.Body.String())
			assert.True(t, strings.Contains(w.Body.String(), `"username":"author"`))

			mockService.AssertExpectations(t)
		})
	}
}

func TestSubscriptionsHandlerUnauthorized(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	mockService := new(MockService)

	handler := New(logger, mockService, 6)

	req := httptest.NewRequest(http.MethodGet, "/users/subscriptions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "ListSubscriptions")
}
