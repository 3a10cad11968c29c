package list

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

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, filter models.RecipeFilter, requesterUID string, limit, offset int) ([]models.RecipeView, int, error) {
	args := m.Called(ctx, filter, requesterUID, limit, offset)
	views, _ := args.Get(0).([]models.RecipeView)
	return views, args.Int(1), args.Error(2)
}

const testUserUID = "0b2f3e44-5a6b-4c7d-8e9f-0a1b2c3d4e5f"

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name         string
		url          string
		userUID      string
		expectFilter func(models.RecipeFilter) bool
		expectLimit  int
		expectOffset int
	}{
		{
			name:    "страница по умолчанию",
			url:     "/recipes",
			userUID: "",
			expectFilter: func(f models.RecipeFilter) bool {
				return f.AuthorUID == nil && len(f.TagSlugs) == 0 &&
					f.FavoritedBy == nil && f.InShoppingCart == nil
			},
			expectLimit:  6,
			expectOffset: 0,
		},
		{
			name:    "пагинация и теги",
			url:     "/recipes?page=3&limit=2&tags=dinner&tags=lunch",
			userUID: "",
			expectFilter: func(f models.RecipeFilter) bool {
				return len(f.TagSlugs) == 2 && f.TagSlugs[0] == "dinner" && f.TagSlugs[1] == "lunch"
			},
			expectLimit:  2,
			expectOffset: 4,
		},
		{
			name:    "фильтр избранного для авторизованного",
			url:     "/recipes?is_favorited=1&is_in_shopping_cart=1",
			userUID: testUserUID,
			expectFilter: func(f models.RecipeFilter) bool {
				return f.FavoritedBy != nil && *f.FavoritedBy == testUserUID &&
					f.InShoppingCart != nil && *f.InShoppingCart == testUserUID
			},
			expectLimit:  6,
			expectOffset: 0,
		},
		{
			name:    "фильтр избранного игнорируется для анонима",
			url:     "/recipes?is_favorited=1",
			userUID: "",
			expectFilter: func(f models.RecipeFilter) bool {
				return f.FavoritedBy == nil && f.InShoppingCart == nil
			},
			expectLimit:  6,
			expectOffset: 0,
		},
		{
			name:    "фильтр по автору",
			url:     "/recipes?author=" + testUserUID,
			userUID: "",
			expectFilter: func(f models.RecipeFilter) bool {
				return f.AuthorUID != nil && *f.AuthorUID == testUserUID
			},
			expectLimit:  6,
			expectOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("List", mock.Anything, mock.MatchedBy(tt.expectFilter),
				tt.userUID, tt.expectLimit, tt.expectOffset).
				Return([]models.RecipeView{{ID: 1, Name: "Борщ"}}, 1, nil).Once()

			handler := New(logger, mockService, 6)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), `"count":1`),
				"response body should contain count, got %s", w.Body.String())
			assert.True(t, strings.Contains(w.Body.String(), `"name":"Борщ"`))

			mockService.AssertExpectations(t)
		})
	}
}
