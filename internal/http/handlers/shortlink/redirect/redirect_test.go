package redirect

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
)

// MockService реализует интерфейс redirect.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ResolveShortLink(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func TestRedirectHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name             string
		token            string
		setupMock        func(*MockService)
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:  "успешное перенаправление",
			token: "abcde12345",
			setupMock: func(m *MockService) {
				m.On("ResolveShortLink", mock.Anything, "abcde12345").Return(42, nil).Once()
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/api/recipes/42/",
		},
		{
			name:  "ссылка не существует",
			token: "missing000",
			setupMock: func(m *MockService) {
				m.On("ResolveShortLink", mock.Anything, "missing000").
					Return(0, errs.NotFound("Ссылка не найдена.")).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/s/"+tt.token, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("token", tt.token)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
			}

			mockService.AssertExpectations(t)
		})
	}
}
