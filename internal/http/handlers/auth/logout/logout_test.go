package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/http/middlewarectx"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Logout(ctx context.Context, claims map[string]any) error {
	return m.Called(ctx, claims).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLogoutHandler(t *testing.T) {
	claims := map[string]any{"aud": "id-1", "jti": "token-1", "exp": float64(4102444800)}

	tests := []struct {
		name           string
		claims         map[string]any
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:   "успешный выход",
			claims: claims,
			setupMock: func(m *MockService) {
				m.On("Logout", mock.Anything, claims).Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "без токена",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "ошибка кеша",
			claims: claims,
			setupMock: func(m *MockService) {
				m.On("Logout", mock.Anything, claims).Return(errors.New("redis down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(controller.New(newNoopLogger(), controller.Options{}), svc)

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.claims != nil {
				req = req.WithContext(middlewarectx.WithClaims(req.Context(), "claims", tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestLogoutHandler_MockModeRevokesRealToken(t *testing.T) {
	claims := map[string]any{"aud": "id-1", "jti": "token-1", "exp": float64(4102444800)}

	svc := new(MockService)
	svc.On("Logout", mock.Anything, claims).Return(nil).Once()
	base := controller.New(newNoopLogger(), controller.Options{
		Mock:        map[string]string{controller.MockUserIDKey: "mock-user"},
		MockEnabled: true,
	})
	handler := New(base, svc)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = req.WithContext(middlewarectx.WithClaims(req.Context(), "claims", claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
