package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error) {
	args := m.Called(ctx, req)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	valid := models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedCode   string
		expectedError  string
	}{
		{
			name: "успешная регистрация",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, valid).
					Return(&models.Account{ID: "id-1", Username: "alice", Email: "alice@example.com", Role: "user"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "невалидный json",
			body:           `{"username":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "CLIENT_REQUEST_ERROR",
			expectedError:  "invalid request body",
		},
		{
			name:           "ошибка валидации",
			body:           `{"username":"alice","password":"password123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "CLIENT_REQUEST_ERROR",
			expectedError:  "field Email is a required field",
		},
		{
			name: "имя занято",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, valid).Return(nil, account.ErrAlreadyExists).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "CLIENT_REQUEST_ERROR",
			expectedError:  "account already exists",
		},
		{
			name: "ошибка сервиса",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, valid).Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "SERVER_INTERNAL_ERROR",
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(controller.New(newNoopLogger(), controller.Options{}), svc)

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			if tt.expectedCode != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.expectedCode, got["code"])
				assert.Equal(t, tt.expectedError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "id-1", data["id"])
				assert.NotContains(t, data, "PasswordHash")
			}
			svc.AssertExpectations(t)
		})
	}
}
