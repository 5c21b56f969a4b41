package middlewarectx_test

import (
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

	"github.com/magabrotheeeer/apikit/internal/http/middlewarectx"
	"github.com/magabrotheeeer/apikit/internal/http/response"
)

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(token string) (map[string]any, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(map[string]any)
	return claims, args.Error(1)
}

type RevocationMock struct {
	mock.Mock
}

func (m *RevocationMock) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	validClaims := map[string]any{"aud": "user-1", "jti": "token-1", "role": "user"}

	tests := []struct {
		name           string
		authHeader     string
		setup          func(v *VerifierMock, rv *RevocationMock)
		wantStatusCode int
		wantCode       response.ErrorCode
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			setup:          func(_ *VerifierMock, _ *RevocationMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       response.CodeClientAuthError,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setup:          func(_ *VerifierMock, _ *RevocationMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       response.CodeClientAuthError,
		},
		{
			name:       "token verification error",
			authHeader: "Bearer bad",
			setup: func(v *VerifierMock, _ *RevocationMock) {
				v.On("Verify", "bad").Return(nil, errors.New("token expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       response.CodeClientAuthError,
		},
		{
			name:       "revoked token",
			authHeader: "Bearer revoked",
			setup: func(v *VerifierMock, rv *RevocationMock) {
				v.On("Verify", "revoked").Return(validClaims, nil).Once()
				rv.On("IsRevoked", mock.Anything, "token-1").Return(true, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       response.CodeClientAuthError,
		},
		{
			name:       "revocation store error",
			authHeader: "Bearer valid",
			setup: func(v *VerifierMock, rv *RevocationMock) {
				v.On("Verify", "valid").Return(validClaims, nil).Once()
				rv.On("IsRevoked", mock.Anything, "token-1").Return(false, errors.New("redis down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       response.CodeServerInternalError,
		},
		{
			name:       "valid token",
			authHeader: "Bearer valid",
			setup: func(v *VerifierMock, rv *RevocationMock) {
				v.On("Verify", "valid").Return(validClaims, nil).Once()
				rv.On("IsRevoked", mock.Anything, "token-1").Return(false, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(VerifierMock)
			revocations := new(RevocationMock)
			tt.setup(verifier, revocations)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, validClaims, r.Context().Value(middlewarectx.ClaimsKey("claims")))
				assert.Equal(t, "user-1", r.Context().Value(middlewarectx.Audience))
				assert.Equal(t, "valid", r.Context().Value(middlewarectx.Token))
				w.WriteHeader(http.StatusOK)
			})

			h := middlewarectx.JWTMiddleware(verifier, revocations, "claims", newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if !tt.wantCalled {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
			verifier.AssertExpectations(t)
			revocations.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_WithoutRevocationChecker(t *testing.T) {
	verifier := new(VerifierMock)
	verifier.On("Verify", "tok").Return(map[string]any{"aud": float64(7)}, nil).Once()

	var gotAud any
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotAud = r.Context().Value(middlewarectx.Audience)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	middlewarectx.JWTMiddleware(verifier, nil, "claims", newNoopLogger())(next).
		ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "7", gotAud)
}

func TestWithClaims_ArrayAudience(t *testing.T) {
	ctx := middlewarectx.WithClaims(context.Background(), "claims", map[string]any{"aud": []any{"first", "second"}})
	assert.Equal(t, "first", ctx.Value(middlewarectx.Audience))

	ctx = middlewarectx.WithClaims(context.Background(), "claims", map[string]any{"role": "x"})
	assert.Nil(t, ctx.Value(middlewarectx.Audience))
}
