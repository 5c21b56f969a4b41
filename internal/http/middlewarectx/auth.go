// Package middlewarectx содержит HTTP middleware: проверку JWT, ограничение частоты
// запросов и сбор метрик.
//
// JWTMiddleware проверяет токен из заголовка Authorization и в случае успеха кладёт
// в контекст карту claims, идентификатор пользователя (aud) и сам токен.
// В случае ошибки проверки возвращает HTTP 401 с JSON-описанием ошибки.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/apikit/internal/http/response"
	"github.com/magabrotheeeer/apikit/internal/lib/jwt"
	"github.com/magabrotheeeer/apikit/internal/lib/sl"
)

// Verifier проверяет подпись и срок действия токена.
type Verifier interface {
	Verify(token string) (map[string]any, error)
}

// RevocationChecker сообщает, отозван ли токен с данным jti.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTMiddleware возвращает middleware, который проверяет JWT в заголовке Authorization.
// revoked может быть nil, тогда отзыв токенов не проверяется.
func JWTMiddleware(verifier Verifier, revoked RevocationChecker, claimsName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("missing or invalid authorization header")
				unauthorized(w, r, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				unauthorized(w, r, "invalid or expired token")
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), jwt.ID(claims))
				if err != nil {
					log.Error("failed to check token revocation", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.WithCode(response.CodeServerInternalError).Response())
					return
				}
				if isRevoked {
					log.Info("token is revoked")
					unauthorized(w, r, "token is revoked")
					return
				}
			}

			ctx := WithClaims(r.Context(), claimsName, claims)
			ctx = context.WithValue(ctx, Token, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error{Code: response.CodeClientAuthError, Message: msg}.Response())
}

// audienceString приводит claim aud к строке. По RFC 7519 aud может быть массивом,
// тогда берётся первый элемент.
func audienceString(aud any) string {
	switch v := aud.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return audienceString(v[0])
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	default:
		return ""
	}
}
