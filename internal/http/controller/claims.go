package controller

import (
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/apikit/internal/http/middlewarectx"
	"github.com/magabrotheeeer/apikit/internal/http/response"
)

// MockUserIDKey ключ секции mock с подменным идентификатором пользователя.
const MockUserIDKey = "userId"

// Claims возвращает claims токена текущего запроса или nil, если запрос не аутентифицирован.
// В локальном окружении с заполненной секцией mock возвращаются значения из неё.
func (b *Base) Claims(r *http.Request) map[string]any {
	if b.mockEnabled && len(b.mock) > 0 {
		claims := make(map[string]any, len(b.mock))
		for k, v := range b.mock {
			claims[k] = v
		}
		return claims
	}
	return b.TokenClaims(r)
}

// TokenClaims claims проверенного токена из контекста запроса. Секция mock не учитывается.
func (b *Base) TokenClaims(r *http.Request) map[string]any {
	claims, _ := r.Context().Value(middlewarectx.ClaimsKey(b.claimsName)).(map[string]any)
	return claims
}

// Claim возвращает значение claim name.
func (b *Base) Claim(r *http.Request, name string) (any, bool) {
	if b.mockEnabled {
		if v := b.mock[name]; v != "" {
			return v, true
		}
	}
	claims, _ := r.Context().Value(middlewarectx.ClaimsKey(b.claimsName)).(map[string]any)
	v, ok := claims[name]
	return v, ok
}

// ClaimAs возвращает claim name, приведённый к типу T.
func ClaimAs[T any](b *Base, r *http.Request, name string) (T, error) {
	var zero T
	v, ok := b.Claim(r, name)
	if !ok {
		return zero, fmt.Errorf("claim %s: %w", name, ErrMissing)
	}
	return castTo[T](v)
}

// CurrentUserID идентификатор текущего пользователя (claim aud) или пустая строка.
func (b *Base) CurrentUserID(r *http.Request) string {
	if b.mockEnabled {
		if id := b.mock[MockUserIDKey]; id != "" {
			return id
		}
	}
	id, _ := r.Context().Value(middlewarectx.Audience).(string)
	return id
}

// CurrentUserIDAs идентификатор текущего пользователя, приведённый к типу T.
func CurrentUserIDAs[T any](b *Base, r *http.Request) (T, error) {
	var zero T
	id := b.CurrentUserID(r)
	if id == "" {
		return zero, fmt.Errorf("current user id: %w", ErrMissing)
	}
	return castTo[T](id)
}

// ForbiddenAccess возвращает 403, если текущий пользователь не владелец ресурса ownerID.
// Проверка работает только при включённом api.forbidden_check.
func (b *Base) ForbiddenAccess(r *http.Request, ownerID any) error {
	if !b.forbiddenCheck {
		return nil
	}
	currentID := b.CurrentUserID(r)
	if currentID == "" {
		b.Logger(r, "controller.ForbiddenAccess").
			Error("current id is empty, route must be behind JWTMiddleware", "path", r.URL.Path)
		return nil
	}
	if currentID != fmt.Sprint(ownerID) {
		return ForbiddenError(response.WithCode(response.CodeClientAccessDenied))
	}
	return nil
}
