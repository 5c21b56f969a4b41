package middlewarectx

import "context"

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Audience ключ для идентификатора пользователя (claim aud) в контексте
	Audience Key = "aud"
	// Token ключ для исходной строки токена в контексте
	Token Key = "token"
)

// ClaimsKey ключ, под которым в контексте хранится карта claims.
// Имя задаётся в конфиге (api.claims_name).
func ClaimsKey(name string) Key {
	return Key("claims:" + name)
}

// WithClaims кладёт claims и aud в контекст так же, как это делает JWTMiddleware.
func WithClaims(ctx context.Context, claimsName string, claims map[string]any) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey(claimsName), claims)
	if aud, ok := claims["aud"]; ok && aud != nil {
		ctx = context.WithValue(ctx, Audience, audienceString(aud))
	}
	return ctx
}
