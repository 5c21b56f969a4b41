// Package jwt реализует выпуск и проверку подписанных JWT токенов.
//
// Токен всегда содержит claims aud (идентификатор пользователя), iat и exp,
// а также jti для возможности отзыва. Дополнительные claims вызывающей стороны
// накладываются поверх стандартных и могут их переопределить.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL время жизни токена, если в конфиге не задано иное.
const DefaultTTL = 3600 * time.Second

// Имена стандартных claims.
const (
	ClaimAudience  = "aud"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimID        = "jti"
)

// Maker описывает выпуск и проверку токенов.
type Maker interface {
	Sign(aud string) (string, error)
	SignWithClaims(aud string, claims map[string]any) (string, error)
	Verify(token string) (map[string]any, error)
}

// HMACMaker подписывает токены алгоритмом HS256 общим секретом.
type HMACMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACMaker создаёт HMACMaker. Нулевой или отрицательный ttl заменяется на DefaultTTL,
// поэтому для выпуска заведомо просроченных токенов используйте WithClock.
func NewHMACMaker(secret string, ttl time.Duration) (*HMACMaker, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &HMACMaker{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock подменяет источник времени, используемый при выпуске токенов.
func (m *HMACMaker) WithClock(now func() time.Time) *HMACMaker {
	m.now = now
	return m
}

// TTL возвращает время жизни выпускаемых токенов.
func (m *HMACMaker) TTL() time.Duration {
	return m.ttl
}

// Sign выпускает токен только со стандартными claims.
func (m *HMACMaker) Sign(aud string) (string, error) {
	return m.SignWithClaims(aud, nil)
}

// SignWithClaims выпускает токен для aud. exp = iat + ttl в секундах.
func (m *HMACMaker) SignWithClaims(aud string, claims map[string]any) (string, error) {
	const op = "jwt.SignWithClaims"

	iat := m.now().Unix()
	signClaims := jwt.MapClaims{
		ClaimAudience:  aud,
		ClaimIssuedAt:  iat,
		ClaimExpiresAt: iat + int64(m.ttl/time.Second),
		ClaimID:        uuid.NewString(),
	}
	for k, v := range claims {
		signClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signClaims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена и возвращает его claims.
// aud не сверяется: здесь это идентификатор пользователя, а не получатель.
func (m *HMACMaker) Verify(tokenStr string) (map[string]any, error) {
	const op = "jwt.Verify"

	token, err := jwt.Parse(tokenStr, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return map[string]any(claims), nil
}

// ID возвращает jti токена или пустую строку.
func ID(claims map[string]any) string {
	id, _ := claims[ClaimID].(string)
	return id
}

// ExpiresAt возвращает момент истечения токена по claim exp.
func ExpiresAt(claims map[string]any) (time.Time, bool) {
	exp, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
