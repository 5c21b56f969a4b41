package jwt

import "errors"

var (
	ErrEmptySecret  = errors.New("empty secret")  // ErrEmptySecret - не задан ключ подписи
	ErrInvalidToken = errors.New("invalid token") // ErrInvalidToken - подпись, формат или алгоритм токена некорректны
	ErrTokenExpired = errors.New("token expired") // ErrTokenExpired - срок действия токена истёк
)
