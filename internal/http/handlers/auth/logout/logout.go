// Package logout реализует HTTP-обработчик выхода с отзывом текущего токена.
package logout

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
)

// Service отзывает токен по его claims.
type Service interface {
	Logout(ctx context.Context, claims map[string]any) error
}

// Handler обрабатывает POST /logout.
type Handler struct {
	base    *controller.Base
	service Service
}

// New создает Handler.
func New(base *controller.Base, service Service) *Handler {
	return &Handler{
		base:    base,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Отзывает текущий токен до его истечения.
// @Tags Auth
// @Security BearerAuth
// @Success 204 "Токен отозван"
// @Failure 401 {object} response.ErrorResponse "Нет токена или токен недействителен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	const op = "handlers.auth.logout"

	claims := h.base.TokenClaims(r)
	if claims == nil {
		return controller.Unauthorized("")
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		return controller.InternalErrorWith(err)
	}

	h.base.Logger(r, op).Info("token revoked", "aud", h.base.CurrentUserID(r))
	return h.base.NoContent(w, r)
}
