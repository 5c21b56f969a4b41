// Package login реализует HTTP-обработчик входа: проверяет учётные данные и выдаёт JWT.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// Service выпускает токен по имени пользователя и паролю.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Handler обрабатывает POST /login.
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
// @Summary Авторизация пользователя
// @Description Проверяет имя и пароль. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные пользователя"
// @Success 200 {object} response.OKResponse{data=map[string]string} "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит запросов"
// @Failure 444 {object} response.ErrorResponse "Повторные запросы после отказов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	const op = "handlers.auth.login"
	log := h.base.Logger(r, op)

	var req models.LoginRequest
	if err := h.base.Decode(r, &req); err != nil {
		return err
	}
	if err := h.base.Validate(req); err != nil {
		return err
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		return controller.Unauthorized("invalid credentials")
	}
	if err != nil {
		return controller.InternalErrorWith(err)
	}

	log.Info("login success", slog.String("username", req.Username))
	return h.base.RenderJSON(w, r, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"username":   req.Username,
	})
}
