// Package register реализует HTTP-обработчик регистрации учётной записи.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// Service регистрирует учётные записи.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Account, error)
}

// Handler обрабатывает POST /register.
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
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись с ролью user.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные нового пользователя"
// @Success 201 {object} response.OKResponse{data=models.Account} "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ошибка валидации или пользователь уже существует"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит запросов"
// @Failure 444 {object} response.ErrorResponse "Повторные запросы после отказов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	const op = "handlers.auth.register"
	log := h.base.Logger(r, op)

	var req models.RegisterRequest
	if err := h.base.Decode(r, &req); err != nil {
		return err
	}
	if err := h.base.Validate(req); err != nil {
		return err
	}

	acc, err := h.service.Register(r.Context(), req)
	if errors.Is(err, account.ErrAlreadyExists) {
		return controller.BadRequest("account already exists")
	}
	if err != nil {
		return controller.InternalErrorWith(err)
	}

	log.Info("account registered", slog.String("account_id", acc.ID))
	return h.base.Created(w, r, acc)
}
