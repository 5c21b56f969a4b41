// Package update реализует HTTP-обработчик изменения email и пароля учётной записи.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// Service изменяет учётную запись.
type Service interface {
	Update(ctx context.Context, id string, req models.UpdateRequest) (*models.Account, error)
}

// Handler обрабатывает PUT /accounts/{id}.
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
// @Summary Изменение учётной записи
// @Description Меняет email и/или пароль. Пустые поля не меняются.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID учётной записи (uuid)"
// @Param request body models.UpdateRequest true "Новые значения"
// @Success 200 {object} response.OKResponse{data=models.Account}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или email занят"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	const op = "handlers.account.update"
	log := h.base.Logger(r, op)

	if err := h.base.ValidatePath(r, controller.Path("id", "required,uuid")); err != nil {
		return err
	}
	id := chi.URLParam(r, "id")
	if err := h.base.ForbiddenAccess(r, id); err != nil {
		return err
	}

	var req models.UpdateRequest
	if err := h.base.Decode(r, &req); err != nil {
		return err
	}
	if err := h.base.Validate(req); err != nil {
		return err
	}
	if req.Email == "" && req.Password == "" {
		return controller.BadRequest("nothing to update")
	}

	acc, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, account.ErrNotFound):
		return controller.NotFoundBy(id)
	case errors.Is(err, account.ErrAlreadyExists):
		return controller.BadRequest("email is already taken")
	case err != nil:
		return controller.InternalErrorWith(err)
	}

	log.Info("account updated", slog.String("account_id", id))
	return h.base.RenderJSON(w, r, acc)
}
