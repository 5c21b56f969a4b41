// Package remove реализует HTTP-обработчик удаления учётной записи.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// Service удаляет учётную запись.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает DELETE /accounts/{id}.
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
// @Summary Удаление учётной записи
// @Tags Accounts
// @Security BearerAuth
// @Param id path string true "ID учётной записи (uuid)"
// @Success 204 "Удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Router /accounts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	const op = "handlers.account.remove"

	if err := h.base.ValidatePath(r, controller.Path("id", "required,uuid")); err != nil {
		return err
	}
	id := chi.URLParam(r, "id")
	if err := h.base.ForbiddenAccess(r, id); err != nil {
		return err
	}

	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, account.ErrNotFound) {
		return controller.NotFoundBy(id)
	}
	if err != nil {
		return controller.InternalErrorWith(err)
	}

	h.base.Logger(r, op).Info("account deleted", slog.String("account_id", id))
	return h.base.NoContent(w, r)
}
