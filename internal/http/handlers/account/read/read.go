// Package read реализует HTTP-обработчики чтения учётной записи по id и текущей (me).
package read

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/apikit/internal/http/controller"
	"github.com/magabrotheeeer/apikit/internal/models"
	"github.com/magabrotheeeer/apikit/internal/services/account"
)

// Service возвращает учётную запись по id.
type Service interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

// Handler обрабатывает GET /accounts/{id}.
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
// @Summary Учётная запись по id
// @Tags Accounts
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID учётной записи (uuid)"
// @Success 200 {object} response.OKResponse{data=models.Account}
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Чужая учётная запись"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(h.handle)(w, r)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	if err := h.base.ValidatePath(r, controller.Path("id", "required,uuid")); err != nil {
		return err
	}
	id := chi.URLParam(r, "id")
	if err := h.base.ForbiddenAccess(r, id); err != nil {
		return err
	}
	return h.render(w, r, id)
}

// Me обработчик GET /accounts/me: учётная запись владельца токена.
// @Summary Своя учётная запись
// @Tags Accounts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=models.Account}
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 404 {object} response.ErrorResponse "Не найдена"
// @Router /accounts/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	h.base.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id := h.base.CurrentUserID(r)
		if id == "" {
			return controller.Unauthorized("")
		}
		return h.render(w, r, id)
	})(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, id string) error {
	const op = "handlers.account.read"

	acc, err := h.service.Get(r.Context(), id)
	if errors.Is(err, account.ErrNotFound) {
		return controller.NotFoundBy(id)
	}
	if err != nil {
		return controller.InternalErrorWith(err)
	}

	h.base.Logger(r, op).Debug("account read", "account_id", id)
	return h.base.RenderJSON(w, r, acc)
}
