// Package controller содержит базовый контроллер REST API.
//
// Обработчики возвращают error: *Result описывает ответ с ошибкой (400, 401, 403,
// 404, 444, 500), любая другая ошибка превращается в 500 без раскрытия деталей.
// Успешные ответы пишутся методами RenderJSON, Created и NoContent.
// Кроме того, контроллер достаёт claims аутентификации из контекста запроса,
// который заполнил middlewarectx.JWTMiddleware, и валидирует входные данные.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/apikit/internal/http/response"
	"github.com/magabrotheeeer/apikit/internal/lib/sl"
)

// HandlerFunc обработчик, который может прервать запрос, вернув *Result.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorObserver получает код каждой отрендеренной ошибки (например, для метрик).
type ErrorObserver interface {
	ObserveError(code response.ErrorCode)
}

// Options настройки базового контроллера.
type Options struct {
	// ClaimsName имя, под которым middleware кладёт claims в контекст
	ClaimsName string
	// Mock подменяет claims в окружении локальной разработки
	Mock           map[string]string
	MockEnabled    bool
	ForbiddenCheck bool
	Observer       ErrorObserver
}

// Base общая часть всех контроллеров.
type Base struct {
	log            *slog.Logger
	validate       *validator.Validate
	claimsName     string
	mock           map[string]string
	mockEnabled    bool
	forbiddenCheck bool
	observer       ErrorObserver
}

// New создает Base.
func New(log *slog.Logger, opts Options) *Base {
	if opts.ClaimsName == "" {
		opts.ClaimsName = "claims"
	}
	return &Base{
		log:            log,
		validate:       validator.New(),
		claimsName:     opts.ClaimsName,
		mock:           opts.Mock,
		mockEnabled:    opts.MockEnabled,
		forbiddenCheck: opts.ForbiddenCheck,
		observer:       opts.Observer,
	}
}

// Logger логгер запроса с полями op и request_id.
func (b *Base) Logger(r *http.Request, op string) *slog.Logger {
	return b.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Handle адаптирует HandlerFunc к http.HandlerFunc.
func (b *Base) Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		log := b.Logger(r, "controller.Handle")

		var res *Result
		if !errors.As(err, &res) {
			log.Error("unhandled error", sl.Err(err))
			res = InternalErrorWith(err)
		} else if res.Status >= http.StatusInternalServerError {
			log.Error("request failed", slog.Int("status", res.Status), sl.Err(err))
		} else {
			log.Info("request rejected", slog.Int("status", res.Status), slog.String("error", res.Err.Message))
		}
		b.renderError(w, r, res)
	}
}

func (b *Base) renderError(w http.ResponseWriter, r *http.Request, res *Result) {
	if b.observer != nil {
		b.observer.ObserveError(res.Err.Code)
	}
	render.Status(r, res.Status)
	render.JSON(w, r, res.Err.Response())
}

// RenderJSON 200 с данными в стандартной обёртке.
func (b *Base) RenderJSON(w http.ResponseWriter, r *http.Request, data any) error {
	render.JSON(w, r, response.OKWithData(data))
	return nil
}

// Created 201 с данными в стандартной обёртке.
func (b *Base) Created(w http.ResponseWriter, r *http.Request, data any) error {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(data))
	return nil
}

// NoContent 204 без тела.
func (b *Base) NoContent(w http.ResponseWriter, r *http.Request) error {
	render.NoContent(w, r)
	return nil
}

// Decode читает JSON-тело запроса в dst.
func (b *Base) Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return BadRequest("invalid request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		res := BadRequest("invalid request body")
		res.Cause = err
		return res
	}
	return nil
}

// Validate проверяет структуру по тегам validate. Нарушения дают 400.
func (b *Base) Validate(entity any) error {
	err := b.validate.Struct(entity)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return BadRequestError(response.ValidationError(verrs))
	}
	return InternalErrorWith(err)
}

// PathRule правило проверки параметра пути, Tag в синтаксисе validator.
type PathRule struct {
	Name string
	Tag  string
}

// Path сокращение для PathRule.
func Path(name, tag string) PathRule {
	return PathRule{Name: name, Tag: tag}
}

// ValidatePath проверяет параметры пути chi по правилам; первое нарушение даёт 400.
func (b *Base) ValidatePath(r *http.Request, rules ...PathRule) error {
	for _, rule := range rules {
		value := chi.URLParam(r, rule.Name)
		if err := b.validate.Var(value, rule.Tag); err != nil {
			res := BadRequest(fmt.Sprintf("path param %s is not valid", rule.Name))
			res.Cause = err
			return res
		}
	}
	return nil
}
