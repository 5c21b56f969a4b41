package controller

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/magabrotheeeer/apikit/internal/http/response"
)

// Result прерывает обработку запроса и описывает ответ с ошибкой.
// Обработчик возвращает его как error, а Base.Handle превращает в JSON-ответ.
type Result struct {
	Status int
	Err    response.Error
	// Cause исходная ошибка, попадает только в лог
	Cause error
}

func (r *Result) Error() string {
	if r.Cause != nil {
		return fmt.Sprintf("%d %s: %s: %v", r.Status, r.Err.Code, r.Err.Message, r.Cause)
	}
	return fmt.Sprintf("%d %s: %s", r.Status, r.Err.Code, r.Err.Message)
}

func (r *Result) Unwrap() error {
	return r.Cause
}

func newResult(status int, err response.Error) *Result {
	return &Result{Status: status, Err: err}
}

// BadRequest 400 с кодом CLIENT_REQUEST_ERROR.
func BadRequest(msg string) *Result {
	return BadRequestError(response.Client(msg))
}

// BadRequestError 400 с произвольной ошибкой.
func BadRequestError(err response.Error) *Result {
	return newResult(http.StatusBadRequest, err)
}

// BadRequestIfNull возвращает 400, если v равен nil (в том числе типизированный nil).
// Код ошибки CLIENT_RESOURCE_NOT_FOUND: так клиент отличает отсутствующий объект от кривого запроса.
func BadRequestIfNull(v any, msg string) error {
	if isNil(v) {
		return BadRequestError(response.NotFound(msg))
	}
	return nil
}

// EvilRequest 444 для злонамеренных запросов.
func EvilRequest(msg string) *Result {
	return newResult(response.StatusEvilRequest, response.Client(msg))
}

// NotFound 404.
func NotFound(msg string) *Result {
	return newResult(http.StatusNotFound, response.NotFound(msg))
}

// NotFoundBy 404 с перечислением идентификаторов, по которым ничего не нашлось.
func NotFoundBy(ids ...any) *Result {
	return newResult(http.StatusNotFound, response.NotFoundBy(ids...))
}

// Forbidden 403 с кодом CLIENT_ACCESS_DENIED.
func Forbidden(msg string) *Result {
	var e response.Error
	e.SetCodeMsg(response.CodeClientAccessDenied, msg)
	return ForbiddenError(e)
}

// ForbiddenError 403 с произвольной ошибкой.
func ForbiddenError(err response.Error) *Result {
	return newResult(http.StatusForbidden, err)
}

// Unauthorized 401 с кодом CLIENT_ACCESS_DENIED. Пустое msg заменяется сообщением по умолчанию.
func Unauthorized(msg string) *Result {
	var e response.Error
	if msg == "" {
		e.SetCodeWithDefaultMsg(response.CodeClientAccessDenied)
	} else {
		e.SetCodeMsg(response.CodeClientAccessDenied, msg)
	}
	return UnauthorizedError(e)
}

// UnauthorizedError 401 с произвольной ошибкой.
func UnauthorizedError(err response.Error) *Result {
	return newResult(http.StatusUnauthorized, err)
}

// InternalError 500 с сообщением по умолчанию.
func InternalError() *Result {
	return newResult(http.StatusInternalServerError, response.WithCode(response.CodeServerInternalError))
}

// InternalErrorMsg 500 с сообщением msg.
func InternalErrorMsg(msg string) *Result {
	return newResult(http.StatusInternalServerError, response.Server(msg))
}

// InternalErrorWith 500 с сообщением по умолчанию; cause пишется в лог, но не клиенту.
func InternalErrorWith(cause error) *Result {
	res := InternalError()
	res.Cause = cause
	return res
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
