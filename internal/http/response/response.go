// Package response содержит типы и функции для формирования унифицированных
// JSON-ответов: успешных ответов, ошибок с кодом и сообщений валидации.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKResponse стандартная структура успешного JSON-ответа.
type OKResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse стандартная структура JSON-ответа с ошибкой.
type ErrorResponse struct {
	Status string    `json:"status" example:"Error"`
	Code   ErrorCode `json:"code" example:"CLIENT_REQUEST_ERROR"`
	Error  string    `json:"error" example:"invalid request body"`
}

// Error пара код/сообщение, из которой строится тело ответа с ошибкой.
type Error struct {
	Code    ErrorCode
	Message string
}

// SetCodeMsg задаёт код и сообщение.
func (e *Error) SetCodeMsg(code ErrorCode, msg string) {
	e.Code = code
	e.Message = msg
}

// SetCodeWithDefaultMsg задаёт код и его сообщение по умолчанию.
func (e *Error) SetCodeWithDefaultMsg(code ErrorCode) {
	e.SetCodeMsg(code, code.DefaultMessage())
}

// Response тело ответа для этой ошибки.
func (e Error) Response() ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Code:   e.Code,
		Error:  e.Message,
	}
}

// Client ошибка в запросе клиента.
func Client(msg string) Error {
	return Error{Code: CodeClientRequestError, Message: msg}
}

// Server внутренняя ошибка сервера.
func Server(msg string) Error {
	return Error{Code: CodeServerInternalError, Message: msg}
}

// NotFound ресурс не найден.
func NotFound(msg string) Error {
	return Error{Code: CodeClientResourceNotFound, Message: msg}
}

// NotFoundBy ресурс не найден по перечисленным идентификаторам.
func NotFoundBy(ids ...any) Error {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return NotFound(fmt.Sprintf("%s by id: %s",
		CodeClientResourceNotFound.DefaultMessage(), strings.Join(parts, ", ")))
}

// WithCode ошибка с кодом и его сообщением по умолчанию.
func WithCode(code ErrorCode) Error {
	var e Error
	e.SetCodeWithDefaultMsg(code)
	return e
}

// OKWithData возвращает успешный ответ с переданными данными.
func OKWithData(data any) OKResponse {
	return OKResponse{
		Status: StatusOK,
		Data:   data,
	}
}

// ValidationError формирует ошибку клиента из ошибок валидации.
// Каждое нарушение превращается в человеко-читаемый текст, сообщения объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) Error {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "uuid", "uuid4":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Client(strings.Join(errsMsgs, ", "))
}
