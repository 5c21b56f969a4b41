package response

import "net/http"

// ErrorCode машинно-читаемый код ошибки в теле ответа.
type ErrorCode string

const (
	CodeClientRequestError     ErrorCode = "CLIENT_REQUEST_ERROR"
	CodeClientAuthError        ErrorCode = "CLIENT_AUTH_ERROR"
	CodeClientAccessDenied     ErrorCode = "CLIENT_ACCESS_DENIED"
	CodeClientResourceNotFound ErrorCode = "CLIENT_RESOURCE_NOT_FOUND"
	CodeClientEvilRequest      ErrorCode = "CLIENT_EVIL_REQUEST"
	CodeServerInternalError    ErrorCode = "SERVER_INTERNAL_ERROR"
)

// StatusEvilRequest нестандартный статус для злонамеренных запросов (как у nginx).
const StatusEvilRequest = 444

var codeInfo = map[ErrorCode]struct {
	status int
	msg    string
}{
	CodeClientRequestError:     {http.StatusBadRequest, "bad request"},
	CodeClientAuthError:        {http.StatusUnauthorized, "unauthorized"},
	CodeClientAccessDenied:     {http.StatusForbidden, "access denied"},
	CodeClientResourceNotFound: {http.StatusNotFound, "resource not found"},
	CodeClientEvilRequest:      {StatusEvilRequest, "evil request"},
	CodeServerInternalError:    {http.StatusInternalServerError, "internal server error"},
}

// DefaultMessage сообщение по умолчанию для кода.
func (c ErrorCode) DefaultMessage() string {
	if info, ok := codeInfo[c]; ok {
		return info.msg
	}
	return codeInfo[CodeServerInternalError].msg
}

// Status HTTP-статус, который обычно сопровождает код.
func (c ErrorCode) Status() int {
	if info, ok := codeInfo[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
