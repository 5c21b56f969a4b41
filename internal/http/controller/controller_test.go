package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/apikit/internal/http/response"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type recordingObserver struct {
	codes []response.ErrorCode
}

func (o *recordingObserver) ObserveError(code response.ErrorCode) {
	o.codes = append(o.codes, code)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandle_ErrorResults(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrorCode
		wantMsg    string
	}{
		{
			name:       "bad request",
			err:        BadRequest("invalid request body"),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeClientRequestError,
			wantMsg:    "invalid request body",
		},
		{
			name:       "bad request with custom error",
			err:        BadRequestError(response.Server("odd")),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeServerInternalError,
			wantMsg:    "odd",
		},
		{
			name:       "bad request if null",
			err:        BadRequestIfNull(nil, "account is missing"),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeClientResourceNotFound,
			wantMsg:    "account is missing",
		},
		{
			name:       "unauthorized default",
			err:        Unauthorized(""),
			wantStatus: http.StatusUnauthorized,
			wantCode:   response.CodeClientAccessDenied,
			wantMsg:    "access denied",
		},
		{
			name:       "unauthorized with message",
			err:        Unauthorized("token revoked"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   response.CodeClientAccessDenied,
			wantMsg:    "token revoked",
		},
		{
			name:       "unauthorized with error",
			err:        UnauthorizedError(response.WithCode(response.CodeClientAuthError)),
			wantStatus: http.StatusUnauthorized,
			wantCode:   response.CodeClientAuthError,
			wantMsg:    "unauthorized",
		},
		{
			name:       "forbidden",
			err:        Forbidden("not yours"),
			wantStatus: http.StatusForbidden,
			wantCode:   response.CodeClientAccessDenied,
			wantMsg:    "not yours",
		},
		{
			name:       "not found",
			err:        NotFound("account not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeClientResourceNotFound,
			wantMsg:    "account not found",
		},
		{
			name:       "not found by ids",
			err:        NotFoundBy("a", "b"),
			wantStatus: http.StatusNotFound,
			wantCode:   response.CodeClientResourceNotFound,
			wantMsg:    "resource not found by id: a, b",
		},
		{
			name:       "evil request",
			err:        EvilRequest("go away"),
			wantStatus: response.StatusEvilRequest,
			wantCode:   response.CodeClientRequestError,
			wantMsg:    "go away",
		},
		{
			name:       "internal error",
			err:        InternalError(),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeServerInternalError,
			wantMsg:    "internal server error",
		},
		{
			name:       "internal error with message",
			err:        InternalErrorMsg("storage is down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeServerInternalError,
			wantMsg:    "storage is down",
		},
		{
			name:       "internal error hides cause",
			err:        InternalErrorWith(errors.New("pq: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeServerInternalError,
			wantMsg:    "internal server error",
		},
		{
			name:       "plain error becomes 500",
			err:        errors.New("unexpected"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeServerInternalError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			base := New(newNoopLogger(), Options{Observer: observer})

			h := base.Handle(func(_ http.ResponseWriter, _ *http.Request) error {
				return tt.err
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			body := decodeError(t, rec)
			assert.Equal(t, response.StatusError, body.Status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, []response.ErrorCode{tt.wantCode}, observer.codes)
		})
	}
}

func TestHandle_WrappedResult(t *testing.T) {
	base := New(newNoopLogger(), Options{})
	h := base.Handle(func(_ http.ResponseWriter, _ *http.Request) error {
		return errors.Join(errors.New("context"), NotFound("gone"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_SuccessResponses(t *testing.T) {
	base := New(newNoopLogger(), Options{})

	t.Run("render json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		base.Handle(func(w http.ResponseWriter, r *http.Request) error {
			return base.RenderJSON(w, r, map[string]string{"id": "1"})
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","data":{"id":"1"}}`, rec.Body.String())
	})

	t.Run("created", func(t *testing.T) {
		rec := httptest.NewRecorder()
		base.Handle(func(w http.ResponseWriter, r *http.Request) error {
			return base.Created(w, r, map[string]string{"id": "2"})
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"status":"OK","data":{"id":"2"}}`, rec.Body.String())
	})

	t.Run("no content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		base.Handle(func(w http.ResponseWriter, r *http.Request) error {
			return base.NoContent(w, r)
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestBadRequestIfNull(t *testing.T) {
	var nilPtr *struct{}
	var nilMap map[string]string
	var nilSlice []int

	assert.Error(t, BadRequestIfNull(nil, "x"))
	assert.Error(t, BadRequestIfNull(nilPtr, "x"))
	assert.Error(t, BadRequestIfNull(nilMap, "x"))
	assert.Error(t, BadRequestIfNull(nilSlice, "x"))
	assert.NoError(t, BadRequestIfNull(&struct{}{}, "x"))
	assert.NoError(t, BadRequestIfNull(0, "x"))
	assert.NoError(t, BadRequestIfNull("", "x"))
}

func TestResult_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("db down")
	res := InternalErrorWith(cause)

	assert.ErrorIs(t, res, cause)
	assert.Contains(t, res.Error(), "500 SERVER_INTERNAL_ERROR")
	assert.Contains(t, res.Error(), "db down")
	assert.Equal(t, "404 CLIENT_RESOURCE_NOT_FOUND: gone", NotFound("gone").Error())
}

func TestDecode(t *testing.T) {
	base := New(newNoopLogger(), Options{})

	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice"}`))
		require.NoError(t, base.Decode(req, &p))
		assert.Equal(t, "alice", p.Name)
	})

	t.Run("broken body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		err := base.Decode(req, &p)

		var res *Result
		require.ErrorAs(t, err, &res)
		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Equal(t, "invalid request body", res.Err.Message)
	})
}

func TestValidate(t *testing.T) {
	base := New(newNoopLogger(), Options{})

	type request struct {
		Username string `validate:"required,min=3"`
		Email    string `validate:"required,email"`
	}

	assert.NoError(t, base.Validate(request{Username: "alice", Email: "alice@example.com"}))

	err := base.Validate(request{Username: "al"})
	var res *Result
	require.ErrorAs(t, err, &res)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, response.CodeClientRequestError, res.Err.Code)
	assert.Contains(t, res.Err.Message, "field Username must be at least 3 characters")
	assert.Contains(t, res.Err.Message, "field Email is a required field")

	err = base.Validate(nil)
	require.ErrorAs(t, err, &res)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}

func TestValidatePath(t *testing.T) {
	base := New(newNoopLogger(), Options{})

	withParam := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/accounts/"+id, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	assert.NoError(t, base.ValidatePath(withParam("b3c1a6a2-6f1e-4a57-9a53-0a4c9d1b2f10"), Path("id", "required,uuid")))

	err := base.ValidatePath(withParam("abc"), Path("id", "required,uuid"))
	var res *Result
	require.ErrorAs(t, err, &res)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "path param id is not valid", res.Err.Message)
}
