package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugw(string, ...interface{}) {}
func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}

func TestNewResponseError(t *testing.T) {
	type createReq struct {
		Name  string `json:"name" validate:"required"`
		Limit int    `json:"limit" validate:"max=100"`
	}
	validateErr := NewValidator().Validate(&createReq{Limit: 101})
	require.Error(t, validateErr)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation status",
			err:         models.NewValidationError("limit must be between 1 and 100"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeValidation,
			wantMessage: "limit must be between 1 and 100",
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("failed to get: %w", models.NewNotFoundError("product", "p-1")),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrCodeNotFound,
			wantMessage: "product p-1 not found",
		},
		{
			name:        "conflict",
			err:         models.NewConflictError("email already registered"),
			wantStatus:  http.StatusConflict,
			wantCode:    ErrCodeConflict,
			wantMessage: "email already registered",
		},
		{
			name:        "expired token",
			err:         models.ErrTokenExpired,
			wantStatus:  http.StatusUnauthorized,
			wantCode:    ErrCodeUnauthorized,
			wantMessage: "token expired",
		},
		{
			name:        "invalid token",
			err:         models.ErrInvalidToken,
			wantStatus:  http.StatusForbidden,
			wantCode:    ErrCodeForbidden,
			wantMessage: "invalid token",
		},
		{
			name:        "store failure hides details",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrCodeInternal,
			wantMessage: "internal server error",
		},
		{
			name:        "echo error",
			err:         echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"),
			wantStatus:  http.StatusTooManyRequests,
			wantCode:    ErrCodeRateLimited,
			wantMessage: "rate limit exceeded",
		},
		{
			name:        "validator errors",
			err:         validateErr,
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeValidation,
			wantMessage: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewResponseError(tt.err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
			assert.Equal(t, tt.wantMessage, resp.ErrorMessage)
			assert.False(t, resp.Success)
		})
	}

	fields, ok := NewResponseError(validateErr).ErrorData.([]FieldError)
	require.True(t, ok)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "limit", Message: "must satisfy max=100"},
	}, fields)
}

func TestErrorHandler_NoRoute(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(nopLogger{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error_code":"NOT_FOUND","error_message":"no route matched"}`, rec.Body.String())
}
