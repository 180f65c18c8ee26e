package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var grpcToHTTP = map[codes.Code]int{
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.PermissionDenied: http.StatusForbidden,
	codes.NotFound:         http.StatusNotFound,
	codes.AlreadyExists:    http.StatusConflict,
}

var httpErrorCodes = map[int]string{
	http.StatusBadRequest:      ErrCodeValidation,
	http.StatusUnauthorized:    ErrCodeUnauthorized,
	http.StatusForbidden:       ErrCodeForbidden,
	http.StatusNotFound:        ErrCodeNotFound,
	http.StatusConflict:        ErrCodeConflict,
	http.StatusTooManyRequests: ErrCodeRateLimited,
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := NewResponseError(err)
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}
		// detect canceled request error
		if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
			resp.Status = 499
		}

		if err := c.JSON(resp.Status, resp); err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

// NewResponseError converts any handler error into the error envelope.
// Messages of unclassified errors are not exposed.
func NewResponseError(err error) *ResponseError {
	var (
		respErr     *ResponseError
		httpErr     *echo.HTTPError
		validateErr validator.ValidationErrors
		grpcErr     interface{ GRPCStatus() *status.Status }
	)

	resp := &ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorCode:    ErrCodeInternal,
		ErrorMessage: "internal server error",
	}

	switch {
	case errors.As(err, &respErr):
		return respErr
	case errors.As(err, &validateErr):
		resp.Status = http.StatusBadRequest
		resp.ErrorMessage = "validation failed"
		fields := make([]FieldError, 0, len(validateErr))
		for _, fe := range validateErr {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		resp.ErrorData = fields
	case errors.As(err, &httpErr):
		resp.Status = httpErr.Code
		resp.ErrorMessage = fmt.Sprint(httpErr.Message)
		if internal := httpErr.Internal; internal != nil && errors.As(internal, &validateErr) {
			return NewResponseError(internal)
		}
	case errors.As(err, &grpcErr):
		st := grpcErr.GRPCStatus()
		if code, ok := grpcToHTTP[st.Code()]; ok {
			resp.Status = code
			resp.ErrorMessage = st.Message()
		}
	}

	if code, ok := httpErrorCodes[resp.Status]; ok {
		resp.ErrorCode = code
	}
	return resp
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max", "oneof", "len":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
