package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WrapHandler turns a controller method into an echo handler. Req is bound
// from the path, query, headers, body and token claims and validated before
// f runs. A nil response renders 204.
func WrapHandler[Req any](f func(c echo.Context, req Req) (*Response, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Req
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		resp, err := f(c, req)
		if err != nil {
			return err
		}
		if c.Response().Committed {
			return nil
		}
		if resp == nil {
			return c.NoContent(http.StatusNoContent)
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		return c.JSON(resp.Status, resp)
	}
}
