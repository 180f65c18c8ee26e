package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsAllowHeaders = strings.Join([]string{
		echo.HeaderAuthorization, echo.HeaderContentType, XRequestID,
	}, ", ")
	// browsers hide every other response header from scripts
	corsExposeHeaders = strings.Join([]string{HeaderXCache, XRequestID}, ", ")
)

// CORS allows origins matching pattern. Preflight requests are answered
// here and never reach the rate limiter or the handlers.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			respHeader.Set(echo.HeaderAccessControlExposeHeaders, corsExposeHeaders)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				respHeader.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				respHeader.Set(echo.HeaderAccessControlMaxAge, "600")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
