package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// Pprof mounts the runtime profiles under /debug/pprof behind mws, so
// profiles can be restricted to authenticated admins.
func Pprof(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	g := e.Group("/debug/pprof", mws...)
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, profile := range []string{"heap", "goroutine", "block", "mutex", "allocs", "threadcreate"} {
		g.GET("/"+profile, echo.WrapHandler(pprof.Handler(profile)))
	}
}
