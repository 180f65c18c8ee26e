package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// DefaultRedactFields are JSON body fields never written to the access log.
var DefaultRedactFields = []string{"password", "refreshToken", "accessToken"}

const redacted = "[REDACTED]"

type (
	// LogRequestConfig store middleware configuration. Request bodies are
	// logged by default with DefaultRedactFields masked; response bodies,
	// query and path params are off by default.
	LogRequestConfig struct {
		Logger       Logger
		Enabled      func(c echo.Context) bool
		RequestID    func(c echo.Context) string
		RequestBody  func(c echo.Context) bool
		ResponseBody func(c echo.Context) bool
		QueryParams  func(c echo.Context) bool
		ParamValues  func(c echo.Context) bool
		KeyAndValues func(c echo.Context) []interface{}
		RedactFields []string
	}
	bodyDumpWriter struct {
		io.Writer
		http.ResponseWriter
	}
)

// LogRequest writes one access log line per request, at error level for 5xx
// and warn level for 4xx.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	defFunc := func(c echo.Context) bool {
		return true
	}
	nopFunc := func(c echo.Context) bool {
		return false
	}
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = defFunc
	}
	if config.RequestBody == nil {
		config.RequestBody = defFunc
	}
	if config.ResponseBody == nil {
		config.ResponseBody = nopFunc
	}
	if config.QueryParams == nil {
		config.QueryParams = nopFunc
	}
	if config.ParamValues == nil {
		config.ParamValues = nopFunc
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}
	if config.RedactFields == nil {
		config.RedactFields = DefaultRedactFields
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			logReqBody := config.RequestBody(c)
			logResBody := config.ResponseBody(c)

			var reqBody []byte
			if logReqBody && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
				reqBody, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
			}
			var resBuf bytes.Buffer
			if logResBody {
				mw := io.MultiWriter(res.Writer, &resBuf)
				res.Writer = &bodyDumpWriter{Writer: mw, ResponseWriter: res.Writer}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := make([]interface{}, 0, 32)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", config.RequestID(c),
			)
			if principal := GetPrincipal(c); principal != nil {
				args = append(args, "user_id", principal.UserID, "role", principal.Role)
			}
			if status := res.Header().Get(HeaderXCache); status != "" {
				args = append(args, "cache_status", status)
			}
			if config.QueryParams(c) && len(c.QueryParams()) > 0 {
				args = append(args, "query", c.QueryParams())
			}
			if config.ParamValues(c) && len(c.ParamNames()) > 0 {
				params := make(map[string]string, len(c.ParamNames()))
				for _, name := range c.ParamNames() {
					params[name] = c.Param(name)
				}
				args = append(args, "params", params)
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			if len(reqBody) > 0 {
				args = append(args, "request_body", redactBody(reqBody, config.RedactFields))
			}
			if logResBody && strings.HasPrefix(res.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
				args = append(args, "response_body", json.RawMessage(resBuf.Bytes()))
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("", args...)
			case res.Status >= 400:
				config.Logger.Warnw("", args...)
			default:
				config.Logger.Infow("", args...)
			}

			return err
		}
	}
}

// redactBody masks the named top-level fields of a JSON object. Anything
// that is not an object is logged as a plain string.
func redactBody(body []byte, fields []string) any {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return string(body)
	}
	masked := false
	for _, field := range fields {
		if _, ok := obj[field]; ok {
			obj[field] = json.RawMessage(`"` + redacted + `"`)
			masked = true
		}
	}
	if !masked {
		return json.RawMessage(body)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return string(body)
	}
	return json.RawMessage(out)
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
