package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

type stubVerifier map[string]*models.Principal

func (s stubVerifier) VerifyAccessToken(token string) (*models.Principal, error) {
	if token == "expired" {
		return nil, models.ErrTokenExpired
	}
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, models.ErrInvalidToken
}

func TestJWTAuthAndAuthorize(t *testing.T) {
	verifier := stubVerifier{
		"admin-token": {UserID: "u-1", Role: models.RoleAdmin},
		"user-token":  {UserID: "u-2", Role: models.RoleUser},
	}

	tests := []struct {
		name       string
		header     string
		roles      []models.Role
		wantStatus int
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", wantStatus: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer forged", wantStatus: http.StatusForbidden},
		{name: "authenticated", header: "Bearer user-token", wantStatus: http.StatusOK},
		{name: "role allowed", header: "Bearer admin-token", roles: []models.Role{models.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "role denied", header: "Bearer user-token", roles: []models.Role{models.RoleAdmin}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = ErrorHandler(nopLogger{})

			mws := []echo.MiddlewareFunc{JWTAuth(verifier)}
			if len(tt.roles) > 0 {
				mws = append(mws, Authorize(tt.roles...))
			}
			e.GET("/private", func(c echo.Context) error {
				return c.String(http.StatusOK, GetPrincipal(c).UserID)
			}, mws...)

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestAuthorize_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := Authorize(models.RoleAdmin)(func(echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
