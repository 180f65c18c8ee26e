package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

const PrincipalKey = "user"

type TokenVerifier interface {
	VerifyAccessToken(token string) (*models.Principal, error)
}

// JWTAuth requires a bearer access token. Missing or expired tokens are
// rejected with 401, tokens that fail verification with 403.
func JWTAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return models.ErrUnauthorized
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return models.ErrUnauthorized
			}

			principal, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// Authorize allows the request only when the caller has one of roles.
// It must run after JWTAuth.
func Authorize(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := GetPrincipal(c)
			if principal == nil {
				return models.ErrUnauthorized
			}
			if !principal.HasRole(roles...) {
				return models.ErrForbidden
			}
			return next(c)
		}
	}
}
