package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

type AuthController interface {
	Register(c echo.Context, req models.RegisterRequest) (*pkgmdw.Response, error)
	Login(c echo.Context, req models.LoginRequest) (*pkgmdw.Response, error)
	Refresh(c echo.Context, req models.RefreshRequest) (*pkgmdw.Response, error)
	Profile(c echo.Context, req models.ProfileRequest) (*pkgmdw.Response, error)
}

type authController struct {
	auth usecase.AuthUsecase
}

func NewAuthController(auth usecase.AuthUsecase) AuthController {
	return &authController{
		auth: auth,
	}
}

func (ac *authController) Register(c echo.Context, req models.RegisterRequest) (*pkgmdw.Response, error) {
	resp, err := ac.auth.Register(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return respondCreated(resp, "User registered successfully"), nil
}

func (ac *authController) Login(c echo.Context, req models.LoginRequest) (*pkgmdw.Response, error) {
	resp, err := ac.auth.Login(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return respondOK(resp), nil
}

func (ac *authController) Refresh(c echo.Context, req models.RefreshRequest) (*pkgmdw.Response, error) {
	resp, err := ac.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return respondOK(resp), nil
}

func (ac *authController) Profile(c echo.Context, req models.ProfileRequest) (*pkgmdw.Response, error) {
	user, err := ac.auth.Profile(c.Request().Context(), req.UserID)
	if err != nil {
		return nil, err
	}
	return respondOK(user), nil
}
