package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

type SeedController interface {
	Seed(c echo.Context, req struct{}) (*pkgmdw.Response, error)
}

type seedController struct {
	seeder usecase.SeedUsecase
}

func NewSeedController(seeder usecase.SeedUsecase) SeedController {
	return &seedController{
		seeder: seeder,
	}
}

func (sc *seedController) Seed(c echo.Context, _ struct{}) (*pkgmdw.Response, error) {
	result, err := sc.seeder.Seed(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if result.AlreadySeeded {
		return &pkgmdw.Response{Status: http.StatusOK, Success: true, Message: "Data already seeded", Data: result}, nil
	}
	return respondCreated(result, "Database seeded successfully"), nil
}
