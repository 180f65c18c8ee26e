package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

type UniversityController interface {
	List(c echo.Context, req struct{}) (*pkgmdw.Response, error)
	Get(c echo.Context, req models.UniversityIDRequest) (*pkgmdw.Response, error)
	Create(c echo.Context, req models.CreateUniversityRequest) (*pkgmdw.Response, error)
	Update(c echo.Context, req models.UpdateUniversityRequest) (*pkgmdw.Response, error)
	Delete(c echo.Context, req models.UniversityIDRequest) (*pkgmdw.Response, error)
}

type universityController struct {
	universities usecase.UniversityUsecase
}

func NewUniversityController(universities usecase.UniversityUsecase) UniversityController {
	return &universityController{
		universities: universities,
	}
}

func (uc *universityController) List(c echo.Context, _ struct{}) (*pkgmdw.Response, error) {
	universities, err := uc.universities.List(c.Request().Context())
	if err != nil {
		return nil, err
	}
	setCacheHeader(c)
	return respondOK(universities), nil
}

func (uc *universityController) Get(c echo.Context, req models.UniversityIDRequest) (*pkgmdw.Response, error) {
	university, err := uc.universities.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return respondOK(university), nil
}

func (uc *universityController) Create(c echo.Context, req models.CreateUniversityRequest) (*pkgmdw.Response, error) {
	university, err := uc.universities.Create(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return respondCreated(university, "University created successfully"), nil
}

func (uc *universityController) Update(c echo.Context, req models.UpdateUniversityRequest) (*pkgmdw.Response, error) {
	university, err := uc.universities.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	resp := respondOK(university)
	resp.Message = "University updated successfully"
	return resp, nil
}

func (uc *universityController) Delete(c echo.Context, req models.UniversityIDRequest) (*pkgmdw.Response, error) {
	if err := uc.universities.Deactivate(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return respondDone("University deactivated successfully"), nil
}
