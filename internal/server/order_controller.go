package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

type OrderController interface {
	TopUniversities(c echo.Context, req models.TopUniversitiesRequest) (*pkgmdw.Response, error)
	ListByUniversity(c echo.Context, req models.OrdersByUniversityRequest) (*pkgmdw.Response, error)
	Create(c echo.Context, req models.CreateOrderRequest) (*pkgmdw.Response, error)
}

type orderController struct {
	orders usecase.OrderUsecase
}

func NewOrderController(orders usecase.OrderUsecase) OrderController {
	return &orderController{
		orders: orders,
	}
}

func (oc *orderController) TopUniversities(c echo.Context, req models.TopUniversitiesRequest) (*pkgmdw.Response, error) {
	ranking, err := oc.orders.TopUniversities(c.Request().Context(), req.Top)
	if err != nil {
		return nil, err
	}
	setCacheHeader(c)
	return respondOK(ranking), nil
}

func (oc *orderController) ListByUniversity(c echo.Context, req models.OrdersByUniversityRequest) (*pkgmdw.Response, error) {
	orders, err := oc.orders.ListByUniversity(c.Request().Context(), req.UniversityID)
	if err != nil {
		return nil, err
	}
	return respondOK(orders), nil
}

func (oc *orderController) Create(c echo.Context, req models.CreateOrderRequest) (*pkgmdw.Response, error) {
	order, err := oc.orders.Create(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return respondCreated(order, "Order created successfully"), nil
}
