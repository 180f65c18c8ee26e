package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/merch-api/internal/server/middleware"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
)

type ProductController interface {
	List(c echo.Context, req models.RawProductListQuery) (*pkgmdw.Response, error)
	Categories(c echo.Context, req struct{}) (*pkgmdw.Response, error)
	Get(c echo.Context, req models.ProductIDRequest) (*pkgmdw.Response, error)
	Create(c echo.Context, req models.CreateProductRequest) (*pkgmdw.Response, error)
	Update(c echo.Context, req models.UpdateProductRequest) (*pkgmdw.Response, error)
	Delete(c echo.Context, req models.ProductIDRequest) (*pkgmdw.Response, error)
}

type productController struct {
	products usecase.ProductUsecase
}

func NewProductController(products usecase.ProductUsecase) ProductController {
	return &productController{
		products: products,
	}
}

func (pc *productController) List(c echo.Context, req models.RawProductListQuery) (*pkgmdw.Response, error) {
	listReq, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	result, err := pc.products.List(c.Request().Context(), listReq)
	if err != nil {
		return nil, err
	}
	setCacheHeader(c)

	resp := respondOK(result.Items)
	resp.Pagination = result.Pagination
	return resp, nil
}

func (pc *productController) Categories(c echo.Context, _ struct{}) (*pkgmdw.Response, error) {
	categories, err := pc.products.Categories(c.Request().Context())
	if err != nil {
		return nil, err
	}
	setCacheHeader(c)
	return respondOK(categories), nil
}

func (pc *productController) Get(c echo.Context, req models.ProductIDRequest) (*pkgmdw.Response, error) {
	product, err := pc.products.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return respondOK(product), nil
}

func (pc *productController) Create(c echo.Context, req models.CreateProductRequest) (*pkgmdw.Response, error) {
	product, err := pc.products.Create(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return respondCreated(product, "Product created successfully"), nil
}

func (pc *productController) Update(c echo.Context, req models.UpdateProductRequest) (*pkgmdw.Response, error) {
	product, err := pc.products.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	resp := respondOK(product)
	resp.Message = "Product updated successfully"
	return resp, nil
}

func (pc *productController) Delete(c echo.Context, req models.ProductIDRequest) (*pkgmdw.Response, error) {
	if err := pc.products.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return respondDone("Product deleted successfully"), nil
}
