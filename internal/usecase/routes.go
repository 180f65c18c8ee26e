package usecase

// Cache namespaces. They mirror the HTTP routes whose responses they hold, so
// dropping a route prefix drops every cached query under it.
const (
	RouteProducts        = "/api/products"
	RouteCategories      = "/api/products/categories"
	RouteUniversities    = "/api/universities"
	RouteOrders          = "/api/orders"
	RouteTopUniversities = "/api/orders/top-universities"
)
