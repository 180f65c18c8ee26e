package usecase

import (
	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

// BuildProductFetchSpec turns a normalized listing request into a bounded
// store query. Only active products are listed.
func BuildProductFetchSpec(req models.ProductListRequest) models.FetchSpec {
	page := max(req.Page, 1)
	return models.FetchSpec{
		ActiveOnly: true,
		Search:     req.Search,
		Category:   req.Category,
		SortBy:     req.SortBy,
		SortDesc:   req.SortOrder == models.SortDesc,
		Offset:     (page - 1) * req.Limit,
		Limit:      req.Limit,
	}
}
