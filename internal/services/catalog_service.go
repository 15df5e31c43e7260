package services

import (
	"strconv"
	"strings"
	"time"

	"maisonmarket/internal/repos"
)

type CatalogService struct {
	Prods     *repos.ProductRepo
	Merchants *repos.MerchantRepo
}

func NewCatalogService(prods *repos.ProductRepo, merchants *repos.MerchantRepo) *CatalogService {
	return &CatalogService{Prods: prods, Merchants: merchants}
}

// ParseProductQuery maps raw query-string values onto a ProductQuery. The
// getter matches fiber's Ctx.Query so handlers can pass it straight in.
// Malformed numeric input is treated as absent, never as an error: search
// stays available no matter what the client sends. (Write payloads are the
// opposite: strict, field-level validation.)
func ParseProductQuery(get func(key string, defaultValue ...string) string) repos.ProductQuery {
	q := repos.ProductQuery{
		Search:     strings.TrimSpace(get("search")),
		Category:   strings.TrimSpace(get("category")),
		MerchantID: strings.TrimSpace(get("brandId")),
		SortBy:     strings.TrimSpace(get("sortBy")),
		SortOrder:  strings.TrimSpace(get("sortOrder")),
	}
	if v, err := strconv.ParseFloat(get("minPrice"), 64); err == nil && v >= 0 {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(get("maxPrice"), 64); err == nil && v >= 0 {
		q.MaxPrice = &v
	}
	if b, err := strconv.ParseBool(get("onSale")); err == nil {
		q.OnSale = b
	}
	if b, err := strconv.ParseBool(get("isNew")); err == nil {
		q.IsNew = b
	}
	if n, err := strconv.Atoi(get("page")); err == nil {
		q.Page = n // negative values clamp downstream
	}
	if n, err := strconv.Atoi(get("pageSize")); err == nil {
		q.PageSize = n
	}
	return q
}

type ProductPage struct {
	Products   []repos.ProductRow  `json:"products"`
	Pagination repos.Pagination    `json:"pagination"`
	Facets     repos.ProductFacets `json:"facets"`
}

// Search runs the public catalog query and attaches the filter-independent
// facet lists for the sidebar.
func (s *CatalogService) Search(q repos.ProductQuery, now time.Time) (ProductPage, error) {
	rows, pg, err := s.Prods.Find(q, now)
	if err != nil {
		return ProductPage{}, err
	}
	facets, err := s.Prods.Facets()
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: rows, Pagination: pg, Facets: facets}, nil
}

func (s *CatalogService) GetProduct(id string, now time.Time) (repos.ProductRow, error) {
	return s.Prods.Get(id, now)
}

// Featured returns the home page strip: featured-first ordering, one page.
func (s *CatalogService) Featured(limit int, now time.Time) ([]repos.ProductRow, error) {
	rows, _, err := s.Prods.Find(repos.ProductQuery{SortBy: "featured", PageSize: limit}, now)
	return rows, err
}
