package services

import (
	"strconv"
	"strings"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/validate"

	"github.com/google/uuid"
)

type CollectionService struct {
	Colls *repos.CollectionRepo
}

func NewCollectionService(colls *repos.CollectionRepo) *CollectionService {
	return &CollectionService{Colls: colls}
}

// ParseCollectionQuery follows the same permissive policy as the product
// parser: junk numerics drop the constraint.
func ParseCollectionQuery(get func(key string, defaultValue ...string) string) repos.CollectionQuery {
	q := repos.CollectionQuery{
		Search:    strings.TrimSpace(get("search")),
		SortBy:    strings.TrimSpace(get("sortBy")),
		SortOrder: strings.TrimSpace(get("sortOrder")),
		Status:    strings.TrimSpace(get("status")),
	}
	if season := strings.ToUpper(strings.TrimSpace(get("season"))); season != "" && season != "ALL" {
		q.Season = season
	}
	if n, err := strconv.Atoi(get("year")); err == nil && n > 0 {
		q.Year = n
	}
	if b, err := strconv.ParseBool(get("isFeatured")); err == nil {
		q.Featured = b
	}
	if n, err := strconv.Atoi(get("page")); err == nil {
		q.Page = n
	}
	if n, err := strconv.Atoi(get("pageSize")); err == nil {
		q.PageSize = n
	}
	return q
}

type CollectionPage struct {
	Collections []domain.Collection    `json:"collections"`
	Pagination  repos.Pagination       `json:"pagination"`
	Facets      repos.CollectionFacets `json:"facets"`
}

func (s *CollectionService) List(q repos.CollectionQuery) (CollectionPage, error) {
	rows, pg, err := s.Colls.Find(q)
	if err != nil {
		return CollectionPage{}, err
	}
	facets, err := s.Colls.Facets()
	if err != nil {
		return CollectionPage{}, err
	}
	return CollectionPage{Collections: rows, Pagination: pg, Facets: facets}, nil
}

func (s *CollectionService) ListAdmin(q repos.CollectionQuery) (CollectionPage, error) {
	rows, pg, err := s.Colls.FindAll(q)
	if err != nil {
		return CollectionPage{}, err
	}
	facets, err := s.Colls.Facets()
	if err != nil {
		return CollectionPage{}, err
	}
	return CollectionPage{Collections: rows, Pagination: pg, Facets: facets}, nil
}

type CollectionDetail struct {
	Collection domain.Collection
	Products   []repos.CollectionProduct
}

// PublicBySlug resolves a collection page; drafts and archived collections
// read as not found on the public path.
func (s *CollectionService) PublicBySlug(slug string) (CollectionDetail, error) {
	c, err := s.Colls.GetBySlug(slug)
	if err != nil {
		return CollectionDetail{}, domain.ErrNotFound
	}
	if c.Status != domain.ProductActive {
		return CollectionDetail{}, domain.ErrNotFound
	}
	prods, err := s.Colls.Products(c.ID)
	if err != nil {
		return CollectionDetail{}, err
	}
	return CollectionDetail{Collection: c, Products: prods}, nil
}

type CollectionInput struct {
	Name         string  `validate:"required,max=80"`
	Slug         string  `validate:"required,max=64"`
	Season       string  `validate:"required,oneof=SPRING SUMMER FALL WINTER RESORT"`
	Year         int     `validate:"required,gte=2000,lte=2100"`
	DisplayOrder int     `validate:"gte=0"`
	IsFeatured   bool    ``
	MinPrice     float64 `validate:"gte=0"`
	MaxPrice     float64 `validate:"gte=0"`
	Description  string  `validate:"max=2000"`
}

func (s *CollectionService) Create(in CollectionInput) (string, map[string]string, error) {
	if fields := validate.Struct(in); fields != nil {
		return "", fields, domain.ErrValidation
	}
	id := uuid.NewString()
	err := s.Colls.Create(domain.Collection{
		ID:           id,
		Name:         in.Name,
		Slug:         in.Slug,
		Season:       in.Season,
		Year:         in.Year,
		Status:       domain.ProductDraft,
		DisplayOrder: in.DisplayOrder,
		IsFeatured:   in.IsFeatured,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		TagsJSON:     "[]",
		Description:  in.Description,
	})
	return id, nil, err
}

func (s *CollectionService) Update(id string, u repos.CollectionUpdate) error {
	return s.Colls.Update(id, u)
}

func (s *CollectionService) SetStatus(id, status string) error {
	switch status {
	case domain.ProductActive, domain.ProductDraft, domain.ProductArchived:
		return s.Colls.SetStatus(id, status)
	}
	return domain.ErrValidation
}

func (s *CollectionService) Attach(collectionID, productID string, order int, highlight bool, desc string) error {
	return s.Colls.AttachProduct(domain.CollectionItem{
		CollectionID: collectionID,
		ProductID:    productID,
		DisplayOrder: order,
		Highlight:    highlight,
		CustomDesc:   desc,
	})
}

func (s *CollectionService) Detach(collectionID, productID string) error {
	return s.Colls.DetachProduct(collectionID, productID)
}
