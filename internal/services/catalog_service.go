package services

import (
	"reliefmarket/internal/domain"
	"reliefmarket/internal/repos"

	"github.com/google/uuid"
)

type CatalogService struct {
	Products *repos.ProductRepo
}

func NewCatalogService(products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Products: products}
}

func (s *CatalogService) List(f repos.ProductFilter) ([]domain.Product, error) {
	return s.Products.List(f)
}

type NewProductInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Quantity      int      `json:"quantity"`
	Category      string   `json:"category"`
	Images        []string `json:"images"`
	Weight        float64  `json:"weight"`
	Dimensions    string   `json:"dimensions"`
	MinOrder      int      `json:"minOrder"`
	MaxOrder      int      `json:"maxOrder"`
	Tags          []string `json:"tags"`
}

// Create lists a new product for a manufacturer. Admin listings come out
// approved immediately; manufacturer listings wait for admin review. All
// products are flagged made-in-USA, a platform rule inherited from the
// relief program's sourcing requirements.
func (s *CatalogService) Create(ownerID, ownerRole string, in NewProductInput) (domain.Product, error) {
	minOrder := in.MinOrder
	if minOrder <= 0 {
		minOrder = 1
	}
	maxOrder := in.MaxOrder
	if maxOrder <= 0 {
		maxOrder = in.Quantity
	}

	ts := nowStamp()
	p := domain.Product{
		ID:             uuid.NewString(),
		ManufacturerID: ownerID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Price:          in.Price,
		OriginalPrice:  in.OriginalPrice,
		Quantity:       in.Quantity,
		Images:         in.Images,
		Weight:         in.Weight,
		Dimensions:     in.Dimensions,
		MinOrder:       minOrder,
		MaxOrder:       maxOrder,
		Tags:           in.Tags,
		IsApproved:     ownerRole == domain.RoleAdmin,
		MadeInUSA:      true,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.Products.Create(&p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
