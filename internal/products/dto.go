package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tokopintar/catalog-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    *string         `json:"category"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CreatedBy   *CreatorDTO     `json:"createdBy"`
}

// CreatorDTO surfaces limited user data on product responses.
type CreatorDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// AnonymousCreator is the stand-in used when a product has no owning user.
func AnonymousCreator() *CreatorDTO {
	return &CreatorDTO{ID: "anonymous", Name: "Anonymous User", Email: nil}
}

// NewProductDTO builds a DTO from the persisted model. Images come out in
// position order as bare URLs.
func NewProductDTO(product *models.Product) *ProductDTO {
	images := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, img.URL)
	}

	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Images:      images,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Creator != nil {
		email := product.Creator.Email
		dto.CreatedBy = &CreatorDTO{
			ID:    product.Creator.ID.String(),
			Name:  product.Creator.Name,
			Email: &email,
		}
	}
	return dto
}
