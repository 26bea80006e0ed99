package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tokopintar/catalog-backend/internal/ingest"
	"github.com/tokopintar/catalog-backend/pkg/db/models"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
	"github.com/tokopintar/catalog-backend/pkg/logger"
)

// Service exposes catalog product operations.
type Service interface {
	CreateProduct(ctx context.Context, actorID *uuid.UUID, input CreateProductInput) (*CreateProductResult, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    *string
	Images      []string
}

// CreateProductResult pairs the created product with ingestion counts.
type CreateProductResult struct {
	Product           *ProductDTO
	UploadedImages    int
	PlaceholderImages int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type imageIngester interface {
	IngestAll(ctx context.Context, productName string, refs []string) ([]ingest.Uploaded, error)
}

type service struct {
	repo     *Repository
	dbClient txRunner
	ingester imageIngester
	intents  *ingest.IntentRepository
	logg     *logger.Logger
}

// NewService constructs a product service instance. The intent repository is
// optional; without it uploads are simply not tracked for reconciliation.
func NewService(repo *Repository, dbClient txRunner, ingester imageIngester, intents *ingest.IntentRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if ingester == nil {
		return nil, fmt.Errorf("image ingester required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		ingester: ingester,
		intents:  intents,
		logg:     logg,
	}, nil
}

// CreateProduct validates the payload, ingests every image reference, and
// persists the product with its images in one transaction. Validation runs
// before ingestion so a bad payload never triggers uploads.
func (s *service) CreateProduct(ctx context.Context, actorID *uuid.UUID, input CreateProductInput) (*CreateProductResult, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	uploaded, err := s.ingester.IngestAll(ctx, input.Name, input.Images)
	if err != nil {
		return nil, err
	}

	images := make([]models.ProductImage, 0, len(uploaded))
	fileIDs := make([]string, 0, len(uploaded))
	for _, item := range uploaded {
		images = append(images, models.ProductImage{
			URL:           item.URL,
			FileID:        item.FileID,
			FileName:      item.FileName,
			Position:      item.Position,
			IsPlaceholder: item.Placeholder,
		})
		fileIDs = append(fileIDs, item.FileID)
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		CreatedBy:   actorID,
		Images:      images,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: insert product")
		}
		if s.intents != nil {
			if err := s.intents.WithTx(tx).MarkCommitted(ctx, fileIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: commit upload intents")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: reload created product")
	}

	dto := NewProductDTO(stored)
	if dto.CreatedBy == nil {
		dto.CreatedBy = AnonymousCreator()
	}

	result := &CreateProductResult{Product: dto}
	for _, item := range uploaded {
		if item.Placeholder {
			result.PlaceholderImages++
		} else {
			result.UploadedImages++
		}
	}

	cctx := s.logg.WithFields(ctx, map[string]any{
		"product_id":   product.ID,
		"images":       len(uploaded),
		"placeholders": result.PlaceholderImages,
	})
	s.logg.Info(cctx, "product created")

	return result, nil
}

// ListProducts returns every product, newest first. An empty catalog is an
// empty list, not an error.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

// GetProduct loads one product by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(row), nil
}

func validateCreateInput(input *CreateProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	if input.Name == "" || input.Description == "" || input.Price.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, description, and price are required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.Category != nil {
		trimmed := strings.TrimSpace(*input.Category)
		if trimmed == "" {
			input.Category = nil
		} else {
			input.Category = &trimmed
		}
	}
	return nil
}
