package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tokopintar/catalog-backend/api/middleware"
	"github.com/tokopintar/catalog-backend/api/responses"
	"github.com/tokopintar/catalog-backend/api/validators"
	product "github.com/tokopintar/catalog-backend/internal/products"
	pkgerrors "github.com/tokopintar/catalog-backend/pkg/errors"
	"github.com/tokopintar/catalog-backend/pkg/logger"
	"github.com/tokopintar/catalog-backend/pkg/types"
)

const placeholderNote = "Some images were replaced with placeholders. Use base64 format for proper image upload."

type createProductRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Price       types.Decimal `json:"price" validate:"required"`
	Stock       types.Int     `json:"stock"`
	Category    *string       `json:"category,omitempty"`
	Images      []string      `json:"images"`
}

type createProductResponse struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	Product           *product.ProductDTO `json:"product"`
	UploadedImages    int                 `json:"uploadedImages"`
	PlaceholderImages int                 `json:"placeholderImages"`
	AuthStatus        string              `json:"authStatus"`
	Note              string              `json:"note,omitempty"`
}

type listProductsResponse struct {
	Success  bool                 `json:"success"`
	Products []product.ProductDTO `json:"products"`
	Total    int                  `json:"total"`
	Source   string               `json:"source"`
}

type productDetailResponse struct {
	Success bool                `json:"success"`
	Product *product.ProductDTO `json:"product"`
	Source  string              `json:"source"`
}

// CreateProduct handles product creation, including image ingestion. The
// endpoint accepts anonymous callers; an authenticated actor is attributed as
// the creator.
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())

		result, err := svc.CreateProduct(r.Context(), actor, product.CreateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price.Decimal,
			Stock:       body.Stock.Value,
			Category:    body.Category,
			Images:      body.Images,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		authStatus := "anonymous"
		if actor != nil {
			authStatus = "authenticated"
		}

		resp := createProductResponse{
			Success:           true,
			Message:           "Product created successfully",
			Product:           result.Product,
			UploadedImages:    result.UploadedImages,
			PlaceholderImages: result.PlaceholderImages,
			AuthStatus:        authStatus,
		}
		if result.PlaceholderImages > 0 {
			resp.Note = placeholderNote
		}
		responses.WriteJSON(w, http.StatusCreated, resp)
	}
}

// ListProducts returns the full catalog, newest first.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listProductsResponse{
			Success:  true,
			Products: products,
			Total:    len(products),
			Source:   "database",
		})
	}
}

// GetProduct returns a single product by ID.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productDetailResponse{
			Success: true,
			Product: dto,
			Source:  "database",
		})
	}
}
