package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/api/middleware"
	"github.com/shoplivedeals/livedeals-backend/api/responses"
	"github.com/shoplivedeals/livedeals-backend/api/validators"
	product "github.com/shoplivedeals/livedeals-backend/internal/products"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type createProductRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=2000"`
	Price          string  `json:"price" validate:"required"`
	StockQuantity  int     `json:"stock_quantity" validate:"min=0"`
	IsGSTInclusive *bool   `json:"is_gst_inclusive"`
	TaxRate        *string `json:"tax_rate"`
	HSNCode        *string `json:"hsn_code" validate:"omitempty,max=16"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
}

type updateProductRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=2000"`
	Price          *string `json:"price"`
	StockQuantity  *int    `json:"stock_quantity" validate:"omitempty,min=0"`
	IsGSTInclusive *bool   `json:"is_gst_inclusive"`
	TaxRate        *string `json:"tax_rate"`
	HSNCode        *string `json:"hsn_code" validate:"omitempty,max=16"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
}

type productResponse struct {
	ID             string  `json:"id"`
	VendorID       string  `json:"vendor_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Price          string  `json:"price"`
	StockQuantity  int     `json:"stock_quantity"`
	IsGSTInclusive bool    `json:"is_gst_inclusive"`
	TaxRate        string  `json:"tax_rate"`
	HSNCode        *string `json:"hsn_code,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// PublicListProducts returns the active catalog for storefront browsing.
func PublicListProducts(service product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := service.ListActive(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponses(list))
	}
}

// VendorListProducts returns the caller's own catalog, active or not.
func VendorListProducts(service product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := middleware.VendorIDFromContext(r.Context())
		list, err := service.List(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponses(list))
	}
}

func VendorCreateProduct(service product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := validators.ParseDecimal("price", req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		taxRate, err := parseOptionalDecimal("tax_rate", req.TaxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.CreateInput{
			Name:           validators.SanitizeString(req.Name, 200),
			Description:    req.Description,
			Price:          price,
			StockQuantity:  req.StockQuantity,
			IsGSTInclusive: true,
			TaxRate:        taxRate,
			HSNCode:        req.HSNCode,
			ImageURL:       req.ImageURL,
		}
		if req.IsGSTInclusive != nil {
			input.IsGSTInclusive = *req.IsGSTInclusive
		}

		created, err := service.Create(r.Context(), middleware.VendorIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductResponse(created))
	}
}

func VendorUpdateProduct(service product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parseOptionalDecimal("price", req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		taxRate, err := parseOptionalDecimal("tax_rate", req.TaxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateInput{
			Name:           req.Name,
			Description:    req.Description,
			Price:          price,
			StockQuantity:  req.StockQuantity,
			IsGSTInclusive: req.IsGSTInclusive,
			TaxRate:        taxRate,
			HSNCode:        req.HSNCode,
			ImageURL:       req.ImageURL,
		}

		updated, err := service.Update(r.Context(), middleware.VendorIDFromContext(r.Context()), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponse(updated))
	}
}

func VendorDeleteProduct(service product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productId")
		if err := service.Delete(r.Context(), middleware.VendorIDFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseOptionalDecimal(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := validators.ParseDecimal(field, *raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		VendorID:       p.VendorID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		StockQuantity:  p.StockQuantity,
		IsGSTInclusive: p.IsGSTInclusive,
		TaxRate:        p.TaxRate.String(),
		HSNCode:        p.HSNCode,
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
	}
}

func toProductResponses(list []models.Product) []productResponse {
	out := make([]productResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	return out
}
