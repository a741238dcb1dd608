package product

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplivedeals/livedeals-backend/internal/ledger"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Service exposes vendor product management operations.
type Service interface {
	Create(ctx context.Context, vendorID string, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, vendorID, productID string, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, vendorID, productID string) error
	List(ctx context.Context, vendorID string) ([]models.Product, error)
	ListActive(ctx context.Context, limit int) ([]models.Product, error)
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	StockQuantity  int
	IsGSTInclusive bool
	TaxRate        *decimal.Decimal
	HSNCode        *string
	ImageURL       *string
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	StockQuantity  *int
	IsGSTInclusive *bool
	TaxRate        *decimal.Decimal
	HSNCode        *string
	ImageURL       *string
}

type service struct {
	repo Repository
}

// NewService wires a product service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

const productIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newProductID(now time.Time) string {
	var b strings.Builder
	b.Grow(5)
	for i := 0; i < 5; i++ {
		b.WriteByte(productIDAlphabet[rand.Intn(len(productIDAlphabet))])
	}
	return fmt.Sprintf("prod_%d_%s", now.UnixMilli(), b.String())
}

func (s *service) Create(ctx context.Context, vendorID string, input CreateInput) (*models.Product, error) {
	if vendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
	}

	taxRate := ledger.DefaultProductTaxRate
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
		}
		taxRate = *input.TaxRate
	}

	product := &models.Product{
		ID:             newProductID(time.Now()),
		VendorID:       vendorID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		StockQuantity:  input.StockQuantity,
		IsGSTInclusive: input.IsGSTInclusive,
		TaxRate:        taxRate,
		HSNCode:        input.HSNCode,
		ImageURL:       input.ImageURL,
		IsActive:       true,
	}
	return s.repo.Create(ctx, product)
}

func (s *service) Update(ctx context.Context, vendorID, productID string, input UpdateInput) (*models.Product, error) {
	if vendorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
		}
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.IsGSTInclusive != nil {
		updates["is_gst_inclusive"] = *input.IsGSTInclusive
	}
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
		}
		updates["tax_rate"] = *input.TaxRate
	}
	if input.HSNCode != nil {
		updates["hsn_code"] = *input.HSNCode
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	affected, err := s.repo.Update(ctx, productID, vendorID, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.repo.FindByIDForVendor(ctx, productID, vendorID)
}

func (s *service) Delete(ctx context.Context, vendorID, productID string) error {
	if vendorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	affected, err := s.repo.Delete(ctx, productID, vendorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, vendorID string) ([]models.Product, error) {
	return s.repo.List(ctx, vendorID)
}

func (s *service) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	return s.repo.ListActive(ctx, limit)
}
