package product

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDForVendor(ctx context.Context, id, vendorID string) (*models.Product, error)
	List(ctx context.Context, vendorID string) ([]models.Product, error)
	ListActive(ctx context.Context, limit int) ([]models.Product, error)
	Update(ctx context.Context, id, vendorID string, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id, vendorID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDForVendor(ctx context.Context, id, vendorID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// List returns the catalog, newest first, optionally scoped to one vendor.
func (r *repository) List(ctx context.Context, vendorID string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	var list []models.Product
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListActive returns the storefront catalog: active products only, newest
// first.
func (r *repository) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var list []models.Product
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id, vendorID string, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id, vendorID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}
