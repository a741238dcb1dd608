package vendors

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Repository defines persistence operations for vendor profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id string) (*models.VendorProfile, error)
	FindApprovedByUserID(ctx context.Context, userID string) (*models.VendorProfile, error)
	CommissionRateFor(ctx context.Context, vendorID string, fallback decimal.Decimal) (decimal.Decimal, error)
	SearchByStoreOrEmail(ctx context.Context, term string) (*models.VendorProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendors repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.VendorProfile, error) {
	var profile models.VendorProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindApprovedByUserID(ctx context.Context, userID string) (*models.VendorProfile, error) {
	var profile models.VendorProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.VendorStatusApproved).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "approved vendor profile required")
		}
		return nil, err
	}
	return &profile, nil
}

// CommissionRateFor resolves the vendor's commission percentage, falling back
// to the platform default when the profile has no override.
func (r *repository) CommissionRateFor(ctx context.Context, vendorID string, fallback decimal.Decimal) (decimal.Decimal, error) {
	profile, err := r.FindByID(ctx, vendorID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if profile.PlatformCommissionRate == nil {
		return fallback, nil
	}
	return *profile.PlatformCommissionRate, nil
}

// SearchByStoreOrEmail performs a case-insensitive lookup against the store
// name or the owning user's email, for the public application status check.
func (r *repository) SearchByStoreOrEmail(ctx context.Context, term string) (*models.VendorProfile, error) {
	needle := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var profile models.VendorProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = vendor_profiles.user_id").
		Where("LOWER(vendor_profiles.store_name) LIKE ? OR LOWER(users.email) LIKE ?", needle, needle).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no application matches that store or email")
		}
		return nil, err
	}
	return &profile, nil
}
