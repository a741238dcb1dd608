// Package reservation locks product stock rows and decrements them for a
// checkout in flight. It is always called inside the checkout transaction so
// the decrements commit or roll back together with the orders they back.
package reservation

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// Line is one requested (product, quantity) pair.
type Line struct {
	ProductID string
	Qty       int
}

// ReservedLine carries the locked product snapshot the rest of checkout
// prices against. PriceAtSale and tax fields are read under the row lock, so
// a concurrent product edit cannot change what this checkout charges.
type ReservedLine struct {
	Product models.Product
	Qty     int
}

// Reserve locks each product row in request order, verifies stock and
// decrements it. Any shortfall aborts the whole batch with an
// INSUFFICIENT_STOCK error naming the product and the quantity left; the
// caller's transaction rollback undoes the decrements already applied.
func Reserve(ctx context.Context, tx *gorm.DB, lines []Line) ([]ReservedLine, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction handle is required")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
	}

	reserved := make([]ReservedLine, 0, len(lines))
	for _, line := range lines {
		product, err := lockProduct(ctx, tx, line.ProductID)
		if err != nil {
			return nil, err
		}

		if product.StockQuantity < line.Qty {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id": product.ID,
					"product":    product.Name,
					"requested":  line.Qty,
					"remaining":  product.StockQuantity,
				})
		}

		// conditional decrement is the guard of record; the row lock only
		// serializes concurrent checkouts on the same product
		res := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", product.ID, line.Qty).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Qty))
		if res.Error != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", product.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id": product.ID,
					"product":    product.Name,
					"requested":  line.Qty,
					"remaining":  product.StockQuantity,
				})
		}

		product.StockQuantity -= line.Qty
		reserved = append(reserved, ReservedLine{Product: *product, Qty: line.Qty})
	}
	return reserved, nil
}

// Restore adds quantity back onto a product's stock. Used by the expiry
// sweeper when it cancels a pending order.
func Restore(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}

// LockForRestore takes non-waiting locks on the given product rows so the
// expiry sweeper never queues behind a live checkout holding some of them.
// Returns false when any row is held by another transaction; the caller
// leaves that order for the next sweep.
func LockForRestore(ctx context.Context, tx *gorm.DB, productIDs []string) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction handle is required")
	}

	seen := make(map[string]struct{}, len(productIDs))
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return true, nil
	}
	// sqlite serializes writers on its own and rejects FOR UPDATE
	if tx.Dialector.Name() != "postgres" {
		return true, nil
	}

	var locked []string
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Options: "SKIP LOCKED"}).
		Where("id IN ?", ids).
		Pluck("id", &locked).Error
	if err != nil {
		return false, fmt.Errorf("lock products for restore: %w", err)
	}
	return len(locked) == len(ids), nil
}

func lockProduct(ctx context.Context, tx *gorm.DB, productID string) (*models.Product, error) {
	query := tx.WithContext(ctx)
	// sqlite serializes writers on its own and rejects FOR UPDATE
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var product models.Product
	if err := query.Where("id = ?", productID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": productID})
		}
		return nil, fmt.Errorf("lock product %s: %w", productID, err)
	}
	return &product, nil
}
