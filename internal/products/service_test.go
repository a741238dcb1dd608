package product

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.VendorProfile{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strptr(s string) *string { return &s }

func TestCreate_DefaultsTaxRate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))

	created, err := svc.Create(context.Background(), "vendor_1", CreateInput{
		Name:           "Silk Saree",
		Price:          dec("1499.00"),
		StockQuantity:  10,
		IsGSTInclusive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(created.ID, "prod_") {
		t.Fatalf("unexpected id %s", created.ID)
	}
	if !created.TaxRate.Equal(dec("18")) {
		t.Fatalf("tax rate = %s, want default 18", created.TaxRate)
	}
	if !created.IsActive {
		t.Fatal("new products start active")
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, "vendor_1", CreateInput{Price: dec("10")})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	_, err = svc.Create(ctx, "vendor_1", CreateInput{Name: "X", Price: dec("-1")})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
	_, err = svc.Create(ctx, "vendor_1", CreateInput{Name: "X", Price: dec("1"), StockQuantity: -2})
	if err == nil {
		t.Fatal("expected error for negative stock")
	}
}

func TestUpdate_OwnershipScoped(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Saree", Price: dec("100"), StockQuantity: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	price := dec("120")
	updated, err := svc.Update(ctx, "vendor_1", created.ID, UpdateInput{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(price) {
		t.Fatalf("price = %s, want 120", updated.Price)
	}

	_, err = svc.Update(ctx, "vendor_2", created.ID, UpdateInput{Price: &price})
	if err == nil {
		t.Fatal("expected not found for foreign vendor")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Saree", Price: dec("100")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, "vendor_2", created.ID); err == nil {
		t.Fatal("expected not found for foreign vendor")
	}
	if err := svc.Delete(ctx, "vendor_1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty catalog, got %d", count)
	}
}

func TestList_ScopesByVendor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Saree", Price: dec("100")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "vendor_2", CreateInput{Name: "Kurta", Price: dec("200")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	scoped, err := svc.List(ctx, "vendor_1")
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Name != "Saree" {
		t.Fatalf("unexpected scoped result: %+v", scoped)
	}
}

func TestListActive_FiltersAndLimits(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Saree", Price: dec("100")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Kurta", Price: dec("200")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", first.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.ListActive(ctx, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Kurta" {
		t.Fatalf("unexpected catalog: %+v", active)
	}

	if _, err := svc.Create(ctx, "vendor_1", CreateInput{Name: "Dupatta", Price: dec("50")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	limited, err := svc.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 product, got %d", len(limited))
	}
}

func TestCreate_PersistsExclusiveGSTAndZeroRate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	zero := dec("0")
	created, err := svc.Create(context.Background(), "vendor_1", CreateInput{
		Name:           "Export Handloom",
		Price:          dec("250.00"),
		StockQuantity:  5,
		IsGSTInclusive: false,
		TaxRate:        &zero,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if stored.IsGSTInclusive {
		t.Fatal("exclusive GST flag came back inclusive")
	}
	if !stored.TaxRate.Equal(zero) {
		t.Fatalf("tax rate = %s, want explicit 0", stored.TaxRate)
	}
}
