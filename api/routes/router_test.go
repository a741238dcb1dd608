package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	checkoutsvc "github.com/shoplivedeals/livedeals-backend/internal/checkout"
	"github.com/shoplivedeals/livedeals-backend/internal/orders"
	product "github.com/shoplivedeals/livedeals-backend/internal/products"
	"github.com/shoplivedeals/livedeals-backend/internal/vendors"
	paymentwebhook "github.com/shoplivedeals/livedeals-backend/internal/webhooks/payment"
	pkgAuth "github.com/shoplivedeals/livedeals-backend/pkg/auth"
	"github.com/shoplivedeals/livedeals-backend/pkg/config"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	"github.com/shoplivedeals/livedeals-backend/pkg/enums"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCheckoutService struct{}

func (stubCheckoutService) Execute(ctx context.Context, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{SessionID: "cf_session_1700000000000_ab12c"}, nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, vendorID string, input product.CreateInput) (*models.Product, error) {
	return &models.Product{ID: "prod_1", VendorID: vendorID, Name: input.Name, Price: input.Price, TaxRate: decimal.NewFromInt(18), IsActive: true}, nil
}

func (stubProductService) Update(ctx context.Context, vendorID, productID string, input product.UpdateInput) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubProductService) Delete(ctx context.Context, vendorID, productID string) error {
	return nil
}

func (stubProductService) List(ctx context.Context, vendorID string) ([]models.Product, error) {
	return nil, nil
}

func (stubProductService) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	return []models.Product{{ID: "prod_1", VendorID: "vendor_1", Name: "Steel Bottle", Price: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(18), IsActive: true}}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListForVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return nil, nil
}

func (stubOrdersService) Update(ctx context.Context, input orders.UpdateInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

type stubVendorsRepo struct {
	approvedUserID string
}

func (s stubVendorsRepo) WithTx(tx *gorm.DB) vendors.Repository { return s }

func (s stubVendorsRepo) FindByID(ctx context.Context, id string) (*models.VendorProfile, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
}

func (s stubVendorsRepo) FindApprovedByUserID(ctx context.Context, userID string) (*models.VendorProfile, error) {
	if userID != s.approvedUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account is not approved")
	}
	return &models.VendorProfile{ID: "vendor_1", UserID: userID, StoreName: "Asha Kitchen", Status: enums.VendorStatusApproved}, nil
}

func (s stubVendorsRepo) CommissionRateFor(ctx context.Context, vendorID string, fallback decimal.Decimal) (decimal.Decimal, error) {
	return fallback, nil
}

func (s stubVendorsRepo) SearchByStoreOrEmail(ctx context.Context, term string) (*models.VendorProfile, error) {
	if !strings.Contains("asha kitchen", strings.ToLower(term)) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no application matches that store or email")
	}
	return &models.VendorProfile{ID: "vendor_1", StoreName: "Asha Kitchen", Status: enums.VendorStatusApproved}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "livedeals", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	verifier, err := paymentwebhook.NewVerifier("webhook-test-secret", false)
	if err != nil {
		t.Fatalf("construct verifier: %v", err)
	}
	return NewRouter(Deps{
		Config:        testConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "router-test"}),
		DB:            stubPinger{},
		CheckoutSvc:   stubCheckoutService{},
		ProductSvc:    stubProductService{},
		OrdersSvc:     stubOrdersService{},
		VendorsRepo:   stubVendorsRepo{approvedUserID: "user_1"},
		WebhookVerify: verifier,
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-LiveDeals-Env"); env != "dev" {
		t.Fatalf("expected env header dev, got %q", env)
	}
}

func TestPublicProductListing(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "Steel Bottle") {
		t.Fatalf("expected catalog in response, got %s", body)
	}
}

func TestCheckoutValidation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}

	payload := `{"customer":{"name":"Asha","email":"asha@example.com"},"items":[{"product_id":"prod_1","quantity":2}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "cf_session_") {
		t.Fatalf("expected session id in response, got %s", rec.Body.String())
	}
}

func TestVendorRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestVendorRoutesResolveApprovedProfile(t *testing.T) {
	router := newTestRouter(t)
	cfg := testConfig()

	mint := func(userID string) string {
		token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
			UserID: userID,
			Role:   enums.ActorRoleVendor,
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		return token
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
	req.Header.Set("Authorization", "Bearer "+mint("user_1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for approved vendor, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
	req.Header.Set("Authorization", "Bearer "+mint("user_2"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unapproved vendor, got %d", rec.Code)
	}
}

func TestVendorStatusLookup(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/status?query=asha", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "APPROVED") {
		t.Fatalf("expected status in response, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendors/status", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", rec.Code)
	}
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"data":{"order":{"order_id":"cf_session_1700000000000_ab12c"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(payload))
	req.Header.Set("x-webhook-signature", "not-a-real-signature")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d: %s", rec.Code, rec.Body.String())
	}
}
