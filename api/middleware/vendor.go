package middleware

import (
	"context"
	"net/http"

	"github.com/shoplivedeals/livedeals-backend/api/responses"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type approvedVendorFinder interface {
	FindApprovedByUserID(ctx context.Context, userID string) (*models.VendorProfile, error)
}

// VendorContext resolves the caller's approved vendor profile and stores its
// id in the request context. Requests without one are rejected.
func VendorContext(vendors approvedVendorFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			profile, err := vendors.FindApprovedByUserID(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxVendorID, profile.ID)
			if logg != nil {
				ctx = logg.WithField(ctx, "vendor_profile_id", profile.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
