package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shoplivedeals/livedeals-backend/api/responses"
	"github.com/shoplivedeals/livedeals-backend/pkg/db/models"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type vendorSearcher interface {
	SearchByStoreOrEmail(ctx context.Context, term string) (*models.VendorProfile, error)
}

type vendorApplicationResponse struct {
	StoreName       string     `json:"store_name"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	Email           string     `json:"email,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
}

// VendorApplicationStatus looks up a vendor application by store name or
// account email. Public, so it leaks nothing beyond the application status.
func VendorApplicationStatus(vendors vendorSearcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("query"))
		if term == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required"))
			return
		}

		profile, err := vendors.SearchByStoreOrEmail(r.Context(), term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := vendorApplicationResponse{
			StoreName:       profile.StoreName,
			Status:          string(profile.Status),
			RejectionReason: profile.RejectionReason,
		}
		if profile.User != nil {
			out.Email = profile.User.Email
			submitted := profile.User.CreatedAt
			out.SubmittedAt = &submitted
		}
		responses.WriteSuccess(w, out)
	}
}
