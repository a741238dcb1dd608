package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shoplivedeals/livedeals-backend/api/responses"
	paymentwebhook "github.com/shoplivedeals/livedeals-backend/internal/webhooks/payment"
	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

const signatureHeader = "x-webhook-signature"

type paymentConfirmer interface {
	ConfirmPayment(ctx context.Context, sessionID string) (int64, error)
}

type signatureVerifier interface {
	Verify(payload []byte, signature string) error
}

type replayGuard interface {
	CheckAndMark(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// PaymentWebhook receives gateway payment notifications and flips the
// matching pending orders to PLACED.
func PaymentWebhook(svc paymentConfirmer, verifier signatureVerifier, guard replayGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if verifier == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "signature verifier unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		if err := verifier.Verify(payload, r.Header.Get(signatureHeader)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var event paymentwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode event"))
			return
		}

		sessionID, err := event.SessionID()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, map[string]string{"status": "already processed"})
			return
		}

		confirmed, err := svc.ConfirmPayment(ctx, sessionID)
		if err != nil {
			_ = guard.Delete(ctx, sessionID)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"session_id":       sessionID,
				"orders_confirmed": confirmed,
			})
			logg.Info(logCtx, "payment webhook processed")
		}
		responses.WriteSuccess(w, map[string]any{
			"status":           "ok",
			"orders_confirmed": confirmed,
		})
	}
}
