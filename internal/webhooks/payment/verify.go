package paymentwebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	pkgerrors "github.com/shoplivedeals/livedeals-backend/pkg/errors"
)

// BypassToken is accepted in place of a real signature only when the verifier
// was built with bypass enabled. Production configuration refuses to enable
// it at load time.
const BypassToken = "SIMULATION_BYPASS"

// Verifier checks gateway webhook signatures.
type Verifier struct {
	secret      []byte
	allowBypass bool
}

// NewVerifier builds a Verifier for the shared gateway secret.
func NewVerifier(secret string, allowBypass bool) (*Verifier, error) {
	if secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret required")
	}
	return &Verifier{secret: []byte(secret), allowBypass: allowBypass}, nil
}

// Verify checks the keyed signature over the raw payload bytes.
func (v *Verifier) Verify(payload []byte, signature string) error {
	if signature == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature missing")
	}
	if v.allowBypass && signature == BypassToken {
		return nil
	}
	expected := ComputeSignature(payload, v.secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch")
	}
	return nil
}

// ComputeSignature returns the base64 HMAC-SHA256 of payload under key.
func ComputeSignature(payload, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
