package payment

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned for any payment signature that does not
// verify, including malformed input.
var ErrInvalidSignature = errors.New("invalid payment signature")

// GatewayError wraps a transport failure or a processor-side rejection.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// OrderRequest describes the charge to create. AmountMinor is in the
// currency's minor unit (paise for INR).
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Gateway is the payment processor as seen by the booking service.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)
	VerifySignature(paymentID, orderID, signature string) error
	// KeyID is the public key the client checkout needs.
	KeyID() string
}
