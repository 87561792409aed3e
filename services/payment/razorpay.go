package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"
)

// OrderCreator is satisfied by the Razorpay client's Order resource.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates orders and verifies checkout signatures.
// The key secret never leaves this type.
type RazorpayGateway struct {
	orders    OrderCreator
	keyID     string
	keySecret string
	logger    *zap.Logger
}

// NewRazorpayGateway builds the gateway around a shared Razorpay client.
func NewRazorpayGateway(keyID, keySecret string, logger *zap.Logger) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return NewRazorpayGatewayWithOrders(client.Order, keyID, keySecret, logger)
}

// NewRazorpayGatewayWithOrders lets callers supply the order resource.
func NewRazorpayGatewayWithOrders(orders OrderCreator, keyID, keySecret string, logger *zap.Logger) *RazorpayGateway {
	return &RazorpayGateway{orders: orders, keyID: keyID, keySecret: keySecret, logger: logger}
}

func (g *RazorpayGateway) KeyID() string { return g.keyID }

// CreateOrder creates an auto-captured order. The SDK call is synchronous, so
// it runs on its own goroutine to honour ctx cancellation.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	if req.AmountMinor <= 0 {
		return "", &GatewayError{Op: "create order", Err: fmt.Errorf("amount must be positive, got %d", req.AmountMinor)}
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        req.Currency,
		"payment_capture": 1,
		"notes":           notes,
	}
	if req.Receipt != "" {
		data["receipt"] = req.Receipt
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := g.orders.Create(data, nil)
		done <- result{body, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return "", &GatewayError{Op: "create order", Err: ctx.Err()}
	case res = <-done:
	}
	if res.err != nil {
		return "", &GatewayError{Op: "create order", Err: res.err}
	}

	orderID, ok := res.body["id"].(string)
	if !ok || orderID == "" {
		return "", &GatewayError{Op: "create order", Err: errors.New("response carries no order id")}
	}

	g.logger.Info("razorpay order created",
		zap.String("orderId", orderID),
		zap.Int64("amount", req.AmountMinor),
		zap.String("currency", req.Currency),
	)
	return orderID, nil
}

// VerifySignature checks the HMAC-SHA256 the checkout returns over
// "orderID|paymentID" using the SDK's verifier. It fails closed.
func (g *RazorpayGateway) VerifySignature(paymentID, orderID, signature string) (err error) {
	if paymentID == "" || orderID == "" || signature == "" || g.keySecret == "" {
		return ErrInvalidSignature
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("razorpay signature verification panicked", zap.Any("panic", r))
			err = ErrInvalidSignature
		}
	}()

	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !rzputils.VerifyPaymentSignature(params, signature, g.keySecret) {
		return ErrInvalidSignature
	}
	return nil
}
