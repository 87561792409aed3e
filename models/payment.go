package models

// PaymentOrderRequest is the body of POST /api/payments/order.
type PaymentOrderRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// PaymentOrder is returned to the client so it can open the Razorpay checkout.
type PaymentOrder struct {
	OrderID string `json:"orderId"`
	KeyID   string `json:"keyId"`
}

// PaymentVerification is the body of POST /api/payments/verify, as posted by
// the Razorpay checkout handler.
type PaymentVerification struct {
	AppointmentID     string `json:"appointmentId"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// MissingFields lists the names of the empty required fields.
func (p PaymentVerification) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"appointmentId", p.AppointmentID},
		{"razorpay_payment_id", p.RazorpayPaymentID},
		{"razorpay_order_id", p.RazorpayOrderID},
		{"razorpay_signature", p.RazorpaySignature},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
