package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Service booking.BookingService
}

func NewPaymentHandler(service booking.BookingService) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

// CreateOrderHandler handles POST /api/payments/order.
func (h *PaymentHandler) CreateOrderHandler(c *gin.Context) {
	var req models.PaymentOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Service.CreatePaymentOrder(c.Request.Context(), callerID(c), req.AppointmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// VerifyPaymentHandler handles POST /api/payments/verify with the fields
// posted back by the Razorpay checkout.
func (h *PaymentHandler) VerifyPaymentHandler(c *gin.Context) {
	var req models.PaymentVerification
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Service.VerifyPayment(c.Request.Context(), callerID(c), req); err != nil {
		writeError(c, err)
		return
	}
	getLogger(c).Info("payment confirmed", zap.String("appointmentId", req.AppointmentID))
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
