package handlers

import (
	"medibook/services/identity"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and the auth verifier the
// router needs.
type HandlerBundle struct {
	Verifier identity.TokenVerifier

	// Health endpoints
	HealthHandler       gin.HandlerFunc
	DependenciesHandler gin.HandlerFunc

	// Provider endpoints
	ListProvidersHandler        gin.HandlerFunc
	ProviderAppointmentsHandler gin.HandlerFunc
	ProviderIncomeHandler       gin.HandlerFunc

	// Appointment endpoints
	CreateAppointmentHandler gin.HandlerFunc
	ListAppointmentsHandler  gin.HandlerFunc

	// Payment endpoints
	CreatePaymentOrderHandler gin.HandlerFunc
	VerifyPaymentHandler      gin.HandlerFunc
}

// NewHandlerBundle wires every handler onto one bundle.
func NewHandlerBundle(verifier identity.TokenVerifier, appts *AppointmentHandler, providers *ProviderHandler, payments *PaymentHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		Verifier: verifier,

		HealthHandler:       health.LivenessHandler,
		DependenciesHandler: health.DependenciesHandler,

		ListProvidersHandler:        providers.ListProvidersHandler,
		ProviderAppointmentsHandler: providers.ProviderAppointmentsHandler,
		ProviderIncomeHandler:       providers.ProviderIncomeHandler,

		CreateAppointmentHandler: appts.CreateAppointmentHandler,
		ListAppointmentsHandler:  appts.ListAppointmentsHandler,

		CreatePaymentOrderHandler: payments.CreateOrderHandler,
		VerifyPaymentHandler:      payments.VerifyPaymentHandler,
	}
}
