package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterAppointmentRoutes registers the patient's appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	appointments := r.Group("/api/appointments")
	{
		appointments.Use(middleware.FirebaseAuth(hb.Verifier, logger))
		appointments.POST("", hb.CreateAppointmentHandler)
		appointments.GET("", hb.ListAppointmentsHandler)
	}
}

// RegisterPaymentRoutes registers the Razorpay order and verification flow.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	payments := r.Group("/api/payments")
	{
		payments.Use(middleware.FirebaseAuth(hb.Verifier, logger))
		payments.POST("/order", hb.CreatePaymentOrderHandler)
		payments.POST("/verify", hb.VerifyPaymentHandler)
	}
}
