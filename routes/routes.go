package routes

import (
	"time"

	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterHealthRoutes registers the unauthenticated health endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/health")
	{
		api.GET("", hb.HealthHandler)
		api.GET("/dependencies", hb.DependenciesHandler)
	}
}

// RegisterProviderRoutes registers the public directory and the
// provider-side views of the caller's bookings.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	r.GET("/api/providers", hb.ListProvidersHandler)

	provider := r.Group("/api/provider")
	{
		provider.Use(middleware.FirebaseAuth(hb.Verifier, logger))
		provider.GET("/appointments", hb.ProviderAppointmentsHandler)
		provider.GET("/income", hb.ProviderIncomeHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, corsOrigins []string, logger *zap.Logger) {
	r.Use(cors.New(corsConfig(corsOrigins)))

	RegisterHealthRoutes(r, hb)
	RegisterProviderRoutes(r, hb, logger)
	RegisterAppointmentRoutes(r, hb, logger)
	RegisterPaymentRoutes(r, hb, logger)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a wildcard origin.
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
