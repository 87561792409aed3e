package handlers

import (
	"net/http"

	"medibook/services/booking"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	Service booking.BookingService
}

func NewProviderHandler(service booking.BookingService) *ProviderHandler {
	return &ProviderHandler{Service: service}
}

// ListProvidersHandler handles the public GET /api/providers.
func (h *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	providers, err := h.Service.ListProviders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// ProviderAppointmentsHandler lists appointments booked with the caller.
func (h *ProviderHandler) ProviderAppointmentsHandler(c *gin.Context) {
	appts, err := h.Service.ListProviderAppointments(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	for i := range appts {
		appts[i].NormalizeTimes()
	}
	c.JSON(http.StatusOK, appts)
}

// ProviderIncomeHandler handles GET /api/provider/income?date=YYYY-MM-DD.
func (h *ProviderHandler) ProviderIncomeHandler(c *gin.Context) {
	income, err := h.Service.ProviderIncome(c.Request.Context(), callerID(c), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}
