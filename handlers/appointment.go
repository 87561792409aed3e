package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/booking"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	Service booking.BookingService
}

func NewAppointmentHandler(service booking.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointmentHandler handles POST /api/appointments. The patient is
// always the authenticated caller.
func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var in models.AppointmentInput
	if !bindJSON(c, &in) {
		return
	}

	appt, err := h.Service.CreateAppointment(c.Request.Context(), callerID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	appt.NormalizeTimes()
	c.JSON(http.StatusCreated, appt)
}

// ListAppointmentsHandler handles GET /api/appointments.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	appts, err := h.Service.ListPatientAppointments(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	for i := range appts {
		appts[i].NormalizeTimes()
	}
	c.JSON(http.StatusOK, appts)
}
