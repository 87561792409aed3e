package appointmentRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrNotFound is returned when no appointment has the requested id.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository is the document-store view of appointments.
type AppointmentRepository interface {
	// GetByID returns ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// Create assigns the id and timestamps and stores a pending appointment.
	Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Appointment, error)
	// Update merges fields into the record and refreshes updatedAt.
	// It returns ErrNotFound when the id is unknown.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// Ping is used by the health monitor.
	Ping(ctx context.Context) error
}

// prepareNew applies the creation defaults shared by every backend. Only an
// absent (zero) duration is defaulted; callers validate the value.
func prepareNew(appt *models.Appointment) {
	if appt.Duration == 0 {
		appt.Duration = models.DefaultAppointmentDuration
	}
	appt.Status = models.AppointmentPending
	appt.OrderID = ""
	appt.PaymentStatus = ""
	appt.PaymentID = ""
}
