package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/services/identity"

	"go.uber.org/zap"
)

// CreateAppointment books a pending visit for the authenticated patient.
// Any patient id in the request body is ignored.
func (s *DefaultBookingService) CreateAppointment(ctx context.Context, patientID string, in models.AppointmentInput) (*models.Appointment, error) {
	if patientID == "" {
		return nil, identity.ErrUnauthenticated
	}
	if missing := missingAppointmentFields(in); len(missing) > 0 {
		return nil, &InputError{
			Msg:    "Missing fields: " + strings.Join(missing, ", "),
			Fields: missing,
		}
	}

	if *in.Duration <= 0 {
		return nil, &InputError{
			Msg:    "duration must be a positive number of minutes",
			Fields: []string{"duration"},
		}
	}

	appt := &models.Appointment{
		PatientID:     patientID,
		ProviderID:    *in.ProviderID,
		ProviderName:  in.ProviderName,
		ScheduledDate: *in.ScheduledDate,
		Duration:      *in.Duration,
		Type:          *in.Type,
	}
	if in.Notes != nil {
		appt.Notes = *in.Notes
	}

	created, err := s.Appointments.Create(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.Logger.Info("appointment created",
		zap.String("appointmentId", created.ID),
		zap.String("patientId", patientID),
		zap.String("providerId", created.ProviderID),
	)
	return created, nil
}

func (s *DefaultBookingService) ListPatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	appts, err := s.Appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return nonNil(appts), nil
}

func (s *DefaultBookingService) ListProviderAppointments(ctx context.Context, providerID string) ([]models.Appointment, error) {
	appts, err := s.Appointments.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider appointments: %w", err)
	}
	return nonNil(appts), nil
}

func missingAppointmentFields(in models.AppointmentInput) []string {
	var missing []string
	if in.ProviderID == nil {
		missing = append(missing, "providerId")
	}
	if in.ScheduledDate == nil {
		missing = append(missing, "scheduledDate")
	}
	if in.Duration == nil {
		missing = append(missing, "duration")
	}
	if in.Type == nil {
		missing = append(missing, "type")
	}
	return missing
}

func nonNil(appts []models.Appointment) []models.Appointment {
	if appts == nil {
		return []models.Appointment{}
	}
	return appts
}

// lookup maps the store's not-found error onto the service's.
func (s *DefaultBookingService) lookup(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		if isStoreNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return appt, nil
}

func (s *DefaultBookingService) update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := s.Appointments.Update(ctx, id, fields); err != nil {
		if isStoreNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update appointment %s: %w", id, err)
	}
	return nil
}

func isStoreNotFound(err error) bool {
	return errors.Is(err, appointmentRepo.ErrNotFound)
}
