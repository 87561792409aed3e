package booking

import (
	"context"
	"fmt"

	appointmentRepo "medibook/database/repository/appointment"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/notification"
	"medibook/services/payment"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingService is everything the HTTP layer can ask of the booking flow.
// Caller identities always come from the verified token.
type BookingService interface {
	ListProviders(ctx context.Context) ([]models.Provider, error)

	CreateAppointment(ctx context.Context, patientID string, in models.AppointmentInput) (*models.Appointment, error)
	ListPatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListProviderAppointments(ctx context.Context, providerID string) ([]models.Appointment, error)
	ProviderIncome(ctx context.Context, providerID, date string) (*models.Income, error)

	CreatePaymentOrder(ctx context.Context, callerID, appointmentID string) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, callerID string, req models.PaymentVerification) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Appointments appointmentRepo.AppointmentRepository
	Users        userRepo.UserRepository
	Gateway      payment.Gateway
	// Notifier is optional; nil disables provider pushes.
	Notifier notification.NotificationService
	// Tasks, when set, queues provider pushes for the notice worker instead
	// of sending them during the request.
	Tasks TaskEnqueuer

	// Fee is the flat per-visit fee in major currency units.
	Fee      int64
	Currency string
	// EnforceOwnership rejects order creation for another patient's appointment.
	EnforceOwnership bool

	Logger *zap.Logger
}

func NewDefaultBookingService(svc DefaultBookingService) (*DefaultBookingService, error) {
	if svc.Appointments == nil || svc.Users == nil || svc.Gateway == nil {
		return nil, fmt.Errorf("booking service initialization error: one or more dependencies are nil")
	}
	if svc.Fee <= 0 {
		return nil, fmt.Errorf("booking service initialization error: fee must be positive")
	}
	if svc.Currency == "" {
		svc.Currency = "INR"
	}
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}
	return &svc, nil
}

func (s *DefaultBookingService) ListProviders(ctx context.Context) ([]models.Provider, error) {
	providers, err := s.Users.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	if providers == nil {
		providers = []models.Provider{}
	}
	return providers, nil
}
