package notification

import (
	"context"
	"errors"
	"fmt"

	userRepo "medibook/database/repository/user"
	"medibook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNoDeviceToken means the recipient has not registered an FCM token.
var ErrNoDeviceToken = errors.New("recipient has no FCM token")

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	NotifyProviderPaid(ctx context.Context, appt *models.Appointment) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users  userRepo.UserRepository
	sender Sender
	logger *zap.Logger
}

func NewDefaultNotificationService(users userRepo.UserRepository, sender Sender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if users == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository or sender is nil")
	}
	return &DefaultNotificationService{users: users, sender: sender, logger: logger}, nil
}

// NotifyProviderPaid tells the provider that a booked visit has been paid for.
func (s *DefaultNotificationService) NotifyProviderPaid(ctx context.Context, appt *models.Appointment) error {
	p, err := s.users.GetProfile(ctx, appt.ProviderID)
	if err != nil {
		return fmt.Errorf("NotifyProviderPaid: could not find provider %s: %w", appt.ProviderID, err)
	}
	if p.FCMToken == "" {
		return fmt.Errorf("NotifyProviderPaid: provider %s: %w", appt.ProviderID, ErrNoDeviceToken)
	}

	msg := &messaging.Message{
		Token: p.FCMToken,
		Notification: &messaging.Notification{
			Title: "New paid appointment",
			Body:  fmt.Sprintf("A %s visit on %s has been paid.", appt.Type, displayDate(appt.ScheduledDate)),
		},
		Data: map[string]string{
			"type":          "payment_confirmation",
			"role":          "provider",
			"appointmentId": appt.ID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyProviderPaid: failed to send FCM message: %w", err)
	}
	s.logger.Debug("provider notified", zap.String("providerId", appt.ProviderID), zap.String("messageId", id))
	return nil
}

// displayDate trims an ISO date-time down to its date part.
func displayDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	if iso == "" {
		return "an unscheduled date"
	}
	return iso
}
