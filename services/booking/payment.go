package booking

import (
	"context"
	"errors"
	"fmt"

	"medibook/models"
	"medibook/services/payment"
	"medibook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CreatePaymentOrder opens a gateway order for the flat fee and records it on
// the appointment. Nothing is written when the gateway fails.
func (s *DefaultBookingService) CreatePaymentOrder(ctx context.Context, callerID, appointmentID string) (*models.PaymentOrder, error) {
	logger := s.Logger.With(zap.String("appointmentId", appointmentID), zap.String("callerId", callerID))

	if appointmentID == "" {
		return nil, &InputError{Msg: "appointmentId required", Fields: []string{"appointmentId"}}
	}

	appt, err := s.lookup(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.PaymentStatus == models.PaymentPaid {
		logger.Warn("payment order requested for a paid appointment", zap.String("paymentId", appt.PaymentID))
		return nil, &InputError{Msg: "Appointment already paid"}
	}
	if appt.PatientID != callerID {
		logger.Warn("payment order requested for another patient's appointment", zap.String("patientId", appt.PatientID))
		if s.EnforceOwnership {
			return nil, ErrForbidden
		}
	}

	orderID, err := s.Gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: s.Fee * 100,
		Currency:    s.Currency,
		Receipt:     appointmentID,
		Notes:       map[string]string{"appointmentId": appointmentID},
	})
	if err != nil {
		logger.Error("payment order creation failed", zap.Error(err))
		return nil, err
	}

	if err := s.update(ctx, appointmentID, map[string]interface{}{
		"orderId":       orderID,
		"paymentStatus": models.PaymentPending,
	}); err != nil {
		// The gateway order stays open; the client may retry with a new one.
		logger.Error("gateway order not recorded on appointment", zap.String("orderId", orderID), zap.Error(err))
		return nil, err
	}

	logger.Info("payment order recorded", zap.String("orderId", orderID))
	return &models.PaymentOrder{OrderID: orderID, KeyID: s.Gateway.KeyID()}, nil
}

// VerifyPayment checks the checkout signature and marks the appointment paid.
// A bad signature, or an order that is not the one recorded on the
// appointment, changes nothing. Re-verifying the same payment rewrites the
// same values.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, callerID string, req models.PaymentVerification) error {
	logger := s.Logger.With(zap.String("appointmentId", req.AppointmentID), zap.String("callerId", callerID))

	if missing := req.MissingFields(); len(missing) > 0 {
		return &InputError{Msg: "Missing fields", Fields: missing}
	}

	if err := s.Gateway.VerifySignature(req.RazorpayPaymentID, req.RazorpayOrderID, req.RazorpaySignature); err != nil {
		logger.Warn("payment signature rejected", zap.String("orderId", req.RazorpayOrderID), zap.Error(err))
		if !errors.Is(err, payment.ErrInvalidSignature) {
			err = fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
		}
		return &InputError{Msg: "Invalid signature", Err: err}
	}

	appt, err := s.lookup(ctx, req.AppointmentID)
	if err != nil {
		return err
	}
	// The signature covers order and payment only; the order must be the one
	// recorded on this appointment.
	if appt.OrderID == "" || appt.OrderID != req.RazorpayOrderID {
		logger.Warn("verified order does not belong to the appointment",
			zap.String("recordedOrderId", appt.OrderID),
			zap.String("verifiedOrderId", req.RazorpayOrderID),
		)
		return &InputError{Msg: "Invalid signature", Err: payment.ErrInvalidSignature}
	}

	if err := s.update(ctx, req.AppointmentID, map[string]interface{}{
		"paymentStatus": models.PaymentPaid,
		"paymentId":     req.RazorpayPaymentID,
	}); err != nil {
		return err
	}
	logger.Info("payment verified", zap.String("paymentId", req.RazorpayPaymentID))

	appt.PaymentStatus = models.PaymentPaid
	appt.PaymentID = req.RazorpayPaymentID
	s.notifyProviderPaid(ctx, appt, logger)
	return nil
}

// notifyProviderPaid queues the provider notice, or sends it in-request when
// no queue is configured or enqueueing fails. Failures are only logged.
func (s *DefaultBookingService) notifyProviderPaid(ctx context.Context, appt *models.Appointment, logger *zap.Logger) {
	if s.Tasks != nil {
		task, opts, err := tasks.NewProviderPaidTask(*appt)
		if err == nil {
			_, err = s.Tasks.EnqueueContext(ctx, task, opts...)
		}
		switch {
		case err == nil:
			logger.Debug("provider notice queued")
			return
		case errors.Is(err, asynq.ErrTaskIDConflict):
			logger.Debug("provider notice already queued")
			return
		default:
			logger.Warn("provider notice not queued", zap.Error(err))
		}
	}
	if s.Notifier != nil {
		if err := s.Notifier.NotifyProviderPaid(ctx, appt); err != nil {
			logger.Warn("provider notification failed", zap.Error(err))
		}
	}
}
