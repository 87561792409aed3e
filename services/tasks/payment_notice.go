package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"medibook/models"

	"github.com/hibiken/asynq"
)

const TypeProviderPaidNotice = "notification:provider_paid"

// ProviderPaidPayload carries the paid appointment so the worker does not
// have to read it back from the store.
type ProviderPaidPayload struct {
	Appointment models.Appointment `json:"appointment"`
}

// NewProviderPaidTask builds the task that pushes a "paid" notice to the
// appointment's provider.
func NewProviderPaidTask(appt models.Appointment) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ProviderPaidPayload{Appointment: appt})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeProviderPaidNotice, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		// One notice per payment, even if verification is repeated.
		asynq.TaskID("provider_paid:" + appt.ID + ":" + appt.PaymentID),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParseProviderPaidPayload decodes a task built by NewProviderPaidTask.
func ParseProviderPaidPayload(task *asynq.Task) (*ProviderPaidPayload, error) {
	var p ProviderPaidPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", TypeProviderPaidNotice, err)
	}
	if p.Appointment.ID == "" || p.Appointment.ProviderID == "" {
		return nil, fmt.Errorf("invalid %s payload: appointment id and provider id are required", TypeProviderPaidNotice)
	}
	return &p, nil
}
