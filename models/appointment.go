package models

import "time"

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Payment statuses. An appointment without an order has an empty PaymentStatus.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// DefaultAppointmentDuration is used when a record carries no duration, in minutes.
const DefaultAppointmentDuration = 30

// Appointment is a booked visit between a patient and a provider.
// OrderID, PaymentStatus and PaymentID are written only by the payment flow.
type Appointment struct {
	ID            string    `firestore:"id" bson:"id" json:"id"`
	PatientID     string    `firestore:"patientId" bson:"patientId" json:"patientId"`
	ProviderID    string    `firestore:"providerId" bson:"providerId" json:"providerId"`
	ProviderName  *string   `firestore:"providerName" bson:"providerName" json:"providerName"`
	ScheduledDate string    `firestore:"scheduledDate" bson:"scheduledDate" json:"scheduledDate"` // ISO string from the client
	Duration      int       `firestore:"duration" bson:"duration" json:"duration"`
	Type          string    `firestore:"type" bson:"type" json:"type"`
	Status        string    `firestore:"status" bson:"status" json:"status"`
	Notes         string    `firestore:"notes" bson:"notes" json:"notes"`
	OrderID       string    `firestore:"orderId,omitempty" bson:"orderId,omitempty" json:"orderId,omitempty"`
	PaymentStatus string    `firestore:"paymentStatus,omitempty" bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	PaymentID     string    `firestore:"paymentId,omitempty" bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp" bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt,serverTimestamp" bson:"updatedAt" json:"updatedAt"`
}

// NormalizeTimes forces every timestamp to UTC so JSON carries a "Z" marker.
func (a *Appointment) NormalizeTimes() {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
}

// AppointmentInput is the body of POST /api/appointments. Pointer fields
// distinguish a missing key from a zero value.
type AppointmentInput struct {
	ProviderID    *string `json:"providerId"`
	ProviderName  *string `json:"providerName"`
	ScheduledDate *string `json:"scheduledDate"`
	Duration      *int    `json:"duration"`
	Type          *string `json:"type"`
	Notes         *string `json:"notes"`
}

// Income is the provider earnings summary for one day, or "all".
type Income struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
	Income       int64  `json:"income"`
}
