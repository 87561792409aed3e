package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreAppointmentRepo struct {
	coll *firestore.CollectionRef
	now  func() time.Time
}

// NewFirestoreAppointmentRepo stores appointments in the "appointments" collection.
// Timestamps are written with the server-timestamp sentinel.
func NewFirestoreAppointmentRepo(client *firestore.Client) AppointmentRepository {
	return &firestoreAppointmentRepo{
		coll: client.Collection(database.AppointmentsCollection),
		now:  time.Now,
	}
}

func (r *firestoreAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ref, err := r.doc(id)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment %s: %w", id, err)
	}
	return decodeSnapshot(snap)
}

func (r *firestoreAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	ref := r.coll.NewDoc()

	rec := *appt
	rec.ID = ref.ID
	prepareNew(&rec)
	// Zero times are replaced by the server timestamp.
	rec.CreatedAt = time.Time{}
	rec.UpdatedAt = time.Time{}

	if _, err := ref.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	// The sentinel is only resolved server-side; answer with the local clock.
	now := r.now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return &rec, nil
}

func (r *firestoreAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.listWhere(ctx, "patientId", patientID)
}

func (r *firestoreAppointmentRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Appointment, error) {
	return r.listWhere(ctx, "providerId", providerID)
}

func (r *firestoreAppointmentRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	ref, err := r.doc(id)
	if err != nil {
		return err
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		if path == "updatedAt" {
			continue
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	return nil
}

func (r *firestoreAppointmentRepo) Ping(ctx context.Context) error {
	_, err := r.coll.Limit(1).Documents(ctx).GetAll()
	return err
}

// doc returns ErrNotFound for ids Firestore cannot address ("" or containing "/").
func (r *firestoreAppointmentRepo) doc(id string) (*firestore.DocumentRef, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	ref := r.coll.Doc(id)
	if ref == nil {
		return nil, ErrNotFound
	}
	return ref, nil
}

func (r *firestoreAppointmentRepo) listWhere(ctx context.Context, field, value string) ([]models.Appointment, error) {
	snaps, err := r.coll.Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by %s: %w", field, err)
	}

	out := make([]models.Appointment, 0, len(snaps))
	for _, snap := range snaps {
		appt, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *appt)
	}
	return out, nil
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (*models.Appointment, error) {
	var appt models.Appointment
	if err := snap.DataTo(&appt); err != nil {
		return nil, fmt.Errorf("failed to decode appointment %s: %w", snap.Ref.ID, err)
	}
	if appt.ID == "" {
		appt.ID = snap.Ref.ID
	}
	appt.NormalizeTimes()
	return &appt, nil
}
