package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoAppointmentRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoAppointmentRepo stores appointments in db.appointments and makes
// sure the lookup indexes exist.
func NewMongoAppointmentRepo(ctx context.Context, db *mongo.Database) (AppointmentRepository, error) {
	repo := &mongoAppointmentRepo{
		coll: db.Collection(database.AppointmentsCollection),
		now:  time.Now,
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *mongoAppointmentRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment %s: %w", id, err)
	}
	appt.NormalizeTimes()
	return &appt, nil
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	rec := *appt
	rec.ID = uuid.New().String()
	prepareNew(&rec)
	// BSON dates carry millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &rec, nil
}

func (r *mongoAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.listWhere(ctx, "patientId", patientID)
}

func (r *mongoAppointmentRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Appointment, error) {
	return r.listWhere(ctx, "providerId", providerID)
}

func (r *mongoAppointmentRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoAppointmentRepo) listWhere(ctx context.Context, field, value string) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	out := []models.Appointment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	for i := range out {
		out[i].NormalizeTimes()
	}
	return out, nil
}
