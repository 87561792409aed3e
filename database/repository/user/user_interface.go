package userRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// ErrNotFound is returned when no user document has the requested id.
var ErrNotFound = errors.New("user not found")

// UserRepository is read-only access to the users collection.
type UserRepository interface {
	// ListProviders returns every user whose role is "doctor".
	ListProviders(ctx context.Context) ([]models.Provider, error)
	// GetProfile returns ErrNotFound when the id is unknown.
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
}

func toProviders(profiles []models.UserProfile) []models.Provider {
	out := make([]models.Provider, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, models.Provider{ID: p.ID, Name: p.PublicName()})
	}
	return out
}
