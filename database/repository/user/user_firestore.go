package userRepo

import (
	"context"
	"fmt"

	"medibook/database"
	"medibook/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreUserRepo struct {
	coll *firestore.CollectionRef
}

// NewFirestoreUserRepo reads the "users" collection written by the sign-up flow.
func NewFirestoreUserRepo(client *firestore.Client) UserRepository {
	return &firestoreUserRepo{coll: client.Collection(database.UsersCollection)}
}

func (r *firestoreUserRepo) ListProviders(ctx context.Context) ([]models.Provider, error) {
	snaps, err := r.coll.Where("role", "==", models.ProviderRole).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(snaps))
	for _, snap := range snaps {
		var p models.UserProfile
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		p.ID = snap.Ref.ID
		profiles = append(profiles, p)
	}
	return toProviders(profiles), nil
}

func (r *firestoreUserRepo) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	ref := r.coll.Doc(id)
	if ref == nil {
		return nil, ErrNotFound
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	var p models.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}
