package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
)

// Collection names shared by both store backends.
const (
	AppointmentsCollection = "appointments"
	UsersCollection        = "users"
)

// NewFirestoreClient returns the Firestore client bound to the Firebase project.
func NewFirestoreClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}
	return client, nil
}
