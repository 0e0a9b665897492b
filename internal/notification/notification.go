package notification

import (
	"context"
	"fmt"
	
	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

type NotificationService struct {
	client *firestore.Client
}

// NewFirebaseApp initializes the Firebase app from a service account file.
func NewFirebaseApp(ctx context.Context, credentialsFile string) (*firebase.App, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	
	return app, nil
}

func NewNotificationService(ctx context.Context, firebaseApp *firebase.App) (*NotificationService, error) {
	// Initialize Firestore client
	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	
	return &NotificationService{
		client: firestoreClient,
	}, nil
}

// Close releases the Firestore client.
func (s *NotificationService) Close() error {
	return s.client.Close()
}
