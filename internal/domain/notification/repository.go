package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for the notification queue
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Notification, error)
	// FindDue retrieves pending notifications whose next attempt time has
	// passed, oldest first, up to limit
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Notification, error)
	// FindExhausted retrieves terminally failed notifications
	FindExhausted(ctx context.Context) ([]*Notification, error)
	Save(ctx context.Context, n *Notification) error
}
