package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
)

// Status represents the delivery status of a notification
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSending   Status = "SENDING"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Default retry configuration
const (
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Second
)

// Notification is one outbound regulatory bildirim for a finalized
// document. Delivery is at-least-once: failed attempts retry with
// exponential backoff until the attempt ceiling, after which the
// notification is terminal and needs manual intervention.
type Notification struct {
	shared.BaseEntity
	DocumentID     uuid.UUID `gorm:"uniqueIndex"`
	DocumentNumber string
	Payload        []byte
	Status         Status
	Attempts       int
	MaxAttempts    int
	LastError      string
	NextAttemptAt  *time.Time
	DeliveredAt    *time.Time
}

// NewNotification creates a pending notification for one document. A
// non-positive maxAttempts falls back to DefaultMaxAttempts.
func NewNotification(documentID uuid.UUID, documentNumber string, payload []byte, maxAttempts int) (*Notification, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewInvalidInputError("document", "cannot be empty")
	}
	if len(payload) == 0 {
		return nil, shared.NewInvalidInputError("notification payload", "cannot be empty")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Notification{
		BaseEntity:     shared.NewBaseEntity(),
		DocumentID:     documentID,
		DocumentNumber: documentNumber,
		Payload:        payload,
		Status:         StatusPending,
		MaxAttempts:    maxAttempts,
	}, nil
}

// Exhausted reports whether the notification failed terminally
func (n *Notification) Exhausted() bool {
	return n.Status == StatusFailed && n.Attempts >= n.MaxAttempts
}

// Due reports whether the dispatcher should attempt delivery now
func (n *Notification) Due(now time.Time) bool {
	if n.Status != StatusPending {
		return false
	}
	if n.NextAttemptAt != nil && now.Before(*n.NextAttemptAt) {
		return false
	}
	return true
}

// MarkSending claims the notification for a delivery attempt
func (n *Notification) MarkSending() error {
	if n.Status != StatusPending {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Can only send a pending notification, status is "+string(n.Status))
	}
	n.Status = StatusSending
	n.Attempts++
	n.Touch()
	return nil
}

// MarkDelivered records a successful delivery
func (n *Notification) MarkDelivered() error {
	if n.Status != StatusSending {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Can only deliver a notification in flight, status is "+string(n.Status))
	}
	now := time.Now()
	n.Status = StatusDelivered
	n.DeliveredAt = &now
	n.LastError = ""
	n.NextAttemptAt = nil
	n.UpdatedAt = now
	return nil
}

// MarkFailed records a failed attempt. Below the attempt ceiling the
// notification goes back to pending with an exponential backoff; at the
// ceiling it becomes terminally failed.
func (n *Notification) MarkFailed(errMsg string) error {
	if n.Status != StatusSending {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Can only fail a notification in flight, status is "+string(n.Status))
	}
	n.LastError = errMsg
	n.Touch()

	if n.Attempts >= n.MaxAttempts {
		n.Status = StatusFailed
		n.NextAttemptAt = nil
		return nil
	}

	// 1s, 2s, 4s, 8s, ...
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(n.Attempts-1))
	next := time.Now().Add(backoff)
	n.Status = StatusPending
	n.NextAttemptAt = &next
	return nil
}

// ResetForRetry puts a terminally failed notification back in the queue.
// Manual intervention only; the attempt counter starts over.
func (n *Notification) ResetForRetry() error {
	if !n.Exhausted() {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"Can only reset a terminally failed notification")
	}
	n.Status = StatusPending
	n.Attempts = 0
	n.LastError = ""
	n.NextAttemptAt = nil
	n.Touch()
	return nil
}

// Requeue releases a claimed notification back to pending without counting
// an attempt, for dispatcher shutdown mid-flight.
func (n *Notification) Requeue() {
	if n.Status != StatusSending {
		return
	}
	n.Status = StatusPending
	n.Attempts--
	n.Touch()
}
