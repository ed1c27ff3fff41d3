package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/notification"
	"github.com/halmarket/backend/internal/domain/settlement"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Waker wakes the background dispatcher ahead of its next poll tick
type Waker interface {
	Notify()
}

// documentPayload is the wire body sent to the regulatory endpoint
type documentPayload struct {
	DocumentNumber   string          `json:"document_number"`
	Kind             string          `json:"kind"`
	BuyerName        string          `json:"buyer_name"`
	ProducerName     string          `json:"producer_name,omitempty"`
	LinesTotal       decimal.Decimal `json:"lines_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	ProducerProceeds decimal.Decimal `json:"producer_proceeds"`
	ConfirmedAt      *time.Time      `json:"confirmed_at,omitempty"`
}

// NotificationResponse is one queue entry in API responses
type NotificationResponse struct {
	ID             uuid.UUID  `json:"id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	DocumentNumber string     `json:"document_number"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	MaxAttempts    int        `json:"max_attempts"`
	LastError      string     `json:"last_error,omitempty"`
	NextAttemptAt  *time.Time `json:"next_attempt_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// ToNotificationResponse converts a notification to its API representation
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		DocumentID:     n.DocumentID,
		DocumentNumber: n.DocumentNumber,
		Status:         n.Status.String(),
		Attempts:       n.Attempts,
		MaxAttempts:    n.MaxAttempts,
		LastError:      n.LastError,
		NextAttemptAt:  n.NextAttemptAt,
		DeliveredAt:    n.DeliveredAt,
	}
}

// SyncService feeds the regulatory notification queue and exposes manual
// operations on it. Enqueueing is idempotent per document.
type SyncService struct {
	repo        notification.Repository
	waker       Waker
	maxAttempts int
	logger      *zap.Logger
}

// NewSyncService creates a new SyncService. maxAttempts is the delivery
// attempt ceiling stamped on every notification it enqueues.
func NewSyncService(repo notification.Repository, waker Waker, maxAttempts int, logger *zap.Logger) *SyncService {
	return &SyncService{
		repo:        repo,
		waker:       waker,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// EnqueueForDocument queues the regulatory notification for a confirmed
// document. A document already in the queue is left untouched.
func (s *SyncService) EnqueueForDocument(ctx context.Context, doc *settlement.SaleDocument) error {
	existing, err := s.repo.FindByDocument(ctx, doc.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	payload, err := json.Marshal(documentPayload{
		DocumentNumber:   doc.Number,
		Kind:             doc.Kind.String(),
		BuyerName:        doc.BuyerName,
		ProducerName:     doc.ProducerName,
		LinesTotal:       doc.LinesTotal,
		GrandTotal:       doc.GrandTotal,
		ProducerProceeds: doc.ProducerProceeds,
		ConfirmedAt:      doc.ConfirmedAt,
	})
	if err != nil {
		return err
	}

	n, err := notification.NewNotification(doc.ID, doc.Number, payload, s.maxAttempts)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return err
	}

	s.logger.Info("notification enqueued",
		zap.String("notification_id", n.ID.String()),
		zap.String("document_number", doc.Number),
	)
	if s.waker != nil {
		s.waker.Notify()
	}
	return nil
}

// Retry puts a terminally failed notification back in the queue
func (s *SyncService) Retry(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := n.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("notification requeued manually",
		zap.String("notification_id", n.ID.String()),
		zap.String("document_number", n.DocumentNumber),
	)
	if s.waker != nil {
		s.waker.Notify()
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// ListDead returns the terminally failed notifications awaiting manual
// intervention
func (s *SyncService) ListDead(ctx context.Context) ([]NotificationResponse, error) {
	dead, err := s.repo.FindExhausted(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]NotificationResponse, 0, len(dead))
	for _, n := range dead {
		responses = append(responses, ToNotificationResponse(n))
	}
	return responses, nil
}

// GetByDocument returns the queue entry for one document
func (s *SyncService) GetByDocument(ctx context.Context, documentID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}
