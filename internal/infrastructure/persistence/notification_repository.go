package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/notification"
	"github.com/halmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements the notification queue using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByDocument finds the notification for one document
func (r *GormNotificationRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "document_id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindDue finds pending notifications whose next attempt time has passed,
// oldest first
func (r *GormNotificationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*notification.Notification, error) {
	var due []*notification.Notification
	if err := r.db.WithContext(ctx).
		Where("status = ?", notification.StatusPending).
		Where("next_attempt_at IS NULL OR next_attempt_at <= ?", now).
		Order("created_at ASC").
		Limit(limit).
		Find(&due).Error; err != nil {
		return nil, err
	}
	return due, nil
}

// FindExhausted finds terminally failed notifications
func (r *GormNotificationRepository) FindExhausted(ctx context.Context) ([]*notification.Notification, error) {
	var dead []*notification.Notification
	if err := r.db.WithContext(ctx).
		Where("status = ? AND attempts >= max_attempts", notification.StatusFailed).
		Order("updated_at ASC").
		Find(&dead).Error; err != nil {
		return nil, err
	}
	return dead, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Ensure GormNotificationRepository implements Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
