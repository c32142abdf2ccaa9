package frameflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notifications is the notification repository. The (to, from, action,
// liked_post) key is unique; CreateIfAbsent and DeleteByKey are the only
// write paths, so the edge ⇔ notification mirror cannot accumulate
// duplicates.
type Notifications interface {
	CreateIfAbsent(ctx context.Context, key NotificationKey) (*Notification, error)
	DeleteByKey(ctx context.Context, key NotificationKey) error
	ExistsByKey(ctx context.Context, key NotificationKey) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationsRepository implements Notifications using bun.
type NotificationsRepository struct {
	db *bun.DB
}

var _ Notifications = (*NotificationsRepository)(nil)

// NewNotificationsRepository creates a new repository.
func NewNotificationsRepository(db *bun.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

// CreateIfAbsent inserts the notification for key unless one already exists.
// The unique index makes the insert a no-op under races.
func (r *NotificationsRepository) CreateIfAbsent(ctx context.Context, key NotificationKey) (*Notification, error) {
	now := time.Now()
	record := &Notification{
		ID:        uuid.New(),
		To:        key.To,
		From:      key.From,
		Action:    key.Action,
		LikedPost: key.LikedPost,
		CreatedAt: &now,
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (to_user, from_user, action, liked_post) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteByKey removes the notification mirroring key, if present.
func (r *NotificationsRepository) DeleteByKey(ctx context.Context, key NotificationKey) error {
	_, err := r.db.NewDelete().
		Model((*Notification)(nil)).
		Where("to_user = ?", key.To).
		Where("from_user = ?", key.From).
		Where("action = ?", key.Action).
		Where("liked_post = ?", key.LikedPost).
		Exec(ctx)
	return err
}

// ExistsByKey reports whether a notification mirrors key.
func (r *NotificationsRepository) ExistsByKey(ctx context.Context, key NotificationKey) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*Notification)(nil)).
		Where("to_user = ?", key.To).
		Where("from_user = ?", key.From).
		Where("action = ?", key.Action).
		Where("liked_post = ?", key.LikedPost).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationsRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	var records []*Notification
	err := r.db.NewSelect().
		Model(&records).
		Where("to_user = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Notification{}, nil
		}
		return nil, err
	}
	return records, nil
}

// CountForUser returns how many notifications the user has.
func (r *NotificationsRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Notification)(nil)).
		Where("to_user = ?", userID).
		Count(ctx)
}
