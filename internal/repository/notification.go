package repository

import (
	"context"
	"fmt"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notifications []dao.Notification) ([]dao.Notification, error)
	FindByUserID(ctx context.Context, userID uint, page, limit int) ([]dao.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) daoToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	notificationsDAO := make([]dao.Notification, len(notifications))
	for i, n := range notifications {
		notificationsDAO[i] = dao.Notification{
			UserID: n.UserID,
			Kind:   n.Kind,
			Title:  n.Title,
			Body:   n.Body,
		}
	}

	created, err := r.dao.Insert(ctx, notificationsDAO)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	result := make([]domain.Notification, len(created))
	for i, n := range created {
		result[i] = r.daoToDomain(n)
	}

	return result, nil
}

func (r *NotificationRepository) FindByUserID(ctx context.Context, userID uint, page, limit int) ([]domain.Notification, int64, error) {
	notifications, total, err := r.dao.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	result := make([]domain.Notification, len(notifications))
	for i, n := range notifications {
		result[i] = r.daoToDomain(n)
	}

	return result, total, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	if err := r.dao.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return nil
}
