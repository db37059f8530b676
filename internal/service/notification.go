package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

// Notifier is the fire-and-forget side channel the core services emit
// through. Implementations must never let a delivery failure surface as the
// caller's error.
type Notifier interface {
	Notify(ctx context.Context, userIDs []uint, kind, title, body string)
}

// Broadcaster pushes a stored notification to any live subscriber (e.g. a
// websocket hub). Optional; a nil Broadcaster disables pushes.
type Broadcaster interface {
	Push(notification domain.Notification)
}

type NotificationRepository interface {
	Create(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error)
	FindByUserID(ctx context.Context, userID uint, page, limit int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type NotificationService struct {
	repo        NotificationRepository
	broadcaster Broadcaster
}

func NewNotificationService(repo NotificationRepository, broadcaster Broadcaster) *NotificationService {
	return &NotificationService{
		repo:        repo,
		broadcaster: broadcaster,
	}
}

// SetBroadcaster attaches the live push sink after construction. The hub
// handler consumes this service, so the server wires the two together once
// both exist.
func (s *NotificationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Notify stores one notification per recipient and pushes them to live
// subscribers. Best effort: every failure is logged and swallowed so the
// primary operation is never aborted by its side channel.
func (s *NotificationService) Notify(ctx context.Context, userIDs []uint, kind, title, body string) {
	if len(userIDs) == 0 {
		return
	}

	notifications := make([]domain.Notification, len(userIDs))
	for i, id := range userIDs {
		notifications[i] = domain.Notification{
			UserID: id,
			Kind:   kind,
			Title:  title,
			Body:   body,
		}
	}

	created, err := s.repo.Create(ctx, notifications)
	if err != nil {
		zap.L().Error("failed to create notifications",
			zap.String("kind", kind),
			zap.Error(err))
		return
	}

	if s.broadcaster == nil {
		return
	}
	for _, n := range created {
		s.broadcaster.Push(n)
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uint, page, limit int) ([]domain.Notification, int64, error) {
	notifications, total, err := s.repo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	return nil
}
