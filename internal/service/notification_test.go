package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

type fakeNotificationRepo struct {
	notifications map[uint]domain.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uint]domain.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	out := make([]domain.Notification, len(notifications))
	for i, n := range notifications {
		f.nextID++
		n.ID = f.nextID
		f.notifications[n.ID] = n
		out[i] = n
	}
	return out, nil
}

func (f *fakeNotificationRepo) FindByUserID(_ context.Context, userID uint, _, _ int) ([]domain.Notification, int64, error) {
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uint) error {
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotificationNotFound
	}
	n.Read = true
	f.notifications[id] = n
	return nil
}

type recordingBroadcaster struct {
	pushed []domain.Notification
}

func (r *recordingBroadcaster) Push(notification domain.Notification) {
	r.pushed = append(r.pushed, notification)
}

func TestNotificationService_Notify(t *testing.T) {
	t.Run("stores one row per recipient and pushes each", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		broadcaster := &recordingBroadcaster{}
		svc := NewNotificationService(repo, broadcaster)

		svc.Notify(context.Background(), []uint{1, 2}, domain.NotifWinner, "Selamat", "Anda menang.")

		assert.Len(t, repo.notifications, 2)
		require.Len(t, broadcaster.pushed, 2)
		assert.NotZero(t, broadcaster.pushed[0].ID)
	})

	t.Run("empty recipient list is a no-op", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := NewNotificationService(repo, &recordingBroadcaster{})

		svc.Notify(context.Background(), nil, domain.NotifWinner, "Selamat", "Anda menang.")

		assert.Empty(t, repo.notifications)
	})

	t.Run("works without a broadcaster", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := NewNotificationService(repo, nil)

		svc.Notify(context.Background(), []uint{1}, domain.NotifWinner, "Selamat", "Anda menang.")

		assert.Len(t, repo.notifications, 1)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, nil)
	svc.Notify(context.Background(), []uint{7}, domain.NotifBusinessStatus, "Disetujui", "Pendaftaran disetujui.")

	require.NoError(t, svc.MarkRead(context.Background(), 1, 7))

	notifications, total, err := svc.GetNotifications(context.Background(), 7, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)

	// Another user's notification is out of reach.
	err = svc.MarkRead(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
