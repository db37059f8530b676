package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

type stubWinnerSetter struct {
	calledWith []uint
	results    []domain.WinnerResult
}

func (s *stubWinnerSetter) AutoSetWinners(_ context.Context, eventID uint) ([]domain.WinnerResult, error) {
	s.calledWith = append(s.calledWith, eventID)
	return s.results, nil
}

func TestEventService_CreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &stubWinnerSetter{})

	created, err := svc.CreateEvent(context.Background(), domain.Event{
		Name:   "Bazar Kampus 2026",
		Status: domain.EventFinished, // must be ignored
	})

	require.NoError(t, err)
	assert.Equal(t, domain.EventDraft, created.Status)
}

func TestEventService_UpdateEvent_KeepsStatus(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &stubWinnerSetter{})
	event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventOpen})

	event.Name = "Bazar Kampus"
	event.Status = domain.EventFinished

	updated, err := svc.UpdateEvent(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, "Bazar Kampus", updated.Name)
	assert.Equal(t, domain.EventOpen, updated.Status)
}

func TestEventService_ChangeStatus(t *testing.T) {
	t.Run("advances one step at a time", func(t *testing.T) {
		repo := newFakeEventRepo()
		winners := &stubWinnerSetter{}
		svc := NewEventService(repo, winners)
		event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventDraft})

		for _, to := range []string{domain.EventOpen, domain.EventOngoing} {
			results, err := svc.ChangeStatus(context.Background(), event.ID, to)
			require.NoError(t, err)
			assert.Nil(t, results)
		}

		got, err := svc.GetEvent(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EventOngoing, got.Status)
		assert.Empty(t, winners.calledWith)
	})

	t.Run("rejects skipping a step", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, &stubWinnerSetter{})
		event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventDraft})

		_, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventFinished)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
	})

	t.Run("rejects moving backwards", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, &stubWinnerSetter{})
		event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventOngoing})

		_, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventOpen)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
	})

	t.Run("finishing runs the winner pass", func(t *testing.T) {
		repo := newFakeEventRepo()
		winners := &stubWinnerSetter{results: []domain.WinnerResult{
			{CategoryID: 1, Status: domain.WinnerSet},
			{CategoryID: 2, Status: domain.WinnerTie},
		}}
		svc := NewEventService(repo, winners)
		event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventOngoing})

		results, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventFinished)

		require.NoError(t, err)
		assert.Equal(t, []uint{event.ID}, winners.calledWith)
		require.Len(t, results, 2)
		assert.Equal(t, domain.WinnerSet, results[0].Status)
		assert.Equal(t, domain.WinnerTie, results[1].Status)
	})

	t.Run("finished is terminal", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, &stubWinnerSetter{})
		event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventFinished})

		for _, to := range []string{domain.EventDraft, domain.EventOpen, domain.EventOngoing, domain.EventFinished} {
			_, err := svc.ChangeStatus(context.Background(), event.ID, to)
			assert.ErrorIs(t, err, ErrInvalidStatusChange)
		}
	})
}

func TestEventService_Sponsors(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &stubWinnerSetter{})
	event := repo.add(domain.Event{Name: "Bazar", Status: domain.EventDraft})

	sponsor, err := svc.AddSponsor(context.Background(), domain.Sponsor{
		EventID: event.ID,
		Name:    "Koperasi Kampus",
		LogoURL: "https://example.com/logo.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, sponsor.ID)

	sponsors, err := svc.GetSponsors(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, sponsors, 1)

	require.NoError(t, svc.RemoveSponsor(context.Background(), event.ID, sponsor.ID))

	err = svc.RemoveSponsor(context.Background(), event.ID, sponsor.ID)
	assert.ErrorIs(t, err, ErrSponsorNotFound)

	_, err = svc.AddSponsor(context.Background(), domain.Sponsor{EventID: 999, Name: "Hilang"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}
