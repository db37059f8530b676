package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

var (
	ErrEventNotFound       = repository.ErrEventNotFound
	ErrSponsorNotFound     = repository.ErrSponsorNotFound
	ErrInvalidStatusChange = errors.New("illegal event status transition")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	List(ctx context.Context, page, limit int) ([]domain.Event, int64, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	AddSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error)
	FindSponsors(ctx context.Context, eventID uint) ([]domain.Sponsor, error)
	DeleteSponsor(ctx context.Context, eventID, sponsorID uint) error
}

// WinnerSetter runs the winner batch pass when an event finishes.
type WinnerSetter interface {
	AutoSetWinners(ctx context.Context, eventID uint) ([]domain.WinnerResult, error)
}

type EventService struct {
	repo    EventRepository
	winners WinnerSetter
}

func NewEventService(repo EventRepository, winners WinnerSetter) *EventService {
	return &EventService{
		repo:    repo,
		winners: winners,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Status = domain.EventDraft

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, page, limit int) ([]domain.Event, int64, error) {
	events, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return events, total, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	existing, err := s.GetEvent(ctx, event.ID)
	if err != nil {
		return domain.Event{}, err
	}

	// Status changes go through ChangeStatus only.
	event.Status = existing.Status

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// ChangeStatus advances the event lifecycle one step. Finishing an event
// triggers the winner batch pass; its per-category outcomes are returned so
// the caller can surface unresolved ties.
func (s *EventService) ChangeStatus(ctx context.Context, id uint, to string) ([]domain.WinnerResult, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !event.NextStatus(to) {
		return nil, ErrInvalidStatusChange
	}

	if err := s.repo.UpdateStatus(ctx, id, event.Status, to); err != nil {
		if errors.Is(err, repository.ErrEventStatusMoved) {
			return nil, ErrInvalidStatusChange
		}
		return nil, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	if to != domain.EventFinished {
		return nil, nil
	}

	results, err := s.winners.AutoSetWinners(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.winners.AutoSetWinners -> %w", err)
	}

	return results, nil
}

func (s *EventService) AddSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	if _, err := s.GetEvent(ctx, sponsor.EventID); err != nil {
		return domain.Sponsor{}, err
	}

	created, err := s.repo.AddSponsor(ctx, sponsor)
	if err != nil {
		return domain.Sponsor{}, fmt.Errorf("s.repo.AddSponsor -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetSponsors(ctx context.Context, eventID uint) ([]domain.Sponsor, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	sponsors, err := s.repo.FindSponsors(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSponsors -> %w", err)
	}

	return sponsors, nil
}

func (s *EventService) RemoveSponsor(ctx context.Context, eventID, sponsorID uint) error {
	if err := s.repo.DeleteSponsor(ctx, eventID, sponsorID); err != nil {
		if errors.Is(err, repository.ErrSponsorNotFound) {
			return ErrSponsorNotFound
		}
		return fmt.Errorf("s.repo.DeleteSponsor -> %w", err)
	}

	return nil
}
