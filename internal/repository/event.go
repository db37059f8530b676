package repository

import (
	"context"
	"fmt"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
)

var (
	ErrEventNotFound    = dao.ErrEventNotFound
	ErrEventStatusMoved = dao.ErrEventStatusMoved
	ErrSponsorNotFound  = dao.ErrSponsorNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	GetByID(ctx context.Context, id uint) (dao.Event, error)
	List(ctx context.Context, page, limit int) ([]dao.Event, int64, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	InsertSponsor(ctx context.Context, sponsor dao.Sponsor) (dao.Sponsor, error)
	FindSponsorsByEventID(ctx context.Context, eventID uint) ([]dao.Sponsor, error)
	DeleteSponsor(ctx context.Context, eventID, sponsorID uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Location:          e.Location,
		Status:            e.Status,
		RegistrationOpen:  e.RegistrationOpen,
		RegistrationClose: e.RegistrationClose,
		Quota:             e.Quota,
		Locked:            e.Locked,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Location:          e.Location,
		Status:            e.Status,
		RegistrationOpen:  e.RegistrationOpen,
		RegistrationClose: e.RegistrationClose,
		Quota:             e.Quota,
		Locked:            e.Locked,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		Sponsors:          r.sponsorsDaoToDomain(e.Sponsors),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func (r *EventRepository) sponsorDaoToDomain(s dao.Sponsor) domain.Sponsor {
	return domain.Sponsor{
		ID:      s.ID,
		EventID: s.EventID,
		Name:    s.Name,
		LogoURL: s.LogoURL,
	}
}

func (r *EventRepository) sponsorsDaoToDomain(sponsors []dao.Sponsor) []domain.Sponsor {
	if len(sponsors) == 0 {
		return nil
	}
	result := make([]domain.Sponsor, len(sponsors))
	for i, s := range sponsors {
		result[i] = r.sponsorDaoToDomain(s)
	}
	return result
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) List(ctx context.Context, page, limit int) ([]domain.Event, int64, error) {
	events, total, err := r.dao.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = r.daoToDomain(e)
	}

	return result, total, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	if err := r.dao.UpdateStatus(ctx, id, from, to); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	created, err := r.dao.InsertSponsor(ctx, dao.Sponsor{
		EventID: sponsor.EventID,
		Name:    sponsor.Name,
		LogoURL: sponsor.LogoURL,
	})
	if err != nil {
		return domain.Sponsor{}, fmt.Errorf("r.dao.InsertSponsor -> %w", err)
	}

	return r.sponsorDaoToDomain(created), nil
}

func (r *EventRepository) FindSponsors(ctx context.Context, eventID uint) ([]domain.Sponsor, error) {
	sponsors, err := r.dao.FindSponsorsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSponsorsByEventID -> %w", err)
	}

	return r.sponsorsDaoToDomain(sponsors), nil
}

func (r *EventRepository) DeleteSponsor(ctx context.Context, eventID, sponsorID uint) error {
	if err := r.dao.DeleteSponsor(ctx, eventID, sponsorID); err != nil {
		return fmt.Errorf("r.dao.DeleteSponsor -> %w", err)
	}

	return nil
}
