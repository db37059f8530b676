package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

var (
	ErrBusinessNotFound      = repository.ErrBusinessNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrProductNameTaken      = repository.ErrProductNameTaken
	ErrBoothTaken            = repository.ErrBoothTaken
	ErrBusinessNotPending    = repository.ErrBusinessNotPending
	ErrBusinessNotApproved   = repository.ErrBusinessNotApproved
	ErrEventNotOpen          = errors.New("event is not open for registration")
	ErrEventLocked           = errors.New("event registrations are locked")
	ErrRegistrationClosed    = errors.New("registration window is closed")
	ErrEventFull             = errors.New("event quota is full")
	ErrMentorNotLecturer     = errors.New("mentor must be a lecturer")
	ErrNotMentor             = errors.New("user is not the mentor of this business")
	ErrNotOwner              = errors.New("user is not the owner")
)

type BusinessRepository interface {
	Create(ctx context.Context, business domain.Business) (domain.Business, error)
	GetByID(ctx context.Context, id uint) (domain.Business, error)
	FindByEventID(ctx context.Context, eventID uint, page, limit int) ([]domain.Business, int64, error)
	FindEligibleByEventID(ctx context.Context, eventID uint) ([]domain.Business, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	Approve(ctx context.Context, id uint) error
	Reject(ctx context.Context, id uint, reason string) error
	AssignBooth(ctx context.Context, id uint, booth string) error
	DeleteIfPending(ctx context.Context, id, ownerID uint) error
}

type MarketplaceService struct {
	repo      BusinessRepository
	eventRepo EventRepository
	userRepo  UserRepository
	notifier  Notifier
	now       func() time.Time
}

func NewMarketplaceService(repo BusinessRepository, eventRepo EventRepository, userRepo UserRepository, notifier Notifier) *MarketplaceService {
	return &MarketplaceService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// RegisterBusiness files a marketplace registration for an open event.
// Uniqueness of (owner, event), product name and booth label per event is
// backed by database constraints, so concurrent duplicates lose cleanly.
func (s *MarketplaceService) RegisterBusiness(ctx context.Context, business domain.Business) (domain.Business, error) {
	event, err := s.eventRepo.GetByID(ctx, business.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Business{}, ErrEventNotFound
		}
		return domain.Business{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if event.Status != domain.EventOpen {
		return domain.Business{}, ErrEventNotOpen
	}
	if event.Locked {
		return domain.Business{}, ErrEventLocked
	}
	if !event.RegistrationWindowOpen(s.now()) {
		return domain.Business{}, ErrRegistrationClosed
	}

	if event.Quota > 0 {
		count, err := s.repo.CountByEventID(ctx, business.EventID)
		if err != nil {
			return domain.Business{}, fmt.Errorf("s.repo.CountByEventID -> %w", err)
		}
		if count >= int64(event.Quota) {
			return domain.Business{}, ErrEventFull
		}
	}

	if business.Type == domain.BusinessStudent && business.StudentDetail != nil && business.StudentDetail.MentorID != nil {
		mentor, err := s.userRepo.FindByID(ctx, *business.StudentDetail.MentorID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domain.Business{}, ErrUserNotFound
			}
			return domain.Business{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
		}
		if !mentor.IsLecturer() {
			return domain.Business{}, ErrMentorNotLecturer
		}
	}

	business.Status = domain.BusinessPending

	created, err := s.repo.Create(ctx, business)
	if err != nil {
		return domain.Business{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *MarketplaceService) GetBusiness(ctx context.Context, id uint) (domain.Business, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return domain.Business{}, ErrBusinessNotFound
		}
		return domain.Business{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return business, nil
}

func (s *MarketplaceService) GetBusinessesByEventID(ctx context.Context, eventID uint, page, limit int) ([]domain.Business, int64, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, 0, ErrEventNotFound
		}
		return nil, 0, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	businesses, total, err := s.repo.FindByEventID(ctx, eventID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return businesses, total, nil
}

// ApproveBusiness approves a pending registration. Admins may approve any
// business; a lecturer may only approve businesses they mentor.
func (s *MarketplaceService) ApproveBusiness(ctx context.Context, id uint, actor domain.User) (domain.Business, error) {
	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return domain.Business{}, err
	}

	if err := s.checkDecisionMaker(business, actor); err != nil {
		return domain.Business{}, err
	}

	if err := s.repo.Approve(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBusinessNotPending) {
			return domain.Business{}, ErrBusinessNotPending
		}
		return domain.Business{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	s.notifier.Notify(ctx, []uint{business.OwnerID}, domain.NotifBusinessStatus,
		"Pendaftaran usaha disetujui",
		fmt.Sprintf("Pendaftaran usaha %q telah disetujui.", business.ProductName))

	business.Status = domain.BusinessApproved

	return business, nil
}

// RejectBusiness rejects a pending registration with an optional reason.
func (s *MarketplaceService) RejectBusiness(ctx context.Context, id uint, reason string, actor domain.User) (domain.Business, error) {
	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return domain.Business{}, err
	}

	if err := s.checkDecisionMaker(business, actor); err != nil {
		return domain.Business{}, err
	}

	if err := s.repo.Reject(ctx, id, reason); err != nil {
		if errors.Is(err, repository.ErrBusinessNotPending) {
			return domain.Business{}, ErrBusinessNotPending
		}
		return domain.Business{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	s.notifier.Notify(ctx, []uint{business.OwnerID}, domain.NotifBusinessStatus,
		"Pendaftaran usaha ditolak",
		fmt.Sprintf("Pendaftaran usaha %q ditolak. %s", business.ProductName, reason))

	business.Status = domain.BusinessRejected
	business.RejectReason = reason

	return business, nil
}

func (s *MarketplaceService) checkDecisionMaker(business domain.Business, actor domain.User) error {
	if actor.IsAdmin() {
		return nil
	}

	if actor.IsLecturer() &&
		business.StudentDetail != nil &&
		business.StudentDetail.MentorID != nil &&
		*business.StudentDetail.MentorID == actor.ID {
		return nil
	}

	return ErrNotMentor
}

// AssignBooth gives an approved business its booth label, unique per event.
func (s *MarketplaceService) AssignBooth(ctx context.Context, id uint, booth string) (domain.Business, error) {
	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return domain.Business{}, err
	}

	if err := s.repo.AssignBooth(ctx, id, booth); err != nil {
		switch {
		case errors.Is(err, repository.ErrBusinessNotApproved):
			return domain.Business{}, ErrBusinessNotApproved
		case errors.Is(err, repository.ErrBoothTaken):
			return domain.Business{}, ErrBoothTaken
		}
		return domain.Business{}, fmt.Errorf("s.repo.AssignBooth -> %w", err)
	}

	s.notifier.Notify(ctx, []uint{business.OwnerID}, domain.NotifBusinessStatus,
		"Nomor booth ditetapkan",
		fmt.Sprintf("Usaha %q mendapatkan booth %s.", business.ProductName, booth))

	business.BoothNumber = &booth

	return business, nil
}

// CancelRegistration deletes the caller's own registration while it is
// still pending.
func (s *MarketplaceService) CancelRegistration(ctx context.Context, id, userID uint) error {
	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return err
	}
	if business.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteIfPending(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotPending) {
			return ErrBusinessNotPending
		}
		return fmt.Errorf("s.repo.DeleteIfPending -> %w", err)
	}

	return nil
}
