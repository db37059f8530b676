package repository

import (
	"context"
	"fmt"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
)

var (
	ErrBusinessNotFound      = dao.ErrBusinessNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
	ErrProductNameTaken      = dao.ErrProductNameTaken
	ErrBoothTaken            = dao.ErrBoothTaken
	ErrBusinessNotPending    = dao.ErrBusinessNotPending
	ErrBusinessNotApproved   = dao.ErrBusinessNotApproved
)

type BusinessDAO interface {
	Insert(ctx context.Context, business dao.Business) (dao.Business, error)
	GetByID(ctx context.Context, id uint) (dao.Business, error)
	FindByEventID(ctx context.Context, eventID uint, page, limit int) ([]dao.Business, int64, error)
	FindEligibleByEventID(ctx context.Context, eventID uint) ([]dao.Business, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	UpdateStatusFromPending(ctx context.Context, id uint, status, rejectReason string) error
	AssignBooth(ctx context.Context, id uint, booth string) error
	DeleteIfPending(ctx context.Context, id, ownerID uint) error
}

type BusinessRepository struct {
	dao BusinessDAO
}

func NewBusinessRepository(dao BusinessDAO) *BusinessRepository {
	return &BusinessRepository{
		dao: dao,
	}
}

func (r *BusinessRepository) domainToDao(b domain.Business) dao.Business {
	businessDAO := dao.Business{
		ID:           b.ID,
		EventID:      b.EventID,
		OwnerID:      b.OwnerID,
		Type:         b.Type,
		Status:       b.Status,
		ProductName:  b.ProductName,
		Description:  b.Description,
		Phone:        b.Phone,
		BoothNumber:  b.BoothNumber,
		RejectReason: b.RejectReason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}

	if b.StudentDetail != nil {
		businessDAO.MentorID = b.StudentDetail.MentorID
		businessDAO.TeamRoster = b.StudentDetail.TeamRoster
	}
	if b.VendorDetail != nil {
		businessDAO.OwnerName = b.VendorDetail.OwnerName
		businessDAO.Address = b.VendorDetail.Address
	}

	return businessDAO
}

func (r *BusinessRepository) daoToDomain(b dao.Business) domain.Business {
	business := domain.Business{
		ID:           b.ID,
		EventID:      b.EventID,
		OwnerID:      b.OwnerID,
		Type:         b.Type,
		Status:       b.Status,
		ProductName:  b.ProductName,
		Description:  b.Description,
		Phone:        b.Phone,
		BoothNumber:  b.BoothNumber,
		RejectReason: b.RejectReason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}

	if b.Owner.ID != 0 {
		owner := domain.User{
			ID:    b.Owner.ID,
			Email: b.Owner.Email,
			Name:  b.Owner.Name,
			Role:  b.Owner.Role,
		}
		business.Owner = &owner
	}

	switch b.Type {
	case domain.BusinessStudent:
		detail := domain.StudentDetail{
			MentorID:   b.MentorID,
			TeamRoster: b.TeamRoster,
		}
		if b.Mentor != nil && b.Mentor.ID != 0 {
			detail.Mentor = &domain.User{
				ID:    b.Mentor.ID,
				Email: b.Mentor.Email,
				Name:  b.Mentor.Name,
				Role:  b.Mentor.Role,
			}
		}
		business.StudentDetail = &detail
	case domain.BusinessVendor:
		business.VendorDetail = &domain.VendorDetail{
			OwnerName: b.OwnerName,
			Address:   b.Address,
		}
	}

	return business
}

func (r *BusinessRepository) daosToDomain(businesses []dao.Business) []domain.Business {
	result := make([]domain.Business, len(businesses))
	for i, b := range businesses {
		result[i] = r.daoToDomain(b)
	}
	return result
}

func (r *BusinessRepository) Create(ctx context.Context, business domain.Business) (domain.Business, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(business))
	if err != nil {
		return domain.Business{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id uint) (domain.Business, error) {
	business, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Business{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(business), nil
}

func (r *BusinessRepository) FindByEventID(ctx context.Context, eventID uint, page, limit int) ([]domain.Business, int64, error) {
	businesses, total, err := r.dao.FindByEventID(ctx, eventID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(businesses), total, nil
}

func (r *BusinessRepository) FindEligibleByEventID(ctx context.Context, eventID uint) ([]domain.Business, error) {
	businesses, err := r.dao.FindEligibleByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEligibleByEventID -> %w", err)
	}

	return r.daosToDomain(businesses), nil
}

func (r *BusinessRepository) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	total, err := r.dao.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEventID -> %w", err)
	}

	return total, nil
}

func (r *BusinessRepository) Approve(ctx context.Context, id uint) error {
	if err := r.dao.UpdateStatusFromPending(ctx, id, domain.BusinessApproved, ""); err != nil {
		return fmt.Errorf("r.dao.UpdateStatusFromPending -> %w", err)
	}

	return nil
}

func (r *BusinessRepository) Reject(ctx context.Context, id uint, reason string) error {
	if err := r.dao.UpdateStatusFromPending(ctx, id, domain.BusinessRejected, reason); err != nil {
		return fmt.Errorf("r.dao.UpdateStatusFromPending -> %w", err)
	}

	return nil
}

func (r *BusinessRepository) AssignBooth(ctx context.Context, id uint, booth string) error {
	if err := r.dao.AssignBooth(ctx, id, booth); err != nil {
		return fmt.Errorf("r.dao.AssignBooth -> %w", err)
	}

	return nil
}

func (r *BusinessRepository) DeleteIfPending(ctx context.Context, id, ownerID uint) error {
	if err := r.dao.DeleteIfPending(ctx, id, ownerID); err != nil {
		return fmt.Errorf("r.dao.DeleteIfPending -> %w", err)
	}

	return nil
}
