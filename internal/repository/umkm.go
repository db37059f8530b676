package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
)

var (
	ErrUmkmNotFound       = dao.ErrUmkmNotFound
	ErrStageNotFound      = dao.ErrStageNotFound
	ErrStageNotInProgress = dao.ErrStageNotInProgress
	ErrStageNotAwaiting   = dao.ErrStageNotAwaiting
)

type UmkmDAO interface {
	InsertWithStages(ctx context.Context, umkm dao.Umkm, stageCount int) (dao.Umkm, error)
	GetByID(ctx context.Context, id uint) (dao.Umkm, error)
	List(ctx context.Context, ownerID uint, page, limit int) ([]dao.Umkm, int64, error)
	GetStage(ctx context.Context, umkmID uint, number int) (dao.UmkmStage, error)
	AddStageFiles(ctx context.Context, stageID uint, files []dao.UmkmStageFile) error
	MarkAwaitingValidation(ctx context.Context, stageID uint, submittedAt time.Time) error
	ApproveStage(ctx context.Context, umkmID uint, number int, note string, validatedAt time.Time, lastStage int) error
	RejectStage(ctx context.Context, umkmID uint, number int, note string) error
}

type UmkmRepository struct {
	dao UmkmDAO
}

func NewUmkmRepository(dao UmkmDAO) *UmkmRepository {
	return &UmkmRepository{
		dao: dao,
	}
}

func (r *UmkmRepository) daoToDomain(u dao.Umkm) domain.Umkm {
	umkm := domain.Umkm{
		ID:           u.ID,
		OwnerID:      u.OwnerID,
		Name:         u.Name,
		Description:  u.Description,
		CurrentStage: u.CurrentStage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}

	if u.Owner.ID != 0 {
		owner := domain.User{
			ID:    u.Owner.ID,
			Email: u.Owner.Email,
			Name:  u.Owner.Name,
			Role:  u.Owner.Role,
		}
		umkm.Owner = &owner
	}

	// Stage rows are keyed by number 1..StageCount; slot them into the
	// fixed-size array so the "exactly four, strictly ordered" shape holds
	// regardless of row order.
	for _, s := range u.Stages {
		if s.Number < 1 || s.Number > domain.StageCount {
			continue
		}
		umkm.Stages[s.Number-1] = r.stageDaoToDomain(s)
	}

	return umkm
}

func (r *UmkmRepository) stageDaoToDomain(s dao.UmkmStage) domain.Stage {
	stage := domain.Stage{
		ID:          s.ID,
		UmkmID:      s.UmkmID,
		Number:      s.Number,
		Status:      s.Status,
		Note:        s.Note,
		SubmittedAt: s.SubmittedAt,
		ValidatedAt: s.ValidatedAt,
	}

	for _, f := range s.Files {
		stage.Files = append(stage.Files, domain.StageFile{
			ID:         f.ID,
			StageID:    f.StageID,
			FileName:   f.FileName,
			StoredPath: f.StoredPath,
			UploadedAt: f.UploadedAt,
		})
	}

	return stage
}

func (r *UmkmRepository) Create(ctx context.Context, umkm domain.Umkm) (domain.Umkm, error) {
	created, err := r.dao.InsertWithStages(ctx, dao.Umkm{
		OwnerID:     umkm.OwnerID,
		Name:        umkm.Name,
		Description: umkm.Description,
	}, domain.StageCount)
	if err != nil {
		return domain.Umkm{}, fmt.Errorf("r.dao.InsertWithStages -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UmkmRepository) GetByID(ctx context.Context, id uint) (domain.Umkm, error) {
	umkm, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Umkm{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(umkm), nil
}

func (r *UmkmRepository) List(ctx context.Context, ownerID uint, page, limit int) ([]domain.Umkm, int64, error) {
	umkms, total, err := r.dao.List(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	result := make([]domain.Umkm, len(umkms))
	for i, u := range umkms {
		result[i] = r.daoToDomain(u)
	}

	return result, total, nil
}

func (r *UmkmRepository) GetStage(ctx context.Context, umkmID uint, number int) (domain.Stage, error) {
	stage, err := r.dao.GetStage(ctx, umkmID, number)
	if err != nil {
		return domain.Stage{}, fmt.Errorf("r.dao.GetStage -> %w", err)
	}

	return r.stageDaoToDomain(stage), nil
}

func (r *UmkmRepository) AddStageFiles(ctx context.Context, stageID uint, files []domain.StageFile) error {
	filesDAO := make([]dao.UmkmStageFile, len(files))
	for i, f := range files {
		filesDAO[i] = dao.UmkmStageFile{
			FileName:   f.FileName,
			StoredPath: f.StoredPath,
			UploadedAt: f.UploadedAt,
		}
	}

	if err := r.dao.AddStageFiles(ctx, stageID, filesDAO); err != nil {
		return fmt.Errorf("r.dao.AddStageFiles -> %w", err)
	}

	return nil
}

func (r *UmkmRepository) MarkAwaitingValidation(ctx context.Context, stageID uint, submittedAt time.Time) error {
	if err := r.dao.MarkAwaitingValidation(ctx, stageID, submittedAt); err != nil {
		return fmt.Errorf("r.dao.MarkAwaitingValidation -> %w", err)
	}

	return nil
}

func (r *UmkmRepository) ApproveStage(ctx context.Context, umkmID uint, number int, note string, validatedAt time.Time) error {
	if err := r.dao.ApproveStage(ctx, umkmID, number, note, validatedAt, domain.StageCount); err != nil {
		return fmt.Errorf("r.dao.ApproveStage -> %w", err)
	}

	return nil
}

func (r *UmkmRepository) RejectStage(ctx context.Context, umkmID uint, number int, note string) error {
	if err := r.dao.RejectStage(ctx, umkmID, number, note); err != nil {
		return fmt.Errorf("r.dao.RejectStage -> %w", err)
	}

	return nil
}
