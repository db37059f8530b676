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
	ErrUmkmNotFound       = repository.ErrUmkmNotFound
	ErrStageNotFound      = repository.ErrStageNotFound
	ErrStageNotAwaiting   = repository.ErrStageNotAwaiting
	ErrStageNotInProgress = repository.ErrStageNotInProgress
	ErrStageNotActive     = errors.New("stage is not the current stage")
	ErrStageComplete      = errors.New("stage is already complete")
	ErrStageNoFiles       = errors.New("stage has no uploaded files")
)

type UmkmRepository interface {
	Create(ctx context.Context, umkm domain.Umkm) (domain.Umkm, error)
	GetByID(ctx context.Context, id uint) (domain.Umkm, error)
	List(ctx context.Context, ownerID uint, page, limit int) ([]domain.Umkm, int64, error)
	GetStage(ctx context.Context, umkmID uint, number int) (domain.Stage, error)
	AddStageFiles(ctx context.Context, stageID uint, files []domain.StageFile) error
	MarkAwaitingValidation(ctx context.Context, stageID uint, submittedAt time.Time) error
	ApproveStage(ctx context.Context, umkmID uint, number int, note string, validatedAt time.Time) error
	RejectStage(ctx context.Context, umkmID uint, number int, note string) error
}

type UmkmService struct {
	repo     UmkmRepository
	userRepo UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewUmkmService(repo UmkmRepository, userRepo UserRepository, notifier Notifier) *UmkmService {
	return &UmkmService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateUmkm registers a mentored small business. All four stage records are
// created up front; stage 1 starts in progress.
func (s *UmkmService) CreateUmkm(ctx context.Context, umkm domain.Umkm) (domain.Umkm, error) {
	created, err := s.repo.Create(ctx, umkm)
	if err != nil {
		return domain.Umkm{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *UmkmService) GetUmkm(ctx context.Context, id uint) (domain.Umkm, error) {
	umkm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUmkmNotFound) {
			return domain.Umkm{}, ErrUmkmNotFound
		}
		return domain.Umkm{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return umkm, nil
}

// ListUmkms lists all for admins (ownerID 0) or the caller's own.
func (s *UmkmService) ListUmkms(ctx context.Context, ownerID uint, page, limit int) ([]domain.Umkm, int64, error) {
	umkms, total, err := s.repo.List(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return umkms, total, nil
}

// currentStageFor fetches the umkm and checks that number addresses its
// current, not yet completed stage.
func (s *UmkmService) currentStageFor(ctx context.Context, umkmID uint, number int, userID uint) (domain.Umkm, domain.Stage, error) {
	umkm, err := s.GetUmkm(ctx, umkmID)
	if err != nil {
		return domain.Umkm{}, domain.Stage{}, err
	}
	if umkm.OwnerID != userID {
		return domain.Umkm{}, domain.Stage{}, ErrNotOwner
	}

	if number < 1 || number > domain.StageCount {
		return domain.Umkm{}, domain.Stage{}, ErrStageNotFound
	}
	stage := umkm.Stages[number-1]

	if stage.Status == domain.StageComplete {
		return domain.Umkm{}, domain.Stage{}, ErrStageComplete
	}
	if number != umkm.CurrentStage {
		return domain.Umkm{}, domain.Stage{}, ErrStageNotActive
	}

	return umkm, stage, nil
}

// UploadStageFiles stores file references on the owner's current stage and
// puts it (back) in progress. Re-upload is allowed any time before the stage
// is validated.
func (s *UmkmService) UploadStageFiles(ctx context.Context, umkmID uint, number int, files []domain.StageFile, userID uint) (domain.Stage, error) {
	_, stage, err := s.currentStageFor(ctx, umkmID, number, userID)
	if err != nil {
		return domain.Stage{}, err
	}

	if err := s.repo.AddStageFiles(ctx, stage.ID, files); err != nil {
		return domain.Stage{}, fmt.Errorf("s.repo.AddStageFiles -> %w", err)
	}

	updated, err := s.repo.GetStage(ctx, umkmID, number)
	if err != nil {
		return domain.Stage{}, fmt.Errorf("s.repo.GetStage -> %w", err)
	}

	return updated, nil
}

// RequestValidation submits the current stage for admin review. At least one
// file must be attached.
func (s *UmkmService) RequestValidation(ctx context.Context, umkmID uint, number int, userID uint) (domain.Stage, error) {
	umkm, stage, err := s.currentStageFor(ctx, umkmID, number, userID)
	if err != nil {
		return domain.Stage{}, err
	}

	if len(stage.Files) == 0 {
		return domain.Stage{}, ErrStageNoFiles
	}

	if err := s.repo.MarkAwaitingValidation(ctx, stage.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrStageNotInProgress) {
			return domain.Stage{}, ErrStageNotInProgress
		}
		return domain.Stage{}, fmt.Errorf("s.repo.MarkAwaitingValidation -> %w", err)
	}

	admins, err := s.userRepo.FindByRole(ctx, domain.RoleAdmin)
	if err == nil {
		adminIDs := make([]uint, len(admins))
		for i, a := range admins {
			adminIDs[i] = a.ID
		}
		s.notifier.Notify(ctx, adminIDs, domain.NotifStageSubmitted,
			"Pengajuan validasi tahap UMKM",
			fmt.Sprintf("UMKM %q mengajukan validasi tahap %d.", umkm.Name, number))
	}

	updated, err := s.repo.GetStage(ctx, umkmID, number)
	if err != nil {
		return domain.Stage{}, fmt.Errorf("s.repo.GetStage -> %w", err)
	}

	return updated, nil
}

// ValidateStage decides a stage that is awaiting validation. Approval
// completes the stage and advances the pipeline one step; rejection sends it
// back to in progress for a retry. Role enforcement is the caller's job.
func (s *UmkmService) ValidateStage(ctx context.Context, umkmID uint, number int, approved bool, note string) (domain.Umkm, error) {
	umkm, err := s.GetUmkm(ctx, umkmID)
	if err != nil {
		return domain.Umkm{}, err
	}
	if number < 1 || number > domain.StageCount {
		return domain.Umkm{}, ErrStageNotFound
	}

	if approved {
		err = s.repo.ApproveStage(ctx, umkmID, number, note, s.now())
	} else {
		err = s.repo.RejectStage(ctx, umkmID, number, note)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStageNotAwaiting) {
			return domain.Umkm{}, ErrStageNotAwaiting
		}
		return domain.Umkm{}, fmt.Errorf("s.repo.validate stage -> %w", err)
	}

	verdict := "ditolak"
	if approved {
		verdict = "disetujui"
	}
	s.notifier.Notify(ctx, []uint{umkm.OwnerID}, domain.NotifStageValidated,
		fmt.Sprintf("Tahap %d %s", number, verdict),
		fmt.Sprintf("Validasi tahap %d UMKM %q: %s. %s", number, umkm.Name, verdict, note))

	updated, err := s.GetUmkm(ctx, umkmID)
	if err != nil {
		return domain.Umkm{}, err
	}

	return updated, nil
}
