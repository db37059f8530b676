package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUmkmNotFound       = errors.New("umkm not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrStageNotInProgress = errors.New("stage is not in progress")
	ErrStageNotAwaiting   = errors.New("stage is not awaiting validation")
)

type Umkm struct {
	ID      uint `gorm:"primaryKey"`
	OwnerID uint `gorm:"not null;index"`
	Owner   User `gorm:"foreignKey:OwnerID"`

	Name        string `gorm:"not null"`
	Description string

	CurrentStage int         `gorm:"not null;default:1"`
	Stages       []UmkmStage `gorm:"foreignKey:UmkmID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type UmkmStage struct {
	ID     uint `gorm:"primaryKey"`
	UmkmID uint `gorm:"not null;uniqueIndex:idx_umkm_stages_number"`
	Number int  `gorm:"not null;uniqueIndex:idx_umkm_stages_number"`

	Status string `gorm:"not null;default:NOT_STARTED"`
	Note   string

	Files []UmkmStageFile `gorm:"foreignKey:StageID"`

	SubmittedAt *time.Time
	ValidatedAt *time.Time
}

type UmkmStageFile struct {
	ID         uint   `gorm:"primaryKey"`
	StageID    uint   `gorm:"not null;index"`
	FileName   string `gorm:"not null"`
	StoredPath string `gorm:"not null"`
	UploadedAt time.Time
}

type UmkmDAO struct {
	db *gorm.DB
}

func NewUmkmDAO(db *gorm.DB) *UmkmDAO {
	return &UmkmDAO{
		db: db,
	}
}

// InsertWithStages creates the umkm together with its fixed set of stage
// rows. Stage 1 starts in progress, the rest untouched.
func (d *UmkmDAO) InsertWithStages(ctx context.Context, umkm Umkm, stageCount int) (Umkm, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		umkm.CurrentStage = 1
		if err := tx.Omit("Stages").Create(&umkm).Error; err != nil {
			return err
		}

		stages := make([]UmkmStage, stageCount)
		for i := range stages {
			stages[i] = UmkmStage{
				UmkmID: umkm.ID,
				Number: i + 1,
				Status: "NOT_STARTED",
			}
		}
		stages[0].Status = "IN_PROGRESS"

		if err := tx.Create(&stages).Error; err != nil {
			return err
		}
		umkm.Stages = stages

		return nil
	})
	if err != nil {
		return Umkm{}, err
	}

	return umkm, nil
}

func (d *UmkmDAO) GetByID(ctx context.Context, id uint) (Umkm, error) {
	var umkm Umkm

	result := d.db.WithContext(ctx).
		Preload("Owner").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("umkm_stages.number")
		}).
		Preload("Stages.Files").
		First(&umkm, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Umkm{}, ErrUmkmNotFound
		}

		return Umkm{}, result.Error
	}

	return umkm, nil
}

func (d *UmkmDAO) List(ctx context.Context, ownerID uint, page, limit int) ([]Umkm, int64, error) {
	var (
		umkms []Umkm
		total int64
	)

	base := d.db.WithContext(ctx).Model(&Umkm{})
	if ownerID != 0 {
		base = base.Where("owner_id = ?", ownerID)
	}
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := d.db.WithContext(ctx).
		Preload("Owner").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("umkm_stages.number")
		}).
		Preload("Stages.Files")
	if ownerID != 0 {
		query = query.Where("owner_id = ?", ownerID)
	}

	result := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&umkms)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return umkms, total, nil
}

func (d *UmkmDAO) GetStage(ctx context.Context, umkmID uint, number int) (UmkmStage, error) {
	var stage UmkmStage

	result := d.db.WithContext(ctx).
		Preload("Files").
		Where("umkm_id = ? AND number = ?", umkmID, number).
		First(&stage)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return UmkmStage{}, ErrStageNotFound
		}

		return UmkmStage{}, result.Error
	}

	return stage, nil
}

// AddStageFiles stores the uploaded file references and puts the stage back
// in progress, in one transaction.
func (d *UmkmDAO) AddStageFiles(ctx context.Context, stageID uint, files []UmkmStageFile) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range files {
			files[i].StageID = stageID
		}
		if err := tx.Create(&files).Error; err != nil {
			return err
		}

		return tx.Model(&UmkmStage{}).
			Where("id = ?", stageID).
			Update("status", "IN_PROGRESS").Error
	})
}

// MarkAwaitingValidation transitions IN_PROGRESS -> AWAITING_VALIDATION as a
// conditional write and stamps the submission time.
func (d *UmkmDAO) MarkAwaitingValidation(ctx context.Context, stageID uint, submittedAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&UmkmStage{}).
		Where("id = ? AND status = ?", stageID, "IN_PROGRESS").
		Updates(map[string]interface{}{
			"status":       "AWAITING_VALIDATION",
			"submitted_at": submittedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStageNotInProgress
	}

	return nil
}

// ApproveStage completes the stage and, below the final stage, flips the
// next stage to IN_PROGRESS and bumps the parent counter. All three writes
// commit or none do.
func (d *UmkmDAO) ApproveStage(ctx context.Context, umkmID uint, number int, note string, validatedAt time.Time, lastStage int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&UmkmStage{}).
			Where("umkm_id = ? AND number = ? AND status = ?", umkmID, number, "AWAITING_VALIDATION").
			Updates(map[string]interface{}{
				"status":       "COMPLETE",
				"note":         note,
				"validated_at": validatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStageNotAwaiting
		}

		if number >= lastStage {
			return nil
		}

		if err := tx.Model(&UmkmStage{}).
			Where("umkm_id = ? AND number = ?", umkmID, number+1).
			Update("status", "IN_PROGRESS").Error; err != nil {
			return err
		}

		return tx.Model(&Umkm{}).
			Where("id = ?", umkmID).
			Update("current_stage", number+1).Error
	})
}

// RejectStage sends AWAITING_VALIDATION back to IN_PROGRESS with the
// reviewer's note. No advancement, no completion timestamp.
func (d *UmkmDAO) RejectStage(ctx context.Context, umkmID uint, number int, note string) error {
	result := d.db.WithContext(ctx).
		Model(&UmkmStage{}).
		Where("umkm_id = ? AND number = ? AND status = ?", umkmID, number, "AWAITING_VALIDATION").
		Updates(map[string]interface{}{
			"status": "IN_PROGRESS",
			"note":   note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStageNotAwaiting
	}

	return nil
}
