package domain

import "time"

// StageCount is fixed. Every Umkm owns exactly this many stage records,
// created at inception and indexed 1..StageCount.
const StageCount = 4

const (
	StageNotStarted         = "NOT_STARTED"
	StageInProgress         = "IN_PROGRESS"
	StageAwaitingValidation = "AWAITING_VALIDATION"
	StageComplete           = "COMPLETE"
)

type Umkm struct {
	ID           uint              `json:"id"`
	OwnerID      uint              `json:"owner_id"`
	Owner        *User             `json:"owner,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	CurrentStage int               `json:"current_stage"`
	Stages       [StageCount]Stage `json:"stages"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type Stage struct {
	ID          uint        `json:"id"`
	UmkmID      uint        `json:"umkm_id"`
	Number      int         `json:"number"`
	Status      string      `json:"status"`
	Note        string      `json:"note,omitempty"`
	Files       []StageFile `json:"files,omitempty"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
	ValidatedAt *time.Time  `json:"validated_at,omitempty"`
}

type StageFile struct {
	ID         uint      `json:"id"`
	StageID    uint      `json:"stage_id"`
	FileName   string    `json:"file_name"`
	StoredPath string    `json:"stored_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Complete reports whether every stage has been validated.
func (u Umkm) Complete() bool {
	for _, s := range u.Stages {
		if s.Status != StageComplete {
			return false
		}
	}
	return true
}
