package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrDuplicateRegistration = errors.New("user already registered for this event")
	ErrProductNameTaken      = errors.New("product name already taken for this event")
	ErrBoothTaken            = errors.New("booth number already taken for this event")
	ErrBusinessNotPending    = errors.New("business is not pending")
	ErrBusinessNotApproved   = errors.New("business is not approved")
)

type Business struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;index;uniqueIndex:idx_businesses_event_owner;uniqueIndex:idx_businesses_event_product;uniqueIndex:idx_businesses_event_booth"`
	OwnerID uint `gorm:"not null;uniqueIndex:idx_businesses_event_owner"`
	Owner   User `gorm:"foreignKey:OwnerID"`

	Type        string `gorm:"not null"` // "MAHASISWA" or "VENDOR_EKSTERNAL"
	Status      string `gorm:"not null;default:PENDING"`
	ProductName string `gorm:"not null;uniqueIndex:idx_businesses_event_product"`
	Description string
	Phone       string

	BoothNumber  *string `gorm:"uniqueIndex:idx_businesses_event_booth"`
	RejectReason string

	// MAHASISWA payload.
	MentorID   *uint
	Mentor     *User    `gorm:"foreignKey:MentorID"`
	TeamRoster []string `gorm:"serializer:json"`

	// VENDOR_EKSTERNAL payload.
	OwnerName string
	Address   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BusinessDAO struct {
	db *gorm.DB
}

func NewBusinessDAO(db *gorm.DB) *BusinessDAO {
	return &BusinessDAO{
		db: db,
	}
}

func mapBusinessUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch {
	case strings.Contains(pgErr.Message, "idx_businesses_event_owner"):
		return ErrDuplicateRegistration
	case strings.Contains(pgErr.Message, "idx_businesses_event_product"):
		return ErrProductNameTaken
	case strings.Contains(pgErr.Message, "idx_businesses_event_booth"):
		return ErrBoothTaken
	}

	return err
}

func (d *BusinessDAO) Insert(ctx context.Context, business Business) (Business, error) {
	result := d.db.WithContext(ctx).Create(&business)
	if result.Error != nil {
		return Business{}, mapBusinessUniqueViolation(result.Error)
	}

	return business, nil
}

func (d *BusinessDAO) GetByID(ctx context.Context, id uint) (Business, error) {
	var business Business

	result := d.db.WithContext(ctx).Preload("Owner").Preload("Mentor").First(&business, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Business{}, ErrBusinessNotFound
		}

		return Business{}, result.Error
	}

	return business, nil
}

func (d *BusinessDAO) FindByEventID(ctx context.Context, eventID uint, page, limit int) ([]Business, int64, error) {
	var (
		businesses []Business
		total      int64
	)

	base := d.db.WithContext(ctx).Model(&Business{}).Where("event_id = ?", eventID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).
		Preload("Owner").
		Preload("Mentor").
		Where("event_id = ?", eventID).
		Order("created_at").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&businesses)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return businesses, total, nil
}

// FindEligibleByEventID returns the approved student businesses of an event,
// which is the population rankings and winners are computed over.
func (d *BusinessDAO) FindEligibleByEventID(ctx context.Context, eventID uint) ([]Business, error) {
	var businesses []Business

	result := d.db.WithContext(ctx).
		Preload("Owner").
		Where("event_id = ? AND status = ? AND type = ?", eventID, "APPROVED", "MAHASISWA").
		Order("id").
		Find(&businesses)
	if result.Error != nil {
		return nil, result.Error
	}

	return businesses, nil
}

// CountByEventID counts the registrations holding a quota slot. Rejected
// registrations free their slot for other applicants.
func (d *BusinessDAO) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var total int64

	result := d.db.WithContext(ctx).
		Model(&Business{}).
		Where("event_id = ? AND status <> ?", eventID, "REJECTED").
		Count(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return total, nil
}

// UpdateStatusFromPending moves PENDING -> status as a conditional write, so
// a business that was already decided cannot be decided again.
func (d *BusinessDAO) UpdateStatusFromPending(ctx context.Context, id uint, status, rejectReason string) error {
	result := d.db.WithContext(ctx).
		Model(&Business{}).
		Where("id = ? AND status = ?", id, "PENDING").
		Updates(map[string]interface{}{
			"status":        status,
			"reject_reason": rejectReason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBusinessNotPending
	}

	return nil
}

func (d *BusinessDAO) AssignBooth(ctx context.Context, id uint, booth string) error {
	result := d.db.WithContext(ctx).
		Model(&Business{}).
		Where("id = ? AND status = ?", id, "APPROVED").
		Update("booth_number", booth)
	if result.Error != nil {
		return mapBusinessUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBusinessNotApproved
	}

	return nil
}

func (d *BusinessDAO) DeleteIfPending(ctx context.Context, id, ownerID uint) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, "PENDING").
		Delete(&Business{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBusinessNotPending
	}

	return nil
}
