package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventStatusMoved = errors.New("event status changed concurrently")
	ErrSponsorNotFound  = errors.New("sponsor not found")
)

type Event struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Location    string
	Status      string `gorm:"not null;default:DRAFT"`

	RegistrationOpen  time.Time
	RegistrationClose time.Time
	Quota             int  `gorm:"not null;default:0"`
	Locked            bool `gorm:"not null;default:false"`

	StartDate time.Time
	EndDate   time.Time

	Sponsors   []Sponsor  `gorm:"foreignKey:EventID"`
	Businesses []Business `gorm:"foreignKey:EventID"`
	Categories []Category `gorm:"foreignKey:EventID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Sponsor struct {
	ID      uint   `gorm:"primaryKey"`
	EventID uint   `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	LogoURL string
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) GetByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Preload("Sponsors").First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) List(ctx context.Context, page, limit int) ([]Event, int64, error) {
	var (
		events []Event
		total  int64
	)

	if err := d.db.WithContext(ctx).Model(&Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return events, total, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

// UpdateStatus flips the event status only when it still holds the expected
// value, so two concurrent transition calls cannot both win.
func (d *EventDAO) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventStatusMoved
	}

	return nil
}

func (d *EventDAO) InsertSponsor(ctx context.Context, sponsor Sponsor) (Sponsor, error) {
	result := d.db.WithContext(ctx).Create(&sponsor)
	if result.Error != nil {
		return Sponsor{}, result.Error
	}

	return sponsor, nil
}

func (d *EventDAO) FindSponsorsByEventID(ctx context.Context, eventID uint) ([]Sponsor, error) {
	var sponsors []Sponsor

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&sponsors)
	if result.Error != nil {
		return nil, result.Error
	}

	return sponsors, nil
}

func (d *EventDAO) DeleteSponsor(ctx context.Context, eventID, sponsorID uint) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", sponsorID, eventID).
		Delete(&Sponsor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSponsorNotFound
	}

	return nil
}
