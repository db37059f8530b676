package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Kind   string `gorm:"not null"`
	Title  string `gorm:"not null"`
	Body   string
	Read   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notifications []Notification) ([]Notification, error) {
	result := d.db.WithContext(ctx).Create(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

func (d *NotificationDAO) FindByUserID(ctx context.Context, userID uint, page, limit int) ([]Notification, int64, error) {
	var (
		notifications []Notification
		total         int64
	)

	base := d.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return notifications, total, nil
}

func (d *NotificationDAO) MarkRead(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
