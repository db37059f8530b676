package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCriterionNotFound = errors.New("criterion not found")
	ErrWinnerAlreadySet  = errors.New("winner already set for this category")
)

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string

	Assessors []User      `gorm:"many2many:category_assessors;"`
	Criteria  []Criterion `gorm:"foreignKey:CategoryID"`

	WinnerID *uint
	Winner   *Business `gorm:"foreignKey:WinnerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Criterion struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Weight     int    `gorm:"not null"`
}

// Score holds one cell per (business, category, criterion). AssessorID is
// whoever wrote the cell last.
type Score struct {
	ID          uint `gorm:"primaryKey"`
	BusinessID  uint `gorm:"not null;uniqueIndex:idx_scores_cell"`
	CategoryID  uint `gorm:"not null;uniqueIndex:idx_scores_cell"`
	CriterionID uint `gorm:"not null;uniqueIndex:idx_scores_cell"`
	AssessorID  uint `gorm:"not null"`
	Value       int  `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AssessmentDAO struct {
	db *gorm.DB
}

func NewAssessmentDAO(db *gorm.DB) *AssessmentDAO {
	return &AssessmentDAO{
		db: db,
	}
}

// InsertCategoryWithCriteria creates the category, its criteria and its
// assessor links in a single transaction. Nothing persists when any part
// fails.
func (d *AssessmentDAO) InsertCategoryWithCriteria(ctx context.Context, category Category, criteria []Criterion, assessors []User) (Category, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assessors", "Criteria").Create(&category).Error; err != nil {
			return err
		}

		for i := range criteria {
			criteria[i].CategoryID = category.ID
		}
		if err := tx.Create(&criteria).Error; err != nil {
			return err
		}

		if len(assessors) > 0 {
			if err := tx.Model(&category).Association("Assessors").Append(assessors); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Category{}, err
	}

	category.Criteria = criteria
	category.Assessors = assessors

	return category, nil
}

func (d *AssessmentDAO) GetCategoryByID(ctx context.Context, id uint) (Category, error) {
	var category Category

	result := d.db.WithContext(ctx).
		Preload("Assessors").
		Preload("Criteria").
		First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Category{}, ErrCategoryNotFound
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *AssessmentDAO) FindCategoriesByEventID(ctx context.Context, eventID uint) ([]Category, error) {
	var categories []Category

	result := d.db.WithContext(ctx).
		Preload("Assessors").
		Preload("Criteria").
		Where("event_id = ?", eventID).
		Order("id").
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (d *AssessmentDAO) GetCriterionByID(ctx context.Context, id uint) (Criterion, error) {
	var criterion Criterion

	result := d.db.WithContext(ctx).First(&criterion, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Criterion{}, ErrCriterionNotFound
		}

		return Criterion{}, result.Error
	}

	return criterion, nil
}

func (d *AssessmentDAO) IsCategoryAssessor(ctx context.Context, categoryID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Table("category_assessors").
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// UpsertScore writes the score cell keyed by (business, category, criterion).
// On conflict the value and the assessor identity are overwritten; the last
// committed write wins.
func (d *AssessmentDAO) UpsertScore(ctx context.Context, score Score) (Score, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "business_id"},
				{Name: "category_id"},
				{Name: "criterion_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"value", "assessor_id", "updated_at"}),
		}).
		Create(&score)
	if result.Error != nil {
		return Score{}, result.Error
	}

	return score, nil
}

func (d *AssessmentDAO) FindScoresByCategoryID(ctx context.Context, categoryID uint) ([]Score, error) {
	var scores []Score

	result := d.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}

	return scores, nil
}

// SetWinnerIfNone assigns the winner only when the category has none yet.
// The losing side of a concurrent race gets ErrWinnerAlreadySet.
func (d *AssessmentDAO) SetWinnerIfNone(ctx context.Context, categoryID, businessID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ? AND winner_id IS NULL", categoryID).
		Update("winner_id", businessID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWinnerAlreadySet
	}

	return nil
}
