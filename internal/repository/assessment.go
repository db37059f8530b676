package repository

import (
	"context"
	"fmt"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
)

var (
	ErrCategoryNotFound  = dao.ErrCategoryNotFound
	ErrCriterionNotFound = dao.ErrCriterionNotFound
	ErrWinnerAlreadySet  = dao.ErrWinnerAlreadySet
)

type AssessmentDAO interface {
	InsertCategoryWithCriteria(ctx context.Context, category dao.Category, criteria []dao.Criterion, assessors []dao.User) (dao.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (dao.Category, error)
	FindCategoriesByEventID(ctx context.Context, eventID uint) ([]dao.Category, error)
	GetCriterionByID(ctx context.Context, id uint) (dao.Criterion, error)
	IsCategoryAssessor(ctx context.Context, categoryID, userID uint) (bool, error)
	UpsertScore(ctx context.Context, score dao.Score) (dao.Score, error)
	FindScoresByCategoryID(ctx context.Context, categoryID uint) ([]dao.Score, error)
	SetWinnerIfNone(ctx context.Context, categoryID, businessID uint) error
}

type AssessmentRepository struct {
	dao AssessmentDAO
}

func NewAssessmentRepository(dao AssessmentDAO) *AssessmentRepository {
	return &AssessmentRepository{
		dao: dao,
	}
}

func (r *AssessmentRepository) categoryDaoToDomain(c dao.Category) domain.Category {
	category := domain.Category{
		ID:          c.ID,
		EventID:     c.EventID,
		Name:        c.Name,
		Description: c.Description,
		WinnerID:    c.WinnerID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	for _, a := range c.Assessors {
		category.Assessors = append(category.Assessors, domain.User{
			ID:    a.ID,
			Email: a.Email,
			Name:  a.Name,
			Role:  a.Role,
		})
	}

	for _, cr := range c.Criteria {
		category.Criteria = append(category.Criteria, r.criterionDaoToDomain(cr))
	}

	return category
}

func (r *AssessmentRepository) criterionDaoToDomain(c dao.Criterion) domain.Criterion {
	return domain.Criterion{
		ID:         c.ID,
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Weight:     c.Weight,
	}
}

func (r *AssessmentRepository) scoreDaoToDomain(s dao.Score) domain.Score {
	return domain.Score{
		ID:          s.ID,
		BusinessID:  s.BusinessID,
		CategoryID:  s.CategoryID,
		CriterionID: s.CriterionID,
		AssessorID:  s.AssessorID,
		Value:       s.Value,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *AssessmentRepository) CreateCategory(ctx context.Context, category domain.Category, assessors []domain.User) (domain.Category, error) {
	categoryDAO := dao.Category{
		EventID:     category.EventID,
		Name:        category.Name,
		Description: category.Description,
	}

	criteriaDAO := make([]dao.Criterion, len(category.Criteria))
	for i, c := range category.Criteria {
		criteriaDAO[i] = dao.Criterion{
			Name:   c.Name,
			Weight: c.Weight,
		}
	}

	assessorsDAO := make([]dao.User, len(assessors))
	for i, a := range assessors {
		assessorsDAO[i] = dao.User{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
	}

	created, err := r.dao.InsertCategoryWithCriteria(ctx, categoryDAO, criteriaDAO, assessorsDAO)
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.InsertCategoryWithCriteria -> %w", err)
	}

	return r.categoryDaoToDomain(created), nil
}

func (r *AssessmentRepository) GetCategoryByID(ctx context.Context, id uint) (domain.Category, error) {
	category, err := r.dao.GetCategoryByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.GetCategoryByID -> %w", err)
	}

	return r.categoryDaoToDomain(category), nil
}

func (r *AssessmentRepository) FindCategoriesByEventID(ctx context.Context, eventID uint) ([]domain.Category, error) {
	categories, err := r.dao.FindCategoriesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCategoriesByEventID -> %w", err)
	}

	result := make([]domain.Category, len(categories))
	for i, c := range categories {
		result[i] = r.categoryDaoToDomain(c)
	}

	return result, nil
}

func (r *AssessmentRepository) GetCriterionByID(ctx context.Context, id uint) (domain.Criterion, error) {
	criterion, err := r.dao.GetCriterionByID(ctx, id)
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("r.dao.GetCriterionByID -> %w", err)
	}

	return r.criterionDaoToDomain(criterion), nil
}

func (r *AssessmentRepository) IsCategoryAssessor(ctx context.Context, categoryID, userID uint) (bool, error) {
	isAssessor, err := r.dao.IsCategoryAssessor(ctx, categoryID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsCategoryAssessor -> %w", err)
	}

	return isAssessor, nil
}

func (r *AssessmentRepository) UpsertScore(ctx context.Context, score domain.Score) (domain.Score, error) {
	upserted, err := r.dao.UpsertScore(ctx, dao.Score{
		BusinessID:  score.BusinessID,
		CategoryID:  score.CategoryID,
		CriterionID: score.CriterionID,
		AssessorID:  score.AssessorID,
		Value:       score.Value,
	})
	if err != nil {
		return domain.Score{}, fmt.Errorf("r.dao.UpsertScore -> %w", err)
	}

	return r.scoreDaoToDomain(upserted), nil
}

func (r *AssessmentRepository) FindScoresByCategoryID(ctx context.Context, categoryID uint) ([]domain.Score, error) {
	scores, err := r.dao.FindScoresByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindScoresByCategoryID -> %w", err)
	}

	result := make([]domain.Score, len(scores))
	for i, s := range scores {
		result[i] = r.scoreDaoToDomain(s)
	}

	return result, nil
}

func (r *AssessmentRepository) SetWinnerIfNone(ctx context.Context, categoryID, businessID uint) error {
	if err := r.dao.SetWinnerIfNone(ctx, categoryID, businessID); err != nil {
		return fmt.Errorf("r.dao.SetWinnerIfNone -> %w", err)
	}

	return nil
}
