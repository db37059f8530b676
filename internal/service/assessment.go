package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

var (
	ErrCategoryNotFound    = repository.ErrCategoryNotFound
	ErrCriterionNotFound   = repository.ErrCriterionNotFound
	ErrWinnerAlreadySet    = repository.ErrWinnerAlreadySet
	ErrInvalidWeightTotal  = errors.New("criteria weights must sum to exactly 100")
	ErrNoCriteria          = errors.New("at least one criterion is required")
	ErrNotAssessor         = errors.New("user is not an assessor of this category")
	ErrAssessorNotFound    = errors.New("assessor not found")
	ErrAssessorNotLecturer = errors.New("assessor must be a lecturer")
	ErrEventNotOngoing     = errors.New("event is not ongoing")
	ErrEventNotFinished    = errors.New("event is not finished")
	ErrScoreOutOfRange     = errors.New("score must be between 0 and 100")
	ErrBusinessNotInEvent  = errors.New("business does not belong to this event")
)

type AssessmentRepository interface {
	CreateCategory(ctx context.Context, category domain.Category, assessors []domain.User) (domain.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (domain.Category, error)
	FindCategoriesByEventID(ctx context.Context, eventID uint) ([]domain.Category, error)
	GetCriterionByID(ctx context.Context, id uint) (domain.Criterion, error)
	IsCategoryAssessor(ctx context.Context, categoryID, userID uint) (bool, error)
	UpsertScore(ctx context.Context, score domain.Score) (domain.Score, error)
	FindScoresByCategoryID(ctx context.Context, categoryID uint) ([]domain.Score, error)
	SetWinnerIfNone(ctx context.Context, categoryID, businessID uint) error
}

type AssessmentService struct {
	repo         AssessmentRepository
	eventRepo    EventRepository
	businessRepo BusinessRepository
	userRepo     UserRepository
	notifier     Notifier
}

func NewAssessmentService(repo AssessmentRepository, eventRepo EventRepository, businessRepo BusinessRepository, userRepo UserRepository, notifier Notifier) *AssessmentService {
	return &AssessmentService{
		repo:         repo,
		eventRepo:    eventRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// CreateCategory creates an assessment category together with its criteria
// and assessor assignments. The criteria weights must sum to exactly 100;
// nothing is persisted otherwise.
func (s *AssessmentService) CreateCategory(ctx context.Context, category domain.Category, assessorIDs []uint) (domain.Category, error) {
	event, err := s.eventRepo.GetByID(ctx, category.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Category{}, ErrEventNotFound
		}
		return domain.Category{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if len(category.Criteria) == 0 {
		return domain.Category{}, ErrNoCriteria
	}

	total := 0
	for _, c := range category.Criteria {
		total += c.Weight
	}
	if total != 100 {
		return domain.Category{}, ErrInvalidWeightTotal
	}

	assessors, err := s.userRepo.FindByIDs(ctx, assessorIDs)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.userRepo.FindByIDs -> %w", err)
	}
	if len(assessors) != len(assessorIDs) {
		return domain.Category{}, ErrAssessorNotFound
	}
	for _, a := range assessors {
		if !a.IsLecturer() {
			return domain.Category{}, ErrAssessorNotLecturer
		}
	}

	created, err := s.repo.CreateCategory(ctx, category, assessors)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.CreateCategory -> %w", err)
	}

	s.notifier.Notify(ctx, assessorIDs, domain.NotifAssessorAssigned,
		"Penugasan penilai",
		fmt.Sprintf("Anda ditugaskan sebagai penilai kategori %q pada event %q.", created.Name, event.Name))

	return created, nil
}

func (s *AssessmentService) GetCategoriesByEventID(ctx context.Context, eventID uint) ([]domain.Category, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	categories, err := s.repo.FindCategoriesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCategoriesByEventID -> %w", err)
	}

	return categories, nil
}

// SubmitScore upserts the score cell for (business, category, criterion).
// Only an assigned assessor may write, only while the category's event is
// ongoing. Re-submission overwrites; the stored assessor is whoever wrote
// last.
func (s *AssessmentService) SubmitScore(ctx context.Context, score domain.Score) (domain.Score, error) {
	if score.Value < 0 || score.Value > 100 {
		return domain.Score{}, ErrScoreOutOfRange
	}

	category, err := s.repo.GetCategoryByID(ctx, score.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.Score{}, ErrCategoryNotFound
		}
		return domain.Score{}, fmt.Errorf("s.repo.GetCategoryByID -> %w", err)
	}

	isAssessor, err := s.repo.IsCategoryAssessor(ctx, score.CategoryID, score.AssessorID)
	if err != nil {
		return domain.Score{}, fmt.Errorf("s.repo.IsCategoryAssessor -> %w", err)
	}
	if !isAssessor {
		return domain.Score{}, ErrNotAssessor
	}

	event, err := s.eventRepo.GetByID(ctx, category.EventID)
	if err != nil {
		return domain.Score{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}
	if event.Status != domain.EventOngoing {
		return domain.Score{}, ErrEventNotOngoing
	}

	business, err := s.businessRepo.GetByID(ctx, score.BusinessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return domain.Score{}, ErrBusinessNotFound
		}
		return domain.Score{}, fmt.Errorf("s.businessRepo.GetByID -> %w", err)
	}
	if business.EventID != category.EventID {
		return domain.Score{}, ErrBusinessNotInEvent
	}

	criterionOK := false
	for _, c := range category.Criteria {
		if c.ID == score.CriterionID {
			criterionOK = true
			break
		}
	}
	if !criterionOK {
		return domain.Score{}, ErrCriterionNotFound
	}

	upserted, err := s.repo.UpsertScore(ctx, score)
	if err != nil {
		return domain.Score{}, fmt.Errorf("s.repo.UpsertScore -> %w", err)
	}

	return upserted, nil
}

// ComputeRanking derives the ordered standings of a category. Eligible
// businesses are the event's approved student registrations; a missing
// score counts as 0. Totals are rounded to two decimals; equal totals keep
// business-id order.
func (s *AssessmentService) ComputeRanking(ctx context.Context, categoryID uint) ([]domain.RankingEntry, error) {
	category, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("s.repo.GetCategoryByID -> %w", err)
	}

	return s.rankCategory(ctx, category)
}

func (s *AssessmentService) rankCategory(ctx context.Context, category domain.Category) ([]domain.RankingEntry, error) {
	businesses, err := s.businessRepo.FindEligibleByEventID(ctx, category.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.businessRepo.FindEligibleByEventID -> %w", err)
	}

	scores, err := s.repo.FindScoresByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindScoresByCategoryID -> %w", err)
	}

	// One cell per (business, criterion); absent cells score 0.
	cells := make(map[uint]map[uint]int, len(businesses))
	for _, sc := range scores {
		if cells[sc.BusinessID] == nil {
			cells[sc.BusinessID] = make(map[uint]int, len(category.Criteria))
		}
		cells[sc.BusinessID][sc.CriterionID] = sc.Value
	}

	entries := make([]domain.RankingEntry, 0, len(businesses))
	for _, b := range businesses {
		entry := domain.RankingEntry{
			Business: b,
			Details:  make([]domain.CriterionScore, 0, len(category.Criteria)),
		}

		total := 0.0
		for _, c := range category.Criteria {
			value := cells[b.ID][c.ID]
			weighted := float64(value*c.Weight) / 100
			total += weighted

			entry.Details = append(entry.Details, domain.CriterionScore{
				CriterionID: c.ID,
				Name:        c.Name,
				Weight:      c.Weight,
				Value:       value,
				Weighted:    weighted,
			})
		}
		entry.Total = round2(total)

		entries = append(entries, entry)
	}

	// Businesses arrive ordered by id; the stable sort keeps that order
	// among equal totals.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})

	return entries, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SetWinner assigns a category winner manually. Legal only once the event
// is finished, and only once per category.
func (s *AssessmentService) SetWinner(ctx context.Context, categoryID, businessID uint) (domain.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("s.repo.GetCategoryByID -> %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, category.EventID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}
	if event.Status != domain.EventFinished {
		return domain.Category{}, ErrEventNotFinished
	}
	if category.WinnerID != nil {
		return domain.Category{}, ErrWinnerAlreadySet
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return domain.Category{}, ErrBusinessNotFound
		}
		return domain.Category{}, fmt.Errorf("s.businessRepo.GetByID -> %w", err)
	}
	if business.EventID != category.EventID {
		return domain.Category{}, ErrBusinessNotInEvent
	}

	// Conditional write; the losing side of a race gets ErrWinnerAlreadySet.
	if err := s.repo.SetWinnerIfNone(ctx, categoryID, businessID); err != nil {
		if errors.Is(err, repository.ErrWinnerAlreadySet) {
			return domain.Category{}, ErrWinnerAlreadySet
		}
		return domain.Category{}, fmt.Errorf("s.repo.SetWinnerIfNone -> %w", err)
	}

	s.notifier.Notify(ctx, []uint{business.OwnerID}, domain.NotifWinner,
		"Selamat, usaha Anda menjadi pemenang!",
		fmt.Sprintf("Usaha %q memenangkan kategori %q.", business.ProductName, category.Name))

	category.WinnerID = &businessID

	return category, nil
}

// AutoSetWinners runs the winner batch pass for every category of an event.
// Categories that already have a winner are skipped; a category whose top
// total is shared by two or more businesses is reported as a tie and left
// for a manual SetWinner call. The pass is idempotent.
func (s *AssessmentService) AutoSetWinners(ctx context.Context, eventID uint) ([]domain.WinnerResult, error) {
	categories, err := s.repo.FindCategoriesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCategoriesByEventID -> %w", err)
	}

	results := make([]domain.WinnerResult, 0, len(categories))
	for _, category := range categories {
		result, err := s.autoSetWinner(ctx, category)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *AssessmentService) autoSetWinner(ctx context.Context, category domain.Category) (domain.WinnerResult, error) {
	result := domain.WinnerResult{
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}

	if category.WinnerID != nil {
		result.Status = domain.WinnerAlreadySet
		return result, nil
	}

	entries, err := s.rankCategory(ctx, category)
	if err != nil {
		return domain.WinnerResult{}, fmt.Errorf("s.rankCategory -> %w", err)
	}

	if len(entries) == 0 {
		result.Status = domain.WinnerNoParticipants
		return result, nil
	}

	top := entries[0]
	if top.Total == 0 {
		result.Status = domain.WinnerNoScores
		return result, nil
	}

	var tied []domain.Business
	for _, e := range entries {
		if e.Total == top.Total {
			tied = append(tied, e.Business)
		}
	}
	if len(tied) >= 2 {
		result.Status = domain.WinnerTie
		result.TiedWith = tied
		return result, nil
	}

	if err := s.repo.SetWinnerIfNone(ctx, category.ID, top.Business.ID); err != nil {
		if errors.Is(err, repository.ErrWinnerAlreadySet) {
			// Lost a race against a concurrent manual SetWinner.
			result.Status = domain.WinnerAlreadySet
			return result, nil
		}
		return domain.WinnerResult{}, fmt.Errorf("s.repo.SetWinnerIfNone -> %w", err)
	}

	s.notifier.Notify(ctx, []uint{top.Business.OwnerID}, domain.NotifWinner,
		"Selamat, usaha Anda menjadi pemenang!",
		fmt.Sprintf("Usaha %q memenangkan kategori %q.", top.Business.ProductName, category.Name))

	winner := top.Business
	result.Status = domain.WinnerSet
	result.Winner = &winner

	return result, nil
}
