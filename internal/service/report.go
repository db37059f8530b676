package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

type RankingSource interface {
	GetCategoriesByEventID(ctx context.Context, eventID uint) ([]domain.Category, error)
	ComputeRanking(ctx context.Context, categoryID uint) ([]domain.RankingEntry, error)
}

type ReportService struct {
	eventRepo EventRepository
	rankings  RankingSource
}

func NewReportService(eventRepo EventRepository, rankings RankingSource) *ReportService {
	return &ReportService{
		eventRepo: eventRepo,
		rankings:  rankings,
	}
}

// ExportRanking renders the event's standings as a workbook, one sheet per
// category. The caller owns closing the returned file.
func (s *ReportService) ExportRanking(ctx context.Context, eventID uint) (*excelize.File, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	categories, err := s.rankings.GetCategoriesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.rankings.GetCategoriesByEventID -> %w", err)
	}

	f := excelize.NewFile()

	for i, category := range categories {
		sheet := sheetName(category.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("f.SetSheetName -> %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("f.NewSheet -> %w", err)
			}
		}

		entries, err := s.rankings.ComputeRanking(ctx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("s.rankings.ComputeRanking -> %w", err)
		}

		if err := writeRankingSheet(f, sheet, event, category, entries); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeRankingSheet(f *excelize.File, sheet string, event domain.Event, category domain.Category, entries []domain.RankingEntry) error {
	header := []interface{}{"Peringkat", "Produk", "Nomor Stan"}
	for _, c := range category.Criteria {
		header = append(header, fmt.Sprintf("%s (%d%%)", c.Name, c.Weight))
	}
	header = append(header, "Total")

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("%s - %s", event.Name, category.Name)); err != nil {
		return fmt.Errorf("f.SetCellValue -> %w", err)
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	for i, entry := range entries {
		booth := ""
		if entry.Business.BoothNumber != nil {
			booth = *entry.Business.BoothNumber
		}
		row := []interface{}{i + 1, entry.Business.ProductName, booth}
		for _, d := range entry.Details {
			row = append(row, d.Value)
		}
		row = append(row, entry.Total)

		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	return nil
}

// sheetName keeps names unique and inside excelize's 31-char limit.
func sheetName(name string, index int) string {
	suffix := fmt.Sprintf(" (%d)", index+1)
	limit := 31 - len(suffix)
	runes := []rune(name)
	if len(runes) > limit {
		name = string(runes[:limit])
	}
	return name + suffix
}
