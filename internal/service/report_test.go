package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

type stubRankingSource struct {
	categories map[uint][]domain.Category
	rankings   map[uint][]domain.RankingEntry
}

func (s *stubRankingSource) GetCategoriesByEventID(_ context.Context, eventID uint) ([]domain.Category, error) {
	return s.categories[eventID], nil
}

func (s *stubRankingSource) ComputeRanking(_ context.Context, categoryID uint) ([]domain.RankingEntry, error) {
	return s.rankings[categoryID], nil
}

func TestReportService_ExportRanking(t *testing.T) {
	events := newFakeEventRepo()
	event := events.add(domain.Event{Name: "Bazar Kampus", Status: domain.EventFinished})

	booth := "A-05"
	rankings := &stubRankingSource{
		categories: map[uint][]domain.Category{
			event.ID: {
				{
					ID:      1,
					EventID: event.ID,
					Name:    "Stan Terbaik",
					Criteria: []domain.Criterion{
						{ID: 11, Name: "Kebersihan", Weight: 40},
						{ID: 12, Name: "Pelayanan", Weight: 60},
					},
				},
				{ID: 2, EventID: event.ID, Name: "Produk Terinovatif"},
			},
		},
		rankings: map[uint][]domain.RankingEntry{
			1: {
				{
					Business: domain.Business{ID: 5, ProductName: "Keripik Pedas", BoothNumber: &booth},
					Details: []domain.CriterionScore{
						{CriterionID: 11, Value: 80, Weighted: 32},
						{CriterionID: 12, Value: 90, Weighted: 54},
					},
					Total: 86,
				},
				{
					Business: domain.Business{ID: 6, ProductName: "Es Teh"},
					Details: []domain.CriterionScore{
						{CriterionID: 11, Value: 70, Weighted: 28},
						{CriterionID: 12, Value: 50, Weighted: 30},
					},
					Total: 58,
				},
			},
		},
	}

	svc := NewReportService(events, rankings)

	f, err := svc.ExportRanking(context.Background(), event.ID)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Stan Terbaik (1)", "Produk Terinovatif (2)"}, sheets)

	title, err := f.GetCellValue(sheets[0], "A1")
	require.NoError(t, err)
	assert.Equal(t, "Bazar Kampus - Stan Terbaik", title)

	header, err := f.GetCellValue(sheets[0], "D3")
	require.NoError(t, err)
	assert.Equal(t, "Pelayanan (60%)", header)

	product, err := f.GetCellValue(sheets[0], "B4")
	require.NoError(t, err)
	assert.Equal(t, "Keripik Pedas", product)

	boothCell, err := f.GetCellValue(sheets[0], "C4")
	require.NoError(t, err)
	assert.Equal(t, "A-05", boothCell)

	total, err := f.GetCellValue(sheets[0], "F4")
	require.NoError(t, err)
	assert.Equal(t, "86", total)

	secondRank, err := f.GetCellValue(sheets[0], "A5")
	require.NoError(t, err)
	assert.Equal(t, "2", secondRank)
}

func TestReportService_ExportRanking_UnknownEvent(t *testing.T) {
	svc := NewReportService(newFakeEventRepo(), &stubRankingSource{})

	_, err := svc.ExportRanking(context.Background(), 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Stan Terbaik (1)", sheetName("Stan Terbaik", 0))

	long := sheetName("Kategori Dengan Nama Yang Sangat Panjang Sekali", 2)
	assert.LessOrEqual(t, len([]rune(long)), 31)
	assert.Contains(t, long, " (3)")
}
