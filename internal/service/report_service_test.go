package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
	"github.com/noah-isme/creche-api/pkg/format"
)

func reportFixture(now time.Time) []models.Student {
	return []models.Student{
		student("1", "Ana", 0, models.StudentStatusActive, now.Add(-2*24*time.Hour)),
		student("2", "Bia", 2, models.StudentStatusActive, now.Add(-30*24*time.Hour)),
		student("3", "Caio", 4, models.StudentStatusInactive, now.Add(-31*24*time.Hour)),
		student("4", "Duda", 6, models.StudentStatusActive, now.Add(-10*24*time.Hour)),
		student("5", "Enzo", 9, models.StudentStatusInactive, now.Add(24*time.Hour)),
	}
}

func TestComputeStats(t *testing.T) {
	now := day(2024, time.June, 15)
	stats := ComputeStats(reportFixture(now), now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 2, stats.Inactive)
	assert.Equal(t, 1, stats.Count(models.AgeBracketInfant))
	assert.Equal(t, 1, stats.Count(models.AgeBracketToddler))
	assert.Equal(t, 1, stats.Count(models.AgeBracketPreschool))
	assert.Equal(t, 2, stats.Count(models.AgeBracketSchool))
	assert.Equal(t, 3, stats.RecentEnrollments)
	require.Len(t, stats.ByAge, 4)
	assert.Equal(t, models.AgeBrackets[0], stats.ByAge[0].Bracket)
}

func TestComputeStatsEmptyCollection(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByAge, 4)
}

func TestHistogramMatchesListFilter(t *testing.T) {
	now := day(2024, time.June, 15)
	students := reportFixture(now)
	students = append(students, student("6", "Gui", -1, models.StudentStatusActive, now), student("7", "Hugo", 3, models.StudentStatusActive, now))
	stats := ComputeStats(students, now)
	for _, bracket := range models.AgeBrackets {
		assert.Equal(t, len(ComputeView(students, models.StudentFilter{Age: bracket})), stats.Count(bracket), string(bracket))
	}
}

func TestRecentEnrollmentsWindowAndOrder(t *testing.T) {
	now := day(2024, time.June, 15)
	boundary := student("b", "Limite", 3, models.StudentStatusActive, now.Add(-models.RecentEnrollmentWindow))
	students := append(reportFixture(now), boundary)

	recent := RecentEnrollments(students, now)
	assert.Equal(t, []string{"Ana", "Duda", "Bia", "Limite"}, names(recent))
}

func TestRecentEnrollmentsCountsTodayBeforeNoon(t *testing.T) {
	enrolled, err := format.ParseInputDate("2025-06-15", saoPaulo)
	require.NoError(t, err)
	morning := time.Date(2025, time.June, 15, 9, 0, 0, 0, saoPaulo)
	students := []models.Student{
		student("1", "Hoje", 1, models.StudentStatusActive, enrolled),
		student("2", "Amanhã", 1, models.StudentStatusActive, enrolled.AddDate(0, 0, 1)),
	}

	assert.Equal(t, 1, ComputeStats(students, morning).RecentEnrollments)
	assert.Equal(t, []string{"Hoje"}, names(RecentEnrollments(students, morning)))

	// 12:00 UTC is 09:00 in São Paulo; the calendar day comes from the configured location.
	svc := NewReportService(newMockStudentRepo(students...), nil, nil, ReportServiceConfig{
		Location: saoPaulo,
		Now:      func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) },
	}, nil, nil, nil)
	recent, err := svc.Recent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hoje"}, names(recent))

	file, err := svc.Export(context.Background(), "recent", models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, file.Rows)
}

func TestParseExportSelection(t *testing.T) {
	selection, bracket, err := ParseExportSelection("age:2-3")
	require.NoError(t, err)
	assert.Equal(t, models.ExportSelectionAge, selection)
	assert.Equal(t, models.AgeBracketToddler, bracket)

	selection, _, err = ParseExportSelection("")
	require.NoError(t, err)
	assert.Equal(t, models.ExportSelectionAll, selection)

	_, _, err = ParseExportSelection("age:7-8")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedExportType)
	_, _, err = ParseExportSelection("everything")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedExportType)
}

func TestSelectForExportStems(t *testing.T) {
	now := day(2024, time.June, 15)
	students := reportFixture(now)
	cases := []struct {
		selection models.ExportSelection
		bracket   models.AgeBracket
		stem      string
		count     int
	}{
		{models.ExportSelectionAll, "", "relatorio-completo", 5},
		{models.ExportSelectionActive, "", "alunos-ativos", 3},
		{models.ExportSelectionInactive, "", "alunos-inativos", 2},
		{models.ExportSelectionAge, models.AgeBracketSchool, "alunos-6+-anos", 2},
		{models.ExportSelectionAge, models.AgeBracketToddler, "alunos-2-3-anos", 1},
		{models.ExportSelectionRecent, "", "matriculas-recentes", 3},
	}
	for _, tc := range cases {
		subset, err := SelectForExport(students, tc.selection, tc.bracket, now)
		require.NoError(t, err)
		assert.Equal(t, tc.stem, subset.Stem)
		assert.Len(t, subset.Students, tc.count, tc.stem)
	}

	_, err := SelectForExport(students, models.ExportSelectionAge, "", now)
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedExportType)
}

func TestExportFilenameUsesUTCDate(t *testing.T) {
	late := time.Date(2024, time.June, 15, 22, 30, 0, 0, saoPaulo)
	assert.Equal(t, "alunos-ativos_2024-06-16.csv", ExportFilename("alunos-ativos", models.ReportFormatCSV, late))
}

func TestRenderTwoRowCSV(t *testing.T) {
	now := day(2024, time.June, 15)
	svc := NewReportService(newMockStudentRepo(), nil, nil, ReportServiceConfig{Location: saoPaulo, Now: func() time.Time { return now }}, nil, nil, nil)

	first := student("1", "Ana, a primeira", 3, models.StudentStatusActive, day(2024, time.June, 1))
	first.Allergies = []string{"leite", "ovo"}
	first.MedicalInfo = `usa "bombinha"`
	second := student("2", "Bia", 4, models.StudentStatusInactive, day(2024, time.May, 2))

	file, err := svc.Render(ExportSubset{Selection: models.ExportSelectionList, Stem: StudentListStem, Students: []models.Student{first, second}}, models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "lista-alunos_2024-06-15.csv", file.Filename)
	assert.Equal(t, 2, file.Rows)
	assert.Contains(t, string(file.Payload), "\r\n")

	records, err := csv.NewReader(strings.NewReader(string(file.Payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, "Ana, a primeira", records[1][0])
	assert.Equal(t, "3", records[1][1])
	assert.Equal(t, "01/01/2020", records[1][2])
	assert.Equal(t, "(11) 99999-8888", records[1][4])
	assert.Equal(t, `usa "bombinha"`, records[1][7])
	assert.Equal(t, "leite, ovo", records[1][8])
	assert.Equal(t, "(11) 3333-4444", records[1][10])
	assert.Equal(t, "01/06/2024", records[1][11])
	assert.Equal(t, "Ativo", records[1][12])
	assert.Equal(t, "Inativo", records[2][12])
	assert.Equal(t, "(11) 99999-8888", records[2][4])
}

func TestRenderPDF(t *testing.T) {
	svc := NewReportService(newMockStudentRepo(), nil, nil, ReportServiceConfig{}, nil, nil, nil)
	file, err := svc.Render(ExportSubset{Stem: "relatorio-completo", Students: reportFixture(time.Now())}, models.ReportFormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(newMockStudentRepo(), nil, nil, ReportServiceConfig{}, nil, nil, nil)
	_, err := svc.Render(ExportSubset{Stem: "x"}, models.ReportFormat("xlsx"))
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedExportType)
}

func TestReportServiceExportSelection(t *testing.T) {
	now := day(2024, time.June, 15)
	repo := newMockStudentRepo(reportFixture(now)...)
	svc := NewReportService(repo, nil, nil, ReportServiceConfig{Location: saoPaulo, Now: func() time.Time { return now }}, nil, nil, nil)

	file, err := svc.Export(context.Background(), "inactive", models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "alunos-inativos_2024-06-15.csv", file.Filename)
	assert.Equal(t, 2, file.Rows)
}

func TestReportServiceStatsUsesCache(t *testing.T) {
	now := day(2024, time.June, 15)
	repo := newMockStudentRepo(reportFixture(now)...)
	cacheRepo := newMockCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewReportService(repo, cache, nil, ReportServiceConfig{Now: func() time.Time { return now }}, nil, nil, nil)
	ctx := context.Background()

	stats, hit, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 5, stats.Total)

	repo.err = errors.New("store offline")
	stats, hit, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 5, stats.Total)

	svc.InvalidateStats(ctx)
	assert.Equal(t, []string{"reports:*"}, cacheRepo.invalidated)
	_, _, err = svc.Stats(ctx)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
