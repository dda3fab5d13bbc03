package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
	"github.com/noah-isme/creche-api/pkg/export"
	"github.com/noah-isme/creche-api/pkg/format"
	"github.com/noah-isme/creche-api/pkg/middleware/requestid"
)

const (
	statsCacheKey       = "reports:stats"
	reportsCachePattern = "reports:*"

	// StudentListStem names exports of the filtered student list.
	StudentListStem = "lista-alunos"
)

// Column headers of every student export, in order.
const (
	colName             = "Nome"
	colAge              = "Idade"
	colBirthDate        = "Data de Nascimento"
	colParentName       = "Nome do Responsável"
	colParentPhone      = "Telefone do Responsável"
	colParentEmail      = "Email do Responsável"
	colAddress          = "Endereço"
	colMedicalInfo      = "Informações Médicas"
	colAllergies        = "Alergias"
	colEmergencyContact = "Contato de Emergência"
	colEmergencyPhone   = "Telefone de Emergência"
	colEnrollmentDate   = "Data de Matrícula"
	colStatus           = "Status"
)

var exportHeaders = []string{
	colName, colAge, colBirthDate, colParentName, colParentPhone, colParentEmail, colAddress,
	colMedicalInfo, colAllergies, colEmergencyContact, colEmergencyPhone, colEnrollmentDate, colStatus,
}

type studentLister interface {
	ListOrderedByName(ctx context.Context) ([]models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
}

// ReportServiceConfig tunes report computation.
type ReportServiceConfig struct {
	Location *time.Location
	CacheTTL time.Duration
	Now      func() time.Time
}

// ReportService aggregates the student collection and renders exports.
type ReportService struct {
	students studentLister
	cache    *CacheService
	metrics  *MetricsService
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	cfg      ReportServiceConfig
}

// ExportSubset is a selected group of students and the file stem it exports under.
type ExportSubset struct {
	Selection models.ExportSelection
	Stem      string
	Students  []models.Student
}

// NewReportService constructs a ReportService.
func NewReportService(students studentLister, cache *CacheService, metrics *MetricsService, cfg ReportServiceConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{students: students, cache: cache, metrics: metrics, csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

// ComputeStats counts the collection by status, age bracket and recent enrollment.
func ComputeStats(students []models.Student, now time.Time) models.StudentStats {
	stats := models.StudentStats{
		Total:      len(students),
		ByAge:      make([]models.AgeBucket, len(models.AgeBrackets)),
		ComputedAt: now.UTC(),
	}
	for i, bracket := range models.AgeBrackets {
		stats.ByAge[i].Bracket = bracket
	}
	for _, student := range students {
		switch student.Status {
		case models.StudentStatusActive:
			stats.Active++
		case models.StudentStatusInactive:
			stats.Inactive++
		}
		for i, bracket := range models.AgeBrackets {
			if bracket.Contains(student.Age) {
				stats.ByAge[i].Count++
			}
		}
		if isRecentEnrollment(student, now) {
			stats.RecentEnrollments++
		}
	}
	return stats
}

// isRecentEnrollment reports enrollmentDate within the last 30 days, counting all of
// today in now's location. Dates are stored at local noon.
func isRecentEnrollment(student models.Student, now time.Time) bool {
	from := now.Add(-models.RecentEnrollmentWindow)
	year, month, d := now.Date()
	tomorrow := time.Date(year, month, d+1, 0, 0, 0, 0, now.Location())
	return !student.EnrollmentDate.Before(from) && student.EnrollmentDate.Before(tomorrow)
}

// RecentEnrollments returns the recent subset, newest enrollment first.
func RecentEnrollments(students []models.Student, now time.Time) []models.Student {
	recent := make([]models.Student, 0)
	for _, student := range students {
		if isRecentEnrollment(student, now) {
			recent = append(recent, student)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].EnrollmentDate.After(recent[j].EnrollmentDate)
	})
	return recent
}

// ParseExportSelection reads "all", "active", "inactive", "recent" or "age:<bracket>".
func ParseExportSelection(raw string) (models.ExportSelection, models.AgeBracket, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.ExportSelectionAll, "", nil
	}
	if rest, ok := strings.CutPrefix(raw, string(models.ExportSelectionAge)+":"); ok {
		bracket, valid := models.ParseAgeBracket(rest)
		if !valid {
			return "", "", appErrors.Clone(appErrors.ErrUnsupportedExportType, fmt.Sprintf("unknown age bracket %q", rest))
		}
		return models.ExportSelectionAge, bracket, nil
	}
	switch selection := models.ExportSelection(raw); selection {
	case models.ExportSelectionAll, models.ExportSelectionActive, models.ExportSelectionInactive, models.ExportSelectionRecent:
		return selection, "", nil
	}
	return "", "", appErrors.Clone(appErrors.ErrUnsupportedExportType, fmt.Sprintf("unknown export selection %q", raw))
}

// SelectForExport picks the subset for a report export and its file stem.
func SelectForExport(students []models.Student, selection models.ExportSelection, bracket models.AgeBracket, now time.Time) (ExportSubset, error) {
	subset := ExportSubset{Selection: selection}
	switch selection {
	case models.ExportSelectionAll:
		subset.Stem = "relatorio-completo"
		subset.Students = students
	case models.ExportSelectionActive:
		subset.Stem = "alunos-ativos"
		subset.Students = ComputeView(students, models.StudentFilter{Status: models.StudentStatusActive})
	case models.ExportSelectionInactive:
		subset.Stem = "alunos-inativos"
		subset.Students = ComputeView(students, models.StudentFilter{Status: models.StudentStatusInactive})
	case models.ExportSelectionAge:
		if _, ok := models.ParseAgeBracket(string(bracket)); !ok {
			return ExportSubset{}, appErrors.Clone(appErrors.ErrUnsupportedExportType, "age export requires a bracket")
		}
		subset.Stem = fmt.Sprintf("alunos-%s-anos", bracket)
		subset.Students = ComputeView(students, models.StudentFilter{Age: bracket})
	case models.ExportSelectionRecent:
		subset.Stem = "matriculas-recentes"
		subset.Students = RecentEnrollments(students, now)
	default:
		return ExportSubset{}, appErrors.Clone(appErrors.ErrUnsupportedExportType, fmt.Sprintf("unknown export selection %q", selection))
	}
	return subset, nil
}

// ExportFilename builds "{stem}_{YYYY-MM-DD}.{ext}" using the UTC date of export.
func ExportFilename(stem string, reportFormat models.ReportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", stem, now.UTC().Format("2006-01-02"), reportFormat)
}

// BuildStudentDataset maps students onto the fixed export columns.
func BuildStudentDataset(students []models.Student, loc *time.Location) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, map[string]string{
			colName:             s.Name,
			colAge:              strconv.Itoa(s.Age),
			colBirthDate:        format.Date(s.BirthDate, loc),
			colParentName:       s.ParentName,
			colParentPhone:      format.Phone(s.ParentPhone),
			colParentEmail:      s.ParentEmail,
			colAddress:          s.Address,
			colMedicalInfo:      s.MedicalInfo,
			colAllergies:        strings.Join(s.Allergies, ", "),
			colEmergencyContact: s.EmergencyContact,
			colEmergencyPhone:   format.Phone(s.EmergencyPhone),
			colEnrollmentDate:   format.Date(s.EnrollmentDate, loc),
			colStatus:           format.StatusLabel(string(s.Status)),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

// Stats returns report statistics, from cache when available. The bool reports a cache hit.
func (s *ReportService) Stats(ctx context.Context) (*models.StudentStats, bool, error) {
	var cached models.StudentStats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	students, err := s.fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	stats := ComputeStats(students, s.now())
	_ = s.cache.Set(ctx, statsCacheKey, stats, s.cfg.CacheTTL)
	return &stats, false, nil
}

// Recent lists students enrolled in the last 30 days, newest first.
func (s *ReportService) Recent(ctx context.Context) ([]models.Student, error) {
	students, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return RecentEnrollments(students, s.now()), nil
}

// Export renders the selected subset of the collection.
func (s *ReportService) Export(ctx context.Context, rawSelection string, reportFormat models.ReportFormat) (*models.ExportFile, error) {
	selection, bracket, err := ParseExportSelection(rawSelection)
	if err != nil {
		return nil, err
	}
	students, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	subset, err := SelectForExport(students, selection, bracket, s.now())
	if err != nil {
		return nil, err
	}
	return s.Render(subset, reportFormat)
}

func (s *ReportService) now() time.Time {
	return s.cfg.Now().In(s.cfg.Location)
}

// Render produces the export file for an already selected subset.
func (s *ReportService) Render(subset ExportSubset, reportFormat models.ReportFormat) (*models.ExportFile, error) {
	if reportFormat == "" {
		reportFormat = models.ReportFormatCSV
	}
	dataset := BuildStudentDataset(subset.Students, s.cfg.Location)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch reportFormat {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = s.csv.ContentType()
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Relatório de alunos (%s)", subset.Stem))
		contentType = s.pdf.ContentType()
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedExportType, fmt.Sprintf("unsupported format %q", reportFormat))
	}
	if err != nil {
		s.logger.Error("render export failed", zap.String("stem", subset.Stem), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.metrics.RecordExport(reportFormat, subset.Selection)
	return &models.ExportFile{
		Filename:    ExportFilename(subset.Stem, reportFormat, s.cfg.Now()),
		ContentType: contentType,
		Rows:        len(subset.Students),
		Payload:     payload,
	}, nil
}

// InvalidateStats drops cached report data after a write.
func (s *ReportService) InvalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, reportsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}

func (s *ReportService) fetch(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.ListOrderedByName(ctx)
	if err != nil {
		s.logger.Error("failed to load students", zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return students, nil
}
