package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/creche-api/internal/dto"
	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
	"github.com/noah-isme/creche-api/pkg/format"
	"github.com/noah-isme/creche-api/pkg/middleware/requestid"
	"github.com/noah-isme/creche-api/pkg/validation"
)

type studentRepository interface {
	ListOrderedByName(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Replace(ctx context.Context, student *models.Student) error
}

// SubmissionGate allows one in-flight submission per form token.
type SubmissionGate interface {
	Acquire(ctx context.Context, token string, ttl time.Duration) (lease string, ok bool, err error)
	Release(ctx context.Context, token, lease string) error
}

type statsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateStats(context.Context) {}

// StudentServiceConfig carries the clock and calendar settings for the lifecycle.
type StudentServiceConfig struct {
	Location *time.Location
	Now      func() time.Time
	GateTTL  time.Duration
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	gate      SubmissionGate
	reports   statsInvalidator
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	cfg       StudentServiceConfig
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, gate SubmissionGate, reports statsInvalidator, metrics *MetricsService, validate *validation.Validator, cfg StudentServiceConfig, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.GateTTL <= 0 {
		cfg.GateTTL = 30 * time.Second
	}
	if reports == nil {
		reports = noopInvalidator{}
	}
	return &StudentService{repo: repo, gate: gate, reports: reports, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List re-fetches the collection and applies the filters.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		s.logger.Error("failed to list students", zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return ComputeView(students, filter), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("failed to load student", zap.String("request_id", requestid.FromContext(ctx)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student. token is the optional form token guarding resubmission.
func (s *StudentService) Create(ctx context.Context, form dto.StudentForm, token string) (*models.Student, error) {
	if form.Status == "" {
		form.Status = string(models.StudentStatusActive)
	}
	if err := s.validate(form); err != nil {
		return nil, err
	}
	release, err := s.acquire(ctx, token)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.cfg.Now()
	student := &models.Student{}
	if err := s.apply(student, form, now); err != nil {
		return nil, err
	}
	student.CreatedAt = now
	student.UpdatedAt = now

	if err := s.repo.Create(ctx, student); err != nil {
		s.logger.Error("failed to create student", zap.String("request_id", requestid.FromContext(ctx)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.metrics.RecordStudentCreated()
	s.reports.InvalidateStats(ctx)
	s.logger.Info("student created", zap.String("id", student.ID))
	return student, nil
}

// Update replaces every form field of an existing student. createdAt is preserved.
func (s *StudentService) Update(ctx context.Context, id string, form dto.StudentForm, token string) (*models.Student, error) {
	if err := s.validate(form); err != nil {
		return nil, err
	}
	release, err := s.acquire(ctx, token)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now()
	student := &models.Student{ID: existing.ID, CreatedAt: existing.CreatedAt}
	if err := s.apply(student, form, now); err != nil {
		return nil, err
	}
	student.UpdatedAt = now

	if err := s.repo.Replace(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("failed to update student", zap.String("request_id", requestid.FromContext(ctx)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.metrics.RecordStudentUpdated()
	s.reports.InvalidateStats(ctx)
	s.logger.Info("student updated", zap.String("id", student.ID))
	return student, nil
}

// ListSubset selects the filtered list for export under the list stem.
func (s *StudentService) ListSubset(ctx context.Context, filter models.StudentFilter) (ExportSubset, error) {
	students, err := s.List(ctx, filter)
	if err != nil {
		return ExportSubset{}, err
	}
	return ExportSubset{Selection: models.ExportSelectionList, Stem: StudentListStem, Students: students}, nil
}

func (s *StudentService) validate(form dto.StudentForm) error {
	if err := s.validator.Struct(form); err != nil {
		appErr := appErrors.WithDetails(appErrors.ErrValidation, s.validator.Translate(err))
		appErr.Err = err
		return appErr
	}
	return nil
}

// apply normalizes the form onto student: dates at local noon, age against now, allergies split.
func (s *StudentService) apply(student *models.Student, form dto.StudentForm, now time.Time) error {
	birth, err := format.ParseInputDate(form.BirthDate, s.cfg.Location)
	if err != nil {
		return appErrors.WithDetails(appErrors.ErrValidation, map[string]string{"birthDate": err.Error()})
	}
	enrollment, err := format.ParseInputDate(form.EnrollmentDate, s.cfg.Location)
	if err != nil {
		return appErrors.WithDetails(appErrors.ErrValidation, map[string]string{"enrollmentDate": err.Error()})
	}

	student.Name = form.Name
	student.BirthDate = birth
	student.Age = format.Age(birth, now)
	student.ParentName = form.ParentName
	student.ParentPhone = form.ParentPhone
	student.ParentEmail = form.ParentEmail
	student.Address = form.Address
	student.MedicalInfo = form.MedicalInfo
	student.Allergies = format.SplitAllergies(form.Allergies)
	student.EmergencyContact = form.EmergencyContact
	student.EmergencyPhone = form.EmergencyPhone
	student.EnrollmentDate = enrollment
	student.Status = models.StudentStatus(form.Status)
	student.Profile = form.Profile.ToModel()
	return nil
}

// acquire claims the form token. Without a token there is nothing to gate.
func (s *StudentService) acquire(ctx context.Context, token string) (func(), error) {
	noop := func() {}
	if token == "" || s.gate == nil {
		return noop, nil
	}
	lease, ok, err := s.gate.Acquire(ctx, token, s.cfg.GateTTL)
	if err != nil {
		s.logger.Warn("submission gate unavailable", zap.Error(err))
		return noop, nil
	}
	if !ok {
		s.metrics.RecordDuplicateSubmission()
		return nil, appErrors.ErrSubmissionInProgress
	}
	return func() {
		if err := s.gate.Release(context.WithoutCancel(ctx), token, lease); err != nil {
			s.logger.Warn("failed to release submission token", zap.Error(err))
		}
	}, nil
}
