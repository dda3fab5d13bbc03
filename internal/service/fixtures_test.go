package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, saoPaulo)
}

type mockStudentRepo struct {
	mu        sync.Mutex
	students  map[string]models.Student
	nextID    int
	err       error
	createErr error
	replaced  []models.Student
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	repo := &mockStudentRepo{students: make(map[string]models.Student)}
	for _, s := range students {
		repo.students[s.ID] = s
	}
	return repo
}

func (m *mockStudentRepo) ListOrderedByName(ctx context.Context) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	list := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	student.ID = fmt.Sprintf("generated-%d", m.nextID)
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Replace(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	m.students[student.ID] = *student
	m.replaced = append(m.replaced, *student)
	return nil
}

type mockCacheRepo struct {
	values      map[string]interface{}
	invalidated []string
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{values: make(map[string]interface{})}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	stats, ok := value.(models.StudentStats)
	target, okDest := dest.(*models.StudentStats)
	if !ok || !okDest {
		return errors.New("unexpected cache type")
	}
	*target = stats
	return nil
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.values = make(map[string]interface{})
	return nil
}

type mockGate struct {
	held     map[string]bool
	released []string
}

func (g *mockGate) Acquire(ctx context.Context, token string, ttl time.Duration) (string, bool, error) {
	if g.held == nil {
		g.held = make(map[string]bool)
	}
	if g.held[token] {
		return "", false, nil
	}
	g.held[token] = true
	return "lease-" + token, true, nil
}

func (g *mockGate) Release(ctx context.Context, token, lease string) error {
	delete(g.held, token)
	g.released = append(g.released, token)
	return nil
}

func student(id, name string, age int, status models.StudentStatus, enrolled time.Time) models.Student {
	return models.Student{
		ID:             id,
		Name:           name,
		Age:            age,
		ParentName:     "Responsável de " + name,
		ParentPhone:    "11999998888",
		EmergencyPhone: "1133334444",
		Status:         status,
		EnrollmentDate: enrolled,
		BirthDate:      day(2020, time.January, 1),
		Allergies:      []string{},
	}
}
