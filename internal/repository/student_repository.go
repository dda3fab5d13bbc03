package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/creche-api/internal/models"
)

// StudentRepository persists student documents.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListOrderedByName returns the full collection sorted by name.
func (r *StudentRepository) ListOrderedByName(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, name, document, created_at, updated_at FROM students ORDER BY name ASC, id ASC`
	var rows []studentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		student, err := row.toStudent()
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}

// FindByID fetches a single student. A missing record returns sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, name, document, created_at, updated_at FROM students WHERE id = $1`
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	student, err := row.toStudent()
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and assigns its id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	row, err := toStudentRow(student)
	if err != nil {
		return err
	}
	const query = `INSERT INTO students (id, name, document, created_at, updated_at)
        VALUES (:id, :name, :document, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Replace overwrites every mutable field of an existing student. created_at is never written.
func (r *StudentRepository) Replace(ctx context.Context, student *models.Student) error {
	row, err := toStudentRow(student)
	if err != nil {
		return err
	}
	const query = `UPDATE students SET name = :name, document = :document, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("replace student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
