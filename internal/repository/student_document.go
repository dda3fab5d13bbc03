package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/creche-api/internal/models"
)

// studentRow is the persisted shape: indexable columns plus the JSON document.
type studentRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Document  string    `db:"document"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// studentDocument is the JSON body of a student record. Dates are stored as instants.
type studentDocument struct {
	Name             string                 `json:"name"`
	BirthDate        time.Time              `json:"birthDate"`
	Age              int                    `json:"age"`
	ParentName       string                 `json:"parentName"`
	ParentPhone      string                 `json:"parentPhone"`
	ParentEmail      string                 `json:"parentEmail"`
	Address          string                 `json:"address"`
	MedicalInfo      string                 `json:"medicalInfo,omitempty"`
	Allergies        []string               `json:"allergies"`
	EmergencyContact string                 `json:"emergencyContact"`
	EmergencyPhone   string                 `json:"emergencyPhone"`
	EnrollmentDate   time.Time              `json:"enrollmentDate"`
	Status           models.StudentStatus   `json:"status"`
	Profile          *models.StudentProfile `json:"profile,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func toStudentRow(s *models.Student) (studentRow, error) {
	allergies := s.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	doc := studentDocument{
		Name:             s.Name,
		BirthDate:        s.BirthDate.UTC(),
		Age:              s.Age,
		ParentName:       s.ParentName,
		ParentPhone:      s.ParentPhone,
		ParentEmail:      s.ParentEmail,
		Address:          s.Address,
		MedicalInfo:      s.MedicalInfo,
		Allergies:        allergies,
		EmergencyContact: s.EmergencyContact,
		EmergencyPhone:   s.EmergencyPhone,
		EnrollmentDate:   s.EnrollmentDate.UTC(),
		Status:           s.Status,
		Profile:          s.Profile,
		CreatedAt:        s.CreatedAt.UTC(),
		UpdatedAt:        s.UpdatedAt.UTC(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return studentRow{}, fmt.Errorf("encode student document: %w", err)
	}
	return studentRow{
		ID:        s.ID,
		Name:      s.Name,
		Document:  string(raw),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// toStudent maps a stored row back into the entity. Row columns win over document copies for
// id and timestamps; a missing allergy list decodes as empty.
func (r studentRow) toStudent() (models.Student, error) {
	var doc studentDocument
	if err := json.Unmarshal([]byte(r.Document), &doc); err != nil {
		return models.Student{}, fmt.Errorf("decode student document %s: %w", r.ID, err)
	}
	allergies := doc.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	name := doc.Name
	if name == "" {
		name = r.Name
	}
	return models.Student{
		ID:               r.ID,
		Name:             name,
		BirthDate:        doc.BirthDate,
		Age:              doc.Age,
		ParentName:       doc.ParentName,
		ParentPhone:      doc.ParentPhone,
		ParentEmail:      doc.ParentEmail,
		Address:          doc.Address,
		MedicalInfo:      doc.MedicalInfo,
		Allergies:        allergies,
		EmergencyContact: doc.EmergencyContact,
		EmergencyPhone:   doc.EmergencyPhone,
		EnrollmentDate:   doc.EnrollmentDate,
		Status:           doc.Status,
		Profile:          doc.Profile,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}
