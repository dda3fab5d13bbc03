package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/creche-api/internal/models"
	"github.com/noah-isme/creche-api/pkg/format"
)

// StudentForm is the registration/edit payload. Dates are date-input strings (YYYY-MM-DD);
// allergies arrive as a comma separated string.
type StudentForm struct {
	Name             string       `json:"name" validate:"min=2"`
	BirthDate        string       `json:"birthDate" validate:"required,datetime=2006-01-02"`
	ParentName       string       `json:"parentName" validate:"min=2"`
	ParentPhone      string       `json:"parentPhone" validate:"phone_digits"`
	ParentEmail      string       `json:"parentEmail" validate:"required,email"`
	Address          string       `json:"address" validate:"min=10"`
	MedicalInfo      string       `json:"medicalInfo"`
	Allergies        string       `json:"allergies"`
	EmergencyContact string       `json:"emergencyContact" validate:"min=2"`
	EmergencyPhone   string       `json:"emergencyPhone" validate:"phone_digits"`
	EnrollmentDate   string       `json:"enrollmentDate" validate:"required,datetime=2006-01-02"`
	Status           string       `json:"status" validate:"oneof=active inactive"`
	Profile          *ProfileForm `json:"profile" validate:"omitempty"`
}

// ProfileForm is the optional socioeconomic section of the complete registration form.
type ProfileForm struct {
	IdentityDocument string `json:"identityDocument"`
	Sex              string `json:"sex"`
	Race             string `json:"race"`
	Twin             bool   `json:"twin"`

	Health            models.HealthInfo       `json:"health"`
	PrimaryGuardian   GuardianForm            `json:"primaryGuardian"`
	SecondaryGuardian *GuardianForm           `json:"secondaryGuardian" validate:"omitempty"`
	Benefits          models.Benefits         `json:"benefits"`
	Address           models.AddressDetail    `json:"address"`
	BirthCertificate  models.BirthCertificate `json:"birthCertificate"`
	Housing           HousingForm             `json:"housing"`
	HouseholdItems    models.HouseholdItems   `json:"householdItems"`

	FamilyComposition string  `json:"familyComposition"`
	TotalFamilyIncome float64 `json:"totalFamilyIncome" validate:"gte=0"`
	PerCapitaIncome   float64 `json:"perCapitaIncome" validate:"gte=0"`

	Grade             string `json:"grade"`
	SchoolYear        string `json:"schoolYear"`
	AuthorizedPickups string `json:"authorizedPickups"`
}

// GuardianForm validates a guardian block; contact must be a usable phone when given.
type GuardianForm struct {
	Name      string `json:"name" validate:"omitempty,min=2"`
	CPF       string `json:"cpf" validate:"omitempty,len=11,numeric"`
	RG        string `json:"rg"`
	Contact   string `json:"contact" validate:"omitempty,phone_digits"`
	Workplace string `json:"workplace"`
}

// HousingForm validates the housing block.
type HousingForm struct {
	DwellingType string `json:"dwellingType"`
	Rooms        int    `json:"rooms" validate:"gte=0"`
	FloorType    string `json:"floorType"`
	Sanitation   string `json:"sanitation"`
}

// ToModel converts the validated profile into the stored shape.
func (p *ProfileForm) ToModel() *models.StudentProfile {
	if p == nil {
		return nil
	}
	profile := &models.StudentProfile{
		IdentityDocument:  p.IdentityDocument,
		Sex:               p.Sex,
		Race:              p.Race,
		Twin:              p.Twin,
		Health:            p.Health,
		PrimaryGuardian:   p.PrimaryGuardian.toModel(),
		Benefits:          p.Benefits,
		Address:           p.Address,
		BirthCertificate:  p.BirthCertificate,
		HouseholdItems:    p.HouseholdItems,
		FamilyComposition: p.FamilyComposition,
		TotalFamilyIncome: p.TotalFamilyIncome,
		PerCapitaIncome:   p.PerCapitaIncome,
		Grade:             p.Grade,
		SchoolYear:        p.SchoolYear,
		AuthorizedPickups: p.AuthorizedPickups,
		Housing: models.Housing{
			DwellingType: p.Housing.DwellingType,
			Rooms:        p.Housing.Rooms,
			FloorType:    p.Housing.FloorType,
			Sanitation:   p.Housing.Sanitation,
		},
	}
	if p.SecondaryGuardian != nil && p.SecondaryGuardian.Name != "" {
		g := p.SecondaryGuardian.toModel()
		profile.SecondaryGuardian = &g
	}
	return profile
}

func (g GuardianForm) toModel() models.Guardian {
	return models.Guardian{
		Name:      g.Name,
		CPF:       g.CPF,
		RG:        g.RG,
		Contact:   g.Contact,
		Workplace: g.Workplace,
	}
}

// FormFromStudent prefills the edit form from a stored record. Dates render as date-input
// strings in loc so an unchanged resubmission stores the same calendar days.
func FormFromStudent(s models.Student, loc *time.Location) StudentForm {
	form := StudentForm{
		Name:             s.Name,
		BirthDate:        format.InputDate(s.BirthDate, loc),
		ParentName:       s.ParentName,
		ParentPhone:      s.ParentPhone,
		ParentEmail:      s.ParentEmail,
		Address:          s.Address,
		MedicalInfo:      s.MedicalInfo,
		Allergies:        strings.Join(s.Allergies, ", "),
		EmergencyContact: s.EmergencyContact,
		EmergencyPhone:   s.EmergencyPhone,
		EnrollmentDate:   format.InputDate(s.EnrollmentDate, loc),
		Status:           string(s.Status),
	}
	if p := s.Profile; p != nil {
		form.Profile = &ProfileForm{
			IdentityDocument:  p.IdentityDocument,
			Sex:               p.Sex,
			Race:              p.Race,
			Twin:              p.Twin,
			Health:            p.Health,
			PrimaryGuardian:   guardianForm(p.PrimaryGuardian),
			Benefits:          p.Benefits,
			Address:           p.Address,
			BirthCertificate:  p.BirthCertificate,
			HouseholdItems:    p.HouseholdItems,
			FamilyComposition: p.FamilyComposition,
			TotalFamilyIncome: p.TotalFamilyIncome,
			PerCapitaIncome:   p.PerCapitaIncome,
			Grade:             p.Grade,
			SchoolYear:        p.SchoolYear,
			AuthorizedPickups: p.AuthorizedPickups,
			Housing: HousingForm{
				DwellingType: p.Housing.DwellingType,
				Rooms:        p.Housing.Rooms,
				FloorType:    p.Housing.FloorType,
				Sanitation:   p.Housing.Sanitation,
			},
		}
		if p.SecondaryGuardian != nil {
			g := guardianForm(*p.SecondaryGuardian)
			form.Profile.SecondaryGuardian = &g
		}
	}
	return form
}

func guardianForm(g models.Guardian) GuardianForm {
	return GuardianForm{Name: g.Name, CPF: g.CPF, RG: g.RG, Contact: g.Contact, Workplace: g.Workplace}
}
