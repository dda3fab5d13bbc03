package models

import "time"

// StudentStatus is the enrollment state of a student.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Valid reports whether the status is one of the known values.
func (s StudentStatus) Valid() bool {
	return s == StudentStatusActive || s == StudentStatusInactive
}

// Student represents a child enrolled in the institution.
// Age is a snapshot taken at the last create/update and is not re-derived on read.
type Student struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	BirthDate        time.Time       `json:"birthDate"`
	Age              int             `json:"age"`
	ParentName       string          `json:"parentName"`
	ParentPhone      string          `json:"parentPhone"`
	ParentEmail      string          `json:"parentEmail"`
	Address          string          `json:"address"`
	MedicalInfo      string          `json:"medicalInfo,omitempty"`
	Allergies        []string        `json:"allergies"`
	EmergencyContact string          `json:"emergencyContact"`
	EmergencyPhone   string          `json:"emergencyPhone"`
	EnrollmentDate   time.Time       `json:"enrollmentDate"`
	Status           StudentStatus   `json:"status"`
	Profile          *StudentProfile `json:"profile,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// StudentProfile carries the socioeconomic enrollment data collected by the complete
// registration form. It is stored as part of the student document only.
type StudentProfile struct {
	IdentityDocument string `json:"identityDocument,omitempty"`
	Sex              string `json:"sex,omitempty"`
	Race             string `json:"race,omitempty"`
	Twin             bool   `json:"twin"`

	Health            HealthInfo       `json:"health"`
	PrimaryGuardian   Guardian         `json:"primaryGuardian"`
	SecondaryGuardian *Guardian        `json:"secondaryGuardian,omitempty"`
	Benefits          Benefits         `json:"benefits"`
	Address           AddressDetail    `json:"address"`
	BirthCertificate  BirthCertificate `json:"birthCertificate"`
	Housing           Housing          `json:"housing"`
	HouseholdItems    HouseholdItems   `json:"householdItems"`

	FamilyComposition string  `json:"familyComposition,omitempty"`
	TotalFamilyIncome float64 `json:"totalFamilyIncome"`
	PerCapitaIncome   float64 `json:"perCapitaIncome"`

	Grade             string `json:"grade,omitempty"`
	SchoolYear        string `json:"schoolYear,omitempty"`
	AuthorizedPickups string `json:"authorizedPickups,omitempty"`
}

type HealthInfo struct {
	SUSCard              string `json:"susCard,omitempty"`
	HealthUnit           string `json:"healthUnit,omitempty"`
	HealthProblems       string `json:"healthProblems,omitempty"`
	DietaryRestrictions  string `json:"dietaryRestrictions,omitempty"`
	ReducedMobility      bool   `json:"reducedMobility"`
	MultipleDisabilities bool   `json:"multipleDisabilities"`
	SpecialEducation     bool   `json:"specialEducation"`
}

type Guardian struct {
	Name      string `json:"name"`
	CPF       string `json:"cpf,omitempty"`
	RG        string `json:"rg,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Workplace string `json:"workplace,omitempty"`
}

type Benefits struct {
	ReceivesBenefit bool   `json:"receivesBenefit"`
	BenefitType     string `json:"benefitType,omitempty"`
	NIS             string `json:"nis,omitempty"`
}

type AddressDetail struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zipCode,omitempty"`
	Reference  string `json:"reference,omitempty"`
	HomePhone  string `json:"homePhone,omitempty"`
}

type BirthCertificate struct {
	Registration string `json:"registration,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Registry     string `json:"registry,omitempty"`
	CPF          string `json:"cpf,omitempty"`
	RG           string `json:"rg,omitempty"`
	IssueDate    string `json:"issueDate,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
}

type Housing struct {
	DwellingType string `json:"dwellingType,omitempty"`
	Rooms        int    `json:"rooms"`
	FloorType    string `json:"floorType,omitempty"`
	Sanitation   string `json:"sanitation,omitempty"`
}

type HouseholdItems struct {
	TV             bool `json:"tv"`
	DVD            bool `json:"dvd"`
	Radio          bool `json:"radio"`
	Computer       bool `json:"computer"`
	Notebook       bool `json:"notebook"`
	Landline       bool `json:"landline"`
	Mobile         bool `json:"mobile"`
	Tablet         bool `json:"tablet"`
	Internet       bool `json:"internet"`
	CableTV        bool `json:"cableTv"`
	Stove          bool `json:"stove"`
	Fridge         bool `json:"fridge"`
	Freezer        bool `json:"freezer"`
	Microwave      bool `json:"microwave"`
	Washer         bool `json:"washer"`
	AirConditioner bool `json:"airConditioner"`
	Bicycle        bool `json:"bicycle"`
	Motorcycle     bool `json:"motorcycle"`
	Car            bool `json:"car"`
}

// AgeBracket is one of the fixed age ranges shared by list filtering and reporting.
type AgeBracket string

const (
	AgeBracketInfant    AgeBracket = "0-1"
	AgeBracketToddler   AgeBracket = "2-3"
	AgeBracketPreschool AgeBracket = "4-5"
	AgeBracketSchool    AgeBracket = "6+"
)

// AgeBrackets lists the brackets in display order.
var AgeBrackets = []AgeBracket{AgeBracketInfant, AgeBracketToddler, AgeBracketPreschool, AgeBracketSchool}

// ParseAgeBracket validates a bracket label. The empty string is not a bracket.
func ParseAgeBracket(raw string) (AgeBracket, bool) {
	for _, b := range AgeBrackets {
		if string(b) == raw {
			return b, true
		}
	}
	return "", false
}

// Contains reports whether age falls in the bracket. 0-1 has no lower bound.
func (b AgeBracket) Contains(age int) bool {
	switch b {
	case AgeBracketInfant:
		return age <= 1
	case AgeBracketToddler:
		return age >= 2 && age <= 3
	case AgeBracketPreschool:
		return age >= 4 && age <= 5
	case AgeBracketSchool:
		return age >= 6
	default:
		return false
	}
}

// StudentFilter holds the three independent list filters. Zero values disable a dimension.
type StudentFilter struct {
	Search string
	Age    AgeBracket
	Status StudentStatus
}
