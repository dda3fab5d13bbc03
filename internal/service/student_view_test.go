package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/creche-api/internal/models"
)

func viewFixture() []models.Student {
	enrolled := day(2024, time.March, 1)
	ana := student("1", "Ana Souza", 1, models.StudentStatusActive, enrolled)
	ana.ParentName = "Maria Souza"
	bruno := student("2", "Bruno Lima", 3, models.StudentStatusInactive, enrolled)
	bruno.ParentName = "Carla Lima"
	caio := student("3", "Caio Alves", 5, models.StudentStatusActive, enrolled)
	caio.ParentName = "Marcos Alves"
	davi := student("4", "Davi Rocha", 7, models.StudentStatusActive, enrolled)
	davi.ParentName = "Paula Rocha"
	return []models.Student{ana, bruno, caio, davi}
}

func names(students []models.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return out
}

func TestComputeViewNoFiltersReturnsAllInOrder(t *testing.T) {
	all := viewFixture()
	assert.Equal(t, names(all), names(ComputeView(all, models.StudentFilter{})))
}

func TestComputeViewSearchMatchesStudentOrGuardian(t *testing.T) {
	all := viewFixture()
	assert.Equal(t, []string{"Ana Souza", "Caio Alves"}, names(ComputeView(all, models.StudentFilter{Search: "MAR"})))
	assert.Equal(t, []string{"Bruno Lima"}, names(ComputeView(all, models.StudentFilter{Search: "  bruno "})))
	assert.Empty(t, ComputeView(all, models.StudentFilter{Search: "zzz"}))
}

func TestComputeViewAgeBrackets(t *testing.T) {
	all := viewFixture()
	cases := map[models.AgeBracket][]string{
		models.AgeBracketInfant:    {"Ana Souza"},
		models.AgeBracketToddler:   {"Bruno Lima"},
		models.AgeBracketPreschool: {"Caio Alves"},
		models.AgeBracketSchool:    {"Davi Rocha"},
	}
	for bracket, expected := range cases {
		assert.Equal(t, expected, names(ComputeView(all, models.StudentFilter{Age: bracket})), string(bracket))
	}
}

func TestComputeViewCombinesFiltersWithAnd(t *testing.T) {
	all := viewFixture()
	got := ComputeView(all, models.StudentFilter{Search: "a", Status: models.StudentStatusActive, Age: models.AgeBracketSchool})
	assert.Equal(t, []string{"Davi Rocha"}, names(got))

	got = ComputeView(all, models.StudentFilter{Search: "bruno", Status: models.StudentStatusActive})
	assert.Empty(t, got)
}

func TestComputeViewNegativeAgeFallsInInfantBracket(t *testing.T) {
	future := student("9", "Futuro", -1, models.StudentStatusActive, day(2024, time.March, 1))
	got := ComputeView([]models.Student{future}, models.StudentFilter{Age: models.AgeBracketInfant})
	assert.Len(t, got, 1)
}
