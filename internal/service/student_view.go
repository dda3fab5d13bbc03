package service

import (
	"strings"

	"github.com/noah-isme/creche-api/internal/models"
)

// ComputeView applies the list filters to the full collection. Filters combine with AND; the
// text filter matches the student's or the guardian's name. Input order is preserved.
func ComputeView(students []models.Student, filter models.StudentFilter) []models.Student {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Student, 0, len(students))
	for _, student := range students {
		if search != "" &&
			!strings.Contains(strings.ToLower(student.Name), search) &&
			!strings.Contains(strings.ToLower(student.ParentName), search) {
			continue
		}
		if filter.Age != "" && !filter.Age.Contains(student.Age) {
			continue
		}
		if filter.Status != "" && student.Status != filter.Status {
			continue
		}
		result = append(result, student)
	}
	return result
}
