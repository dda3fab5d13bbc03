package format

import "strings"

// SplitAllergies turns the comma separated form value into a trimmed list. Blank tokens are
// dropped and the result is never nil.
func SplitAllergies(value string) []string {
	result := []string{}
	for _, token := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// StatusLabel localizes a student status for reports.
func StatusLabel(status string) string {
	if status == "active" {
		return "Ativo"
	}
	return "Inativo"
}
