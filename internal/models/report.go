package models

import "time"

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ExportSelection names the subset of students an export covers.
type ExportSelection string

const (
	ExportSelectionAll      ExportSelection = "all"
	ExportSelectionActive   ExportSelection = "active"
	ExportSelectionInactive ExportSelection = "inactive"
	ExportSelectionAge      ExportSelection = "age"
	ExportSelectionRecent   ExportSelection = "recent"
	ExportSelectionList     ExportSelection = "list"
)

// RecentEnrollmentWindow is the look-back used for "recent enrollments".
const RecentEnrollmentWindow = 30 * 24 * time.Hour

// AgeBucket is one histogram entry.
type AgeBucket struct {
	Bracket AgeBracket `json:"bracket"`
	Count   int        `json:"count"`
}

// StudentStats aggregates the collection for the reports page.
type StudentStats struct {
	Total             int         `json:"total"`
	Active            int         `json:"active"`
	Inactive          int         `json:"inactive"`
	ByAge             []AgeBucket `json:"byAge"`
	RecentEnrollments int         `json:"recentEnrollments"`
	ComputedAt        time.Time   `json:"computedAt"`
}

// Count returns the histogram count for a bracket.
func (s StudentStats) Count(b AgeBracket) int {
	for _, bucket := range s.ByAge {
		if bucket.Bracket == b {
			return bucket.Count
		}
	}
	return 0
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Rows        int
	Payload     []byte
}
