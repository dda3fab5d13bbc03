package models

import "time"

// SystemMetrics is a JSON-friendly snapshot of process counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	StudentsCreated          uint64    `json:"studentsCreated"`
	StudentsUpdated          uint64    `json:"studentsUpdated"`
	Exports                  uint64    `json:"exports"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
