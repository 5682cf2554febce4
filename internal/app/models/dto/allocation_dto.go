package dto

import "time"

// AllocationRunResponse summarizes a finished allocation run
type AllocationRunResponse struct {
	ID        string    `json:"id" example:"5f0c2a7e-9f7b-4f39-b2b8-6f6f3f1a2d4c"`
	CreatedAt time.Time `json:"createdAt" example:"2025-04-23T12:01:05.123Z"`
	Students  int       `json:"students" example:"120"`
	Faculties []string  `json:"faculties" example:"Prof. Rao,Prof. Iyer,Prof. Das"`

	// Preference histogram per faculty: rank value (as printed in the CSV
	// column header) to count.
	PreferenceCounts map[string]map[string]int `json:"preferenceCounts,omitempty"`

	AssignmentsURL string `json:"assignmentsUrl" example:"/api/v1/allocations/5f0c.../assignments.csv"`
	PreferencesURL string `json:"preferencesUrl" example:"/api/v1/allocations/5f0c.../preferences.csv"`
}

// GroupingRunResponse summarizes a finished grouping run
type GroupingRunResponse struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	GroupCount   int            `json:"groupCount" example:"4"`
	BranchSizes  map[string]int `json:"branchSizes"`
	InvalidRolls []string       `json:"invalidRolls,omitempty"`
	SummaryURL   string         `json:"summaryUrl"`
}
