package models

import (
	"time"

	"github.com/tanmayk/meritalloc/internal/core/table"
)

// AllocationRun is one finished allocation over an uploaded dataset. Runs
// are derived and in-memory only; they exist so their output tables can be
// downloaded after the run completes.
type AllocationRun struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Students  int      `json:"students"`
	Faculties []string `json:"faculties"`

	// Assignments is the allocation table (Roll, Name, Email, CGPA,
	// AssignedFaculty), CGPA-descending. Preferences is the per-faculty
	// rank histogram table.
	Assignments *table.Table `json:"-"`
	Preferences *table.Table `json:"-"`
}

// GroupingRun is one finished grouping over an uploaded dataset.
type GroupingRun struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	GroupCount   int            `json:"groupCount"`
	BranchSizes  map[string]int `json:"branchSizes"`
	InvalidRolls []string       `json:"invalidRolls,omitempty"`

	Uniform []*table.Table `json:"-"`
	Mixed   []*table.Table `json:"-"`
	Summary *table.Table   `json:"-"`
}
