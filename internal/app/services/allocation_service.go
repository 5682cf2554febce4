package services

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tanmayk/meritalloc/internal/app/models"
	"github.com/tanmayk/meritalloc/internal/app/repositories"
	"github.com/tanmayk/meritalloc/internal/core/allocate"
	"github.com/tanmayk/meritalloc/internal/core/schema"
	"github.com/tanmayk/meritalloc/internal/core/table"
)

// AllocationService defines the interface for allocation runs
type AllocationService interface {
	// Run executes one full allocation over a CSV dataset: schema
	// detection, record parsing, merit sort, round-robin assignment and
	// preference tabulation. On any schema or cell error the run fails as
	// a whole and nothing is stored.
	Run(dataset io.Reader) (*models.AllocationRun, error)
	// GetRun returns a stored run by ID.
	GetRun(id string) (*models.AllocationRun, error)
	// PreferenceCounts re-shapes a run's preference table for JSON
	// responses: faculty name -> rank value (as printed) -> count.
	PreferenceCounts(run *models.AllocationRun) map[string]map[string]int
}

// allocationServiceImpl implements the AllocationService interface
type allocationServiceImpl struct {
	runs   *repositories.RunRepository
	logger zerolog.Logger
}

// NewAllocationService creates a new allocation service instance
func NewAllocationService(runs *repositories.RunRepository, logger zerolog.Logger) AllocationService {
	return &allocationServiceImpl{
		runs:   runs,
		logger: logger,
	}
}

// Run executes one allocation run end to end.
//
// Malformed cell policy: every unparseable CGPA or preference cell across
// the whole dataset is collected and the run is aborted with the full list.
// Rows are never skipped (skipping would shift every assignment after the
// bad row) and values are never defaulted.
func (s *allocationServiceImpl) Run(dataset io.Reader) (*models.AllocationRun, error) {
	t, err := table.ReadCSV(dataset)
	if err != nil {
		return nil, err
	}

	partition, err := schema.Detect(t)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Dataset rejected by schema detection")
		return nil, err
	}

	students, err := allocate.ParseStudents(t, partition)
	if err != nil {
		s.logger.Warn().Err(err).Int("rows", t.Len()).
			Msg("Dataset rejected: unparseable cells, run aborted with no partial output")
		return nil, err
	}

	ordered := allocate.SortByMerit(students)
	results := allocate.Allocate(ordered, partition)
	stats := allocate.TabulatePreferences(students, partition)

	assignments, err := renderAssignments(results)
	if err != nil {
		return nil, err
	}
	preferences, err := renderPreferences(stats, partition)
	if err != nil {
		return nil, err
	}

	run := &models.AllocationRun{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		Students:    len(students),
		Faculties:   partition.Preferences,
		Assignments: assignments,
		Preferences: preferences,
	}
	s.runs.SaveAllocation(run)

	s.logger.Info().
		Str("runId", run.ID).
		Int("students", run.Students).
		Int("faculties", partition.FacultyCount()).
		Msg("Allocation run completed")

	return run, nil
}

// GetRun returns a stored run by ID
func (s *allocationServiceImpl) GetRun(id string) (*models.AllocationRun, error) {
	return s.runs.GetAllocation(id)
}

// PreferenceCounts re-shapes the preference table for JSON responses
func (s *allocationServiceImpl) PreferenceCounts(run *models.AllocationRun) map[string]map[string]int {
	counts := make(map[string]map[string]int, len(run.Preferences.Rows))
	for _, row := range run.Preferences.Rows {
		faculty := row[0]
		counts[faculty] = make(map[string]int, len(row)-1)
		for col := 1; col < len(row); col++ {
			n, err := strconv.Atoi(row[col])
			if err != nil {
				continue
			}
			counts[faculty][run.Preferences.Header[col]] = n
		}
	}
	return counts
}

// renderAssignments builds the allocation output table, one row per student
// in CGPA-descending order.
func renderAssignments(results []allocate.AllocationResult) (*table.Table, error) {
	header := []string{"Roll", "Name", "Email", "CGPA", "AssignedFaculty"}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Student.Roll, r.Student.Name, r.Student.Email, r.Student.RawCGPA, r.Faculty}
	}
	t, err := table.New(header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build assignments table: %w", err)
	}
	return t, nil
}

// renderPreferences builds the statistics output table: one row per faculty
// in roster order, one column per observed rank value in ascending order.
func renderPreferences(stats allocate.PreferenceStatistics, p schema.ColumnPartition) (*table.Table, error) {
	ranks := stats.RankValues()

	header := make([]string, 0, len(ranks)+1)
	header = append(header, "Faculty")
	for _, rank := range ranks {
		header = append(header, formatRank(rank))
	}

	rows := make([][]string, len(p.Preferences))
	for j, faculty := range p.Preferences {
		row := make([]string, 0, len(ranks)+1)
		row = append(row, faculty)
		for _, rank := range ranks {
			row = append(row, strconv.Itoa(stats[j][rank]))
		}
		rows[j] = row
	}

	t, err := table.New(header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build preferences table: %w", err)
	}
	return t, nil
}

// formatRank prints a rank value the way it appeared in the input: integral
// ranks without a decimal point.
func formatRank(rank float64) string {
	return strconv.FormatFloat(rank, 'f', -1, 64)
}
