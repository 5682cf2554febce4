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
	"github.com/tanmayk/meritalloc/internal/core/groups"
	"github.com/tanmayk/meritalloc/internal/core/schema"
	"github.com/tanmayk/meritalloc/internal/core/table"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// GroupingService defines the interface for study-group distribution runs
type GroupingService interface {
	// Run splits the dataset by branch and distributes students into k
	// groups with both the uniform and the branch-mixed strategy.
	Run(dataset io.Reader, k int) (*models.GroupingRun, error)
	// GetRun returns a stored grouping run by ID.
	GetRun(id string) (*models.GroupingRun, error)
}

// groupingServiceImpl implements the GroupingService interface
type groupingServiceImpl struct {
	runs   *repositories.RunRepository
	logger zerolog.Logger
}

// NewGroupingService creates a new grouping service instance
func NewGroupingService(runs *repositories.RunRepository, logger zerolog.Logger) GroupingService {
	return &groupingServiceImpl{
		runs:   runs,
		logger: logger,
	}
}

// Run executes one grouping run end to end. Rolls that match no branch
// pattern are reported in the run and excluded from every group; a roll
// that cannot name its branch cannot be placed branch-aware.
func (s *groupingServiceImpl) Run(dataset io.Reader, k int) (*models.GroupingRun, error) {
	if k < 1 {
		return nil, apperrors.NewBadRequestError("group count must be at least 1")
	}

	t, err := table.ReadCSV(dataset)
	if err != nil {
		return nil, err
	}

	partition, err := schema.Detect(t)
	if err != nil {
		return nil, err
	}

	students, err := allocate.ParseStudents(t, partition)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Dataset rejected: unparseable cells, grouping aborted")
		return nil, err
	}

	census := groups.SplitByBranch(students)
	for _, roll := range census.InvalidRolls {
		s.logger.Warn().Str("roll", roll).Msg("Roll number matches no branch pattern, excluded from grouping")
	}

	uniform := groups.DistributeUniform(census, k)
	mixed := groups.DistributeMixed(census, k)

	run := &models.GroupingRun{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		GroupCount:   k,
		BranchSizes:  make(map[string]int, len(census.Branches)),
		InvalidRolls: census.InvalidRolls,
	}
	for code, members := range census.Branches {
		run.BranchSizes[code] = len(members)
	}

	if run.Uniform, err = renderGroups(uniform); err != nil {
		return nil, err
	}
	if run.Mixed, err = renderGroups(mixed); err != nil {
		return nil, err
	}
	if run.Summary, err = renderSummary(uniform, mixed); err != nil {
		return nil, err
	}

	s.runs.SaveGrouping(run)

	s.logger.Info().
		Str("runId", run.ID).
		Int("groups", k).
		Int("students", census.Total()).
		Int("invalidRolls", len(census.InvalidRolls)).
		Msg("Grouping run completed")

	return run, nil
}

// GetRun returns a stored grouping run by ID
func (s *groupingServiceImpl) GetRun(id string) (*models.GroupingRun, error) {
	return s.runs.GetGrouping(id)
}

// renderGroups builds one student table per group, identity columns only.
func renderGroups(gs []groups.Group) ([]*table.Table, error) {
	header := []string{"Roll", "Name", "Email", "CGPA"}
	tables := make([]*table.Table, len(gs))
	for i, g := range gs {
		rows := make([][]string, len(g.Students))
		for j, s := range g.Students {
			rows[j] = []string{s.Roll, s.Name, s.Email, s.RawCGPA}
		}
		t, err := table.New(header, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to build group table %d: %w", i+1, err)
		}
		tables[i] = t
	}
	return tables, nil
}

// renderSummary builds the per-group branch census for both strategies in
// one table: a strategy marker row, then one row per group with branch
// counts and a total.
func renderSummary(uniform, mixed []groups.Group) (*table.Table, error) {
	codes := groups.BranchCodes(append(append([]groups.Group{}, uniform...), mixed...))

	header := make([]string, 0, len(codes)+2)
	header = append(header, "Group")
	header = append(header, codes...)
	header = append(header, "Total")

	blank := func(label string) []string {
		row := make([]string, len(header))
		row[0] = label
		for i := 1; i < len(row); i++ {
			row[i] = ""
		}
		return row
	}

	section := func(gs []groups.Group) [][]string {
		rows := make([][]string, len(gs))
		for i, g := range gs {
			counts := groups.GroupCounts(g)
			row := make([]string, 0, len(header))
			row = append(row, fmt.Sprintf("G%d", i+1))
			for _, code := range codes {
				row = append(row, strconv.Itoa(counts[code]))
			}
			row = append(row, strconv.Itoa(len(g.Students)))
			rows[i] = row
		}
		return rows
	}

	rows := make([][]string, 0, len(uniform)+len(mixed)+3)
	rows = append(rows, blank("Uniform"))
	rows = append(rows, section(uniform)...)
	rows = append(rows, blank(""))
	rows = append(rows, blank("Mixed"))
	rows = append(rows, section(mixed)...)

	t, err := table.New(header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary table: %w", err)
	}
	return t, nil
}
