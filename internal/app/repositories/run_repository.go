package repositories

import (
	"sync"

	"github.com/tanmayk/meritalloc/internal/app/models"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// RunRepository keeps finished runs in process memory so their output
// tables stay downloadable. Nothing is written to disk or a database; when
// the process exits, the runs are gone. The store is mutex-guarded because
// the HTTP layer serves requests concurrently, and it evicts the oldest run
// once the retention cap is reached.
type RunRepository struct {
	mu sync.Mutex

	retain      int
	allocations map[string]*models.AllocationRun
	allocOrder  []string
	groupings   map[string]*models.GroupingRun
	groupOrder  []string
}

// NewRunRepository creates a run store retaining at most retain runs of
// each kind.
func NewRunRepository(retain int) *RunRepository {
	return &RunRepository{
		retain:      retain,
		allocations: make(map[string]*models.AllocationRun),
		groupings:   make(map[string]*models.GroupingRun),
	}
}

// SaveAllocation stores a finished allocation run, evicting the oldest run
// past the retention cap.
func (r *RunRepository) SaveAllocation(run *models.AllocationRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.allocations[run.ID] = run
	r.allocOrder = append(r.allocOrder, run.ID)
	if len(r.allocOrder) > r.retain {
		oldest := r.allocOrder[0]
		r.allocOrder = r.allocOrder[1:]
		delete(r.allocations, oldest)
	}
}

// GetAllocation returns the allocation run with the given ID.
func (r *RunRepository) GetAllocation(id string) (*models.AllocationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.allocations[id]
	if !ok {
		return nil, apperrors.NewRunNotFoundError(id)
	}
	return run, nil
}

// SaveGrouping stores a finished grouping run, evicting the oldest run past
// the retention cap.
func (r *RunRepository) SaveGrouping(run *models.GroupingRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groupings[run.ID] = run
	r.groupOrder = append(r.groupOrder, run.ID)
	if len(r.groupOrder) > r.retain {
		oldest := r.groupOrder[0]
		r.groupOrder = r.groupOrder[1:]
		delete(r.groupings, oldest)
	}
}

// GetGrouping returns the grouping run with the given ID.
func (r *RunRepository) GetGrouping(id string) (*models.GroupingRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.groupings[id]
	if !ok {
		return nil, apperrors.NewRunNotFoundError(id)
	}
	return run, nil
}
