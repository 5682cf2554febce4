package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanmayk/meritalloc/internal/app/models"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

func TestRunRepository(t *testing.T) {
	t.Run("stores and retrieves an allocation run", func(t *testing.T) {
		repo := NewRunRepository(4)
		run := &models.AllocationRun{ID: "run-1", Students: 7}

		repo.SaveAllocation(run)

		got, err := repo.GetAllocation("run-1")
		require.NoError(t, err)
		require.Equal(t, run, got)
	})

	t.Run("unknown run ID is a not-found error", func(t *testing.T) {
		repo := NewRunRepository(4)

		_, err := repo.GetAllocation("missing")

		require.ErrorIs(t, err, apperrors.ErrRunNotFound)
	})

	t.Run("evicts the oldest run past the retention cap", func(t *testing.T) {
		repo := NewRunRepository(2)
		for i := 1; i <= 3; i++ {
			repo.SaveAllocation(&models.AllocationRun{ID: fmt.Sprintf("run-%d", i)})
		}

		_, err := repo.GetAllocation("run-1")
		require.ErrorIs(t, err, apperrors.ErrRunNotFound)

		_, err = repo.GetAllocation("run-2")
		require.NoError(t, err)
		_, err = repo.GetAllocation("run-3")
		require.NoError(t, err)
	})

	t.Run("grouping runs are stored independently", func(t *testing.T) {
		repo := NewRunRepository(2)
		repo.SaveGrouping(&models.GroupingRun{ID: "grp-1", GroupCount: 3})

		got, err := repo.GetGrouping("grp-1")
		require.NoError(t, err)
		require.Equal(t, 3, got.GroupCount)

		_, err = repo.GetAllocation("grp-1")
		require.ErrorIs(t, err, apperrors.ErrRunNotFound)
	})
}
