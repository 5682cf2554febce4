package services

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tanmayk/meritalloc/internal/app/repositories"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

const groupingDataset = `Roll,Name,Email,CGPA,Prof. Rao
2021CS01,Asha,asha@college.edu,8.50,1
2021CS02,Bir,bir@college.edu,9.00,1
2021CS03,Chand,chand@college.edu,8.10,2
2021EE01,Deepa,deepa@college.edu,7.25,1
2021EE02,Esha,esha@college.edu,6.90,2
BADROLL,Farid,farid@college.edu,8.00,1
`

func newGroupingService() GroupingService {
	return NewGroupingService(repositories.NewRunRepository(8), zerolog.Nop())
}

func TestGroupingServiceRun(t *testing.T) {
	t.Run("splits branches and builds both distributions", func(t *testing.T) {
		svc := newGroupingService()

		run, err := svc.Run(strings.NewReader(groupingDataset), 2)

		require.NoError(t, err)
		require.Equal(t, 2, run.GroupCount)
		require.Equal(t, map[string]int{"CS": 3, "EE": 2}, run.BranchSizes)
		require.Equal(t, []string{"BADROLL"}, run.InvalidRolls)

		require.Len(t, run.Uniform, 2)
		require.Len(t, run.Mixed, 2)
		require.Equal(t, 3, run.Uniform[0].Len())
		require.Equal(t, 2, run.Uniform[1].Len())
	})

	t.Run("summary covers both strategies with totals", func(t *testing.T) {
		svc := newGroupingService()

		run, err := svc.Run(strings.NewReader(groupingDataset), 2)
		require.NoError(t, err)

		require.Equal(t, []string{"Group", "CS", "EE", "Total"}, run.Summary.Header)
		require.Equal(t, "Uniform", run.Summary.Rows[0][0])
		require.Equal(t, "Mixed", run.Summary.Rows[4][0])

		// Uniform section: group rows follow the marker row.
		require.Equal(t, []string{"G1", "3", "0", "3"}, run.Summary.Rows[1])
		require.Equal(t, []string{"G2", "0", "2", "2"}, run.Summary.Rows[2])
	})

	t.Run("group count below one is rejected", func(t *testing.T) {
		svc := newGroupingService()

		_, err := svc.Run(strings.NewReader(groupingDataset), 0)

		require.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("schema errors propagate", func(t *testing.T) {
		svc := newGroupingService()

		_, err := svc.Run(strings.NewReader("Roll,Name\nx,y\n"), 2)

		require.ErrorIs(t, err, apperrors.ErrInvalidSchema)
	})

	t.Run("run is retrievable by ID afterwards", func(t *testing.T) {
		svc := newGroupingService()

		run, err := svc.Run(strings.NewReader(groupingDataset), 2)
		require.NoError(t, err)

		got, err := svc.GetRun(run.ID)
		require.NoError(t, err)
		require.Equal(t, run.ID, got.ID)
	})
}
