package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

func TestReadCSV(t *testing.T) {
	t.Run("decodes header and rows", func(t *testing.T) {
		src := "Roll,Name,Email,CGPA,Prof. Rao\n2021CS01,Asha,asha@college.edu,8.75,1\n"

		tbl, err := ReadCSV(strings.NewReader(src))

		require.NoError(t, err)
		require.Equal(t, []string{"Roll", "Name", "Email", "CGPA", "Prof. Rao"}, tbl.Header)
		require.Equal(t, 1, tbl.Len())
		require.Equal(t, "8.75", tbl.Cell(0, 3))
	})

	t.Run("trims whitespace around header names", func(t *testing.T) {
		src := "Roll, Name, Email, CGPA, Prof. Rao\n"

		tbl, err := ReadCSV(strings.NewReader(src))

		require.NoError(t, err)
		require.Equal(t, []string{"Roll", "Name", "Email", "CGPA", "Prof. Rao"}, tbl.Header)
	})

	t.Run("empty input is an empty dataset error", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))

		require.ErrorIs(t, err, apperrors.ErrEmptyDataset)
	})

	t.Run("ragged rows are rejected", func(t *testing.T) {
		src := "Roll,Name,Email,CGPA,Prof. Rao\n2021CS01,Asha\n"

		_, err := ReadCSV(strings.NewReader(src))

		require.Error(t, err)
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("round-trips a table", func(t *testing.T) {
		tbl, err := New(
			[]string{"Roll", "Name"},
			[][]string{{"2021CS01", "Asha"}, {"2021CS02", "Bir"}},
		)
		require.NoError(t, err)

		var out strings.Builder
		require.NoError(t, tbl.WriteCSV(&out))

		back, err := ReadCSV(strings.NewReader(out.String()))
		require.NoError(t, err)
		require.Equal(t, tbl.Header, back.Header)
		require.Equal(t, tbl.Rows, back.Rows)
	})

	t.Run("quotes cells containing commas", func(t *testing.T) {
		tbl, err := New([]string{"Name"}, [][]string{{"Rao, Prof."}})
		require.NoError(t, err)

		var out strings.Builder
		require.NoError(t, tbl.WriteCSV(&out))

		require.Contains(t, out.String(), `"Rao, Prof."`)
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects rows that do not match the header width", func(t *testing.T) {
		_, err := New([]string{"Roll", "Name"}, [][]string{{"2021CS01"}})

		require.Error(t, err)
		require.Contains(t, err.Error(), "row 1")
	})
}

func TestColumnIndex(t *testing.T) {
	tbl, err := New([]string{"Roll", "Name", "CGPA"}, nil)
	require.NoError(t, err)

	require.Equal(t, 2, tbl.ColumnIndex("CGPA"))
	require.Equal(t, -1, tbl.ColumnIndex("cgpa"))
	require.Equal(t, -1, tbl.ColumnIndex("Missing"))
}
