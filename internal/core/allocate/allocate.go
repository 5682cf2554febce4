// Package allocate implements the merit-ordered round-robin allocation rule
// and the per-faculty preference histogram.
//
// Students are ranked by CGPA (descending, stable) and the i-th ranked
// student is assigned to faculty i mod m, cycling through the detected
// faculty roster in column order. The rule is indifferent to preference
// quality; preferences only feed the statistics table.
package allocate

import (
	"sort"
	"strconv"

	"github.com/tanmayk/meritalloc/internal/core/schema"
	"github.com/tanmayk/meritalloc/internal/core/table"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// StudentRecord is one parsed dataset row. RawCGPA keeps the original cell
// text so output tables reproduce the input verbatim instead of reformatting
// the float.
type StudentRecord struct {
	Roll    string
	Name    string
	Email   string
	CGPA    float64
	RawCGPA string
	// Prefs holds one numeric rank per faculty, index-aligned with the
	// detected preference columns. Lower means more preferred.
	Prefs []float64
}

// AllocationResult pairs a student with the faculty the round-robin rule
// assigned.
type AllocationResult struct {
	Student StudentRecord
	// FacultyIndex is the 0-based roster position; Faculty is the column
	// name, the faculty's display identity.
	FacultyIndex int
	Faculty      string
}

// PreferenceStatistics maps, per faculty (roster order), rank value to the
// number of students who gave that faculty that rank. Rank values are opaque
// numeric keys; they are not required to be 1..m or contiguous, so a faculty
// nobody ranked first shows up as an absent key, not an error.
type PreferenceStatistics []map[float64]int

// ParseStudents builds typed records from a detected table. Every CGPA and
// preference cell must parse as a number; all failures across the whole
// table are collected and returned together as apperrors.RowErrors, and no
// records are returned alongside them. Unparseable cells are never coerced
// to zero: a silent zero would corrupt the merit sort.
func ParseStudents(t *table.Table, p schema.ColumnPartition) ([]StudentRecord, error) {
	idCols := len(p.Identity)
	students := make([]StudentRecord, 0, t.Len())
	var rowErrs apperrors.RowErrors

	for i := 0; i < t.Len(); i++ {
		rec := StudentRecord{
			Roll:    t.Cell(i, 0),
			Name:    t.Cell(i, 1),
			Email:   t.Cell(i, 2),
			RawCGPA: t.Cell(i, 3),
			Prefs:   make([]float64, p.FacultyCount()),
		}

		cgpa, err := strconv.ParseFloat(rec.RawCGPA, 64)
		if err != nil {
			rowErrs = append(rowErrs, &apperrors.RowError{
				Row:    i + 1,
				Roll:   rec.Roll,
				Column: "CGPA",
				Value:  rec.RawCGPA,
				Reason: "not a number",
			})
		}
		rec.CGPA = cgpa

		for j, faculty := range p.Preferences {
			raw := t.Cell(i, idCols+j)
			rank, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrs = append(rowErrs, &apperrors.RowError{
					Row:    i + 1,
					Roll:   rec.Roll,
					Column: faculty,
					Value:  raw,
					Reason: "preference rank is not a number",
				})
				continue
			}
			rec.Prefs[j] = rank
		}

		students = append(students, rec)
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return students, nil
}

// SortByMerit returns the students ordered by CGPA descending. The sort is
// stable: students with equal CGPA keep their original input order, which
// makes the ranking reproducible for any input.
func SortByMerit(students []StudentRecord) []StudentRecord {
	ordered := make([]StudentRecord, len(students))
	copy(ordered, students)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].CGPA > ordered[b].CGPA
	})
	return ordered
}

// Allocate applies the cyclic rule to an already merit-ordered sequence: the
// student at position i gets faculty i mod m. Across n students each faculty
// receives either ceil(n/m) or floor(n/m) assignments, the extras going to
// the first n mod m roster positions. An empty sequence yields an empty
// result.
func Allocate(ordered []StudentRecord, p schema.ColumnPartition) []AllocationResult {
	m := p.FacultyCount()
	results := make([]AllocationResult, len(ordered))
	for i, s := range ordered {
		idx := i % m
		results[i] = AllocationResult{
			Student:      s,
			FacultyIndex: idx,
			Faculty:      p.Preferences[idx],
		}
	}
	return results
}

// TabulatePreferences counts, for every faculty, how many students gave it
// each rank value. For a dataset where every student ranks every faculty,
// one faculty's counts sum to the student count.
func TabulatePreferences(students []StudentRecord, p schema.ColumnPartition) PreferenceStatistics {
	stats := make(PreferenceStatistics, p.FacultyCount())
	for j := range stats {
		stats[j] = make(map[float64]int)
	}
	for _, s := range students {
		for j, rank := range s.Prefs {
			stats[j][rank]++
		}
	}
	return stats
}

// RankValues returns every rank value observed across all faculties, in
// ascending order. The statistics table enumerates these as its columns.
func (ps PreferenceStatistics) RankValues() []float64 {
	seen := make(map[float64]struct{})
	for _, counts := range ps {
		for rank := range counts {
			seen[rank] = struct{}{}
		}
	}
	values := make([]float64, 0, len(seen))
	for rank := range seen {
		values = append(values, rank)
	}
	sort.Float64s(values)
	return values
}
