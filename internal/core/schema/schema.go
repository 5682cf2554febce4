// Package schema detects the column layout of an uploaded student dataset.
//
// A valid dataset starts with the fixed identity prefix `Roll, Name, Email,
// CGPA`; everything after it is a preference column, one per faculty. The
// number of preference columns is unconstrained apart from m >= 1, and their
// header names are the faculties' display identities.
package schema

import (
	"github.com/tanmayk/meritalloc/internal/core/table"
	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// IdentityColumns is the required fixed prefix, in order.
var IdentityColumns = []string{"Roll", "Name", "Email", "CGPA"}

// ColumnPartition is the result of schema detection: the identity prefix and
// the dynamically sized preference block. Faculty index = position in
// Preferences (0-based); column order defines faculty identity.
type ColumnPartition struct {
	Identity    []string
	Preferences []string
}

// FacultyCount returns m, the number of detected faculties.
func (p ColumnPartition) FacultyCount() int {
	return len(p.Preferences)
}

// Detect validates the identity prefix and partitions the header into
// identity and preference columns. Cell values are not inspected here;
// numeric validation is the allocator's job.
//
// Returns a *apperrors.SchemaError naming every missing or misplaced
// identity column, or reporting a missing preference block.
func Detect(t *table.Table) (ColumnPartition, error) {
	var missing []string
	for i, want := range IdentityColumns {
		if i >= len(t.Header) || t.Header[i] != want {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return ColumnPartition{}, apperrors.NewSchemaError(len(t.Header), missing...)
	}

	if len(t.Header) <= len(IdentityColumns) {
		return ColumnPartition{}, apperrors.NewSchemaError(len(t.Header), "preference columns")
	}

	prefs := make([]string, len(t.Header)-len(IdentityColumns))
	copy(prefs, t.Header[len(IdentityColumns):])

	return ColumnPartition{
		Identity:    IdentityColumns,
		Preferences: prefs,
	}, nil
}
