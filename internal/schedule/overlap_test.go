package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"disjoint before", "2026-06-01", "2026-06-05", "2026-06-10", "2026-06-15", false},
		{"disjoint after", "2026-06-10", "2026-06-15", "2026-06-01", "2026-06-05", false},
		{"partial overlap", "2026-06-01", "2026-06-10", "2026-06-08", "2026-06-15", true},
		{"containment", "2026-06-01", "2026-06-30", "2026-06-10", "2026-06-15", true},
		{"identical", "2026-06-01", "2026-06-10", "2026-06-01", "2026-06-10", true},
		{"single day both", "2026-06-05", "2026-06-05", "2026-06-05", "2026-06-05", true},
		// Return day equals next departure day: still a conflict, the
		// boundaries are inclusive.
		{"touching boundaries", "2026-06-01", "2026-06-10", "2026-06-10", "2026-06-20", true},
		{"touching boundaries reversed", "2026-06-10", "2026-06-20", "2026-06-01", "2026-06-10", true},
		{"adjacent days", "2026-06-01", "2026-06-10", "2026-06-11", "2026-06-20", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)

			// The predicate is symmetric.
			swapped := Overlaps(day(tt.bStart), day(tt.bEnd), day(tt.aStart), day(tt.aEnd))
			assert.Equal(t, got, swapped)
		})
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []Window{
		{Start: day("2026-06-01"), End: day("2026-06-05")},
		{Start: day("2026-06-10"), End: day("2026-06-15")},
		{Start: day("2026-06-20"), End: day("2026-06-25")},
	}

	candidate := Window{Start: day("2026-06-14"), End: day("2026-06-18")}
	assert.Equal(t, 1, FirstConflict(candidate, existing))

	free := Window{Start: day("2026-06-06"), End: day("2026-06-09")}
	assert.Equal(t, -1, FirstConflict(free, existing))

	assert.Equal(t, -1, FirstConflict(candidate, nil))
}
