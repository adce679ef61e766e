package catalog

import (
	"time"

	"github.com/dshills/CascadeDB/internal/sql/types"
)

// TableStats holds table-level statistics.
type TableStats struct {
	RowCount     int64
	PageCount    int64
	AvgRowSize   int
	LastAnalyzed time.Time
}

// ColumnStats holds column-level statistics.
type ColumnStats struct {
	NullCount     int64
	DistinctCount int64
	AvgWidth      int
	MinValue      types.Value
	MaxValue      types.Value
	LastAnalyzed  time.Time
}

// DefaultTableStats returns the fallback statistics used when a table has
// never been analyzed.
func DefaultTableStats() *TableStats {
	return &TableStats{
		RowCount:   1000,
		PageCount:  100,
		AvgRowSize: 100,
	}
}
