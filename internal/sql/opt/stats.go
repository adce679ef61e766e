package opt

import (
	"math"

	"github.com/dshills/CascadeDB/internal/catalog"
)

// Statistics are the logical statistics of a group. Every expression in a
// group computes the same result, so the statistics live on the group and are
// derived once, when the group is created.
type Statistics struct {
	RowCount   float64
	PageCount  float64
	AvgRowSize float64
}

// Default selectivities used when no better estimate is available, following
// the usual planner folklore.
const (
	selectivityEquality = 0.1
	selectivityRange    = 0.33
	selectivityDefault  = 0.5
)

// predicateSelectivity estimates the fraction of rows a predicate keeps.
func predicateSelectivity(pred Expression) float64 {
	switch p := pred.(type) {
	case *ComparisonExpr:
		switch p.Op {
		case CmpEqual:
			return selectivityEquality
		case CmpNotEqual:
			return 1 - selectivityEquality
		case CmpLess, CmpLessEqual, CmpGreater, CmpGreaterEqual:
			return selectivityRange
		}
		return selectivityDefault
	case *AndExpr:
		s := predicateSelectivity(p.Left) * predicateSelectivity(p.Right)
		return math.Max(s, 0.0001)
	case nil:
		return 1.0
	default:
		return selectivityDefault
	}
}

// deriveStats computes a new group's statistics from its first expression's
// operator and the statistics of its child groups.
func deriveStats(cat catalog.Catalog, op Operator, children []*Statistics) *Statistics {
	child := func(i int) *Statistics {
		if i < len(children) && children[i] != nil {
			return children[i]
		}
		return &Statistics{RowCount: 1000, PageCount: 100, AvgRowSize: 100}
	}

	switch op.Kind {
	case OpScan, OpSeqScan, OpIndexScan:
		return scanStats(cat, op)

	case OpFilter, OpPhysicalFilter:
		in := child(0)
		return &Statistics{
			RowCount:   math.Max(1, in.RowCount*predicateSelectivity(op.Predicate)),
			PageCount:  in.PageCount,
			AvgRowSize: in.AvgRowSize,
		}

	case OpJoin, OpHashJoin, OpMergeJoin, OpNestLoopJoin:
		left, right := child(0), child(1)
		rows := left.RowCount * right.RowCount
		if op.JoinType != CrossJoin {
			if _, _, ok := equiJoinColumns(op.Predicate); ok {
				rows /= math.Max(left.RowCount, math.Max(right.RowCount, 1))
			} else {
				rows *= predicateSelectivity(op.Predicate)
			}
		}
		return &Statistics{
			RowCount:   math.Max(1, rows),
			PageCount:  left.PageCount + right.PageCount,
			AvgRowSize: left.AvgRowSize + right.AvgRowSize,
		}

	case OpAggregate, OpHashAggregate:
		in := child(0)
		rows := 1.0
		if len(op.GroupBy) > 0 {
			rows = math.Max(1, in.RowCount*selectivityEquality)
		}
		return &Statistics{RowCount: rows, PageCount: in.PageCount, AvgRowSize: in.AvgRowSize}

	case OpLimit, OpPhysicalLimit:
		in := child(0)
		rows := in.RowCount
		if op.Limit > 0 {
			rows = math.Min(rows, float64(op.Limit))
		}
		return &Statistics{RowCount: rows, PageCount: in.PageCount, AvgRowSize: in.AvgRowSize}

	default:
		// Project, Sort and the remaining physical kinds preserve
		// cardinality.
		in := child(0)
		return &Statistics{RowCount: in.RowCount, PageCount: in.PageCount, AvgRowSize: in.AvgRowSize}
	}
}

func scanStats(cat catalog.Catalog, op Operator) *Statistics {
	stats := catalog.DefaultTableStats()
	if cat != nil {
		if s, err := cat.GetTableStats(op.Schema, op.Table); err == nil && s != nil {
			stats = s
		}
	}
	rows := math.Max(1, float64(stats.RowCount))
	pages := float64(stats.PageCount)
	if pages <= 0 {
		pages = math.Max(1, rows/100)
	}
	return &Statistics{
		RowCount:   rows,
		PageCount:  pages,
		AvgRowSize: math.Max(1, float64(stats.AvgRowSize)),
	}
}
