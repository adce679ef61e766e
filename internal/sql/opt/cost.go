package opt

import (
	"math"

	"github.com/dshills/CascadeDB/internal/config"
)

// CostContext carries everything a cost model may consult: the costs and
// statistics of the already-optimized children, the group's own statistics,
// and the required properties the expression is being costed under.
type CostContext struct {
	ChildCosts []float64
	ChildStats []*Statistics
	Stats      *Statistics
	Required   *PropertySet
}

// CostModel scores a group expression. Implementations must be pure and
// deterministic for identical inputs and must return a non-negative total
// that includes the child costs. The search assumes, but does not enforce,
// that cost is monotone non-decreasing in child cost; a model violating that
// can produce sub-optimal plans without the engine noticing.
type CostModel interface {
	Cost(e *GroupExpression, ctx *CostContext) float64
}

// DefaultCostModel is a page/CPU cost model over catalog statistics, using
// the PostgreSQL-style parameters from the configuration.
type DefaultCostModel struct {
	params config.CostConfig
}

// NewDefaultCostModel creates a cost model with the given parameters.
func NewDefaultCostModel(params config.CostConfig) *DefaultCostModel {
	return &DefaultCostModel{params: params}
}

// Cost implements CostModel.
func (cm *DefaultCostModel) Cost(e *GroupExpression, ctx *CostContext) float64 {
	total := cm.localCost(e, ctx)
	for _, c := range ctx.ChildCosts {
		total += c
	}
	return total
}

func (cm *DefaultCostModel) localCost(e *GroupExpression, ctx *CostContext) float64 {
	p := cm.params
	rows := 1.0
	if ctx.Stats != nil {
		rows = ctx.Stats.RowCount
	}
	childRows := func(i int) float64 {
		if i < len(ctx.ChildStats) && ctx.ChildStats[i] != nil {
			return ctx.ChildStats[i].RowCount
		}
		return 1
	}

	switch e.Op.Kind {
	case OpSeqScan:
		pages := 1.0
		if ctx.Stats != nil {
			pages = ctx.Stats.PageCount
		}
		return pages*p.SeqPageCost + rows*p.CPUTupleCost

	case OpIndexScan:
		pages := 1.0
		if ctx.Stats != nil {
			pages = ctx.Stats.PageCount
		}
		// B-tree descent plus a random-order pass over the pages.
		height := math.Max(1, math.Log(math.Max(rows, 2))/math.Log(200))
		return height*p.RandomPageCost +
			pages*p.RandomPageCost +
			rows*(p.CPUIndexTupleCost+p.CPUTupleCost)

	case OpPhysicalFilter:
		return childRows(0) * (p.CPUOperatorCost + p.CPUTupleCost)

	case OpPhysicalProject:
		return childRows(0) * p.CPUOperatorCost

	case OpHashJoin:
		// Build the right side, probe with the left.
		return childRows(1)*(p.CPUTupleCost+p.CPUOperatorCost) +
			childRows(0)*p.CPUTupleCost +
			rows*p.CPUTupleCost

	case OpMergeJoin:
		return (childRows(0)+childRows(1))*p.CPUTupleCost +
			rows*p.CPUOperatorCost

	case OpNestLoopJoin:
		return childRows(0)*childRows(1)*p.CPUOperatorCost +
			rows*p.CPUTupleCost

	case OpHashAggregate:
		return childRows(0)*p.CPUOperatorCost + rows*p.CPUTupleCost

	case OpPhysicalSort:
		n := math.Max(childRows(0), 2)
		return n * math.Log2(n) * p.CPUOperatorCost

	case OpPhysicalLimit:
		return rows * p.CPUTupleCost

	default:
		// Logical operators are never costed; physical kinds are all
		// covered above.
		return 0
	}
}
