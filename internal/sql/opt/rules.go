package opt

import (
	"github.com/dshills/CascadeDB/internal/catalog"
)

// JoinCommuteRule swaps the inputs of an inner or cross join. The predicate
// is mirrored along with the children, so a comparison's left operand keeps
// referring to the left input and the join implementations can map predicate
// sides to child positions. The rewritten join lands in the same group, and
// commuting twice restores both the children and the predicate, so the
// rewrite deduplicates back onto the original expression and cannot loop.
func JoinCommuteRule() *Rule {
	return &Rule{
		Name:    "JoinCommute",
		Kind:    Transformation,
		Pattern: MatchOp(OpJoin, MatchAny(), MatchAny()),
		Check: func(_ *Memo, b *Binding) bool {
			jt := b.Expr.Op.JoinType
			return jt == InnerJoin || jt == CrossJoin
		},
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			op.Predicate = commutedPredicate(op.Predicate)
			return []*Node{NewNode(op, b.ChildRef(1), b.ChildRef(0))}, nil
		},
	}
}

// SeqScanRule implements a logical scan as a sequential scan.
func SeqScanRule() *Rule {
	return &Rule{
		Name:    "SeqScan",
		Kind:    Implementation,
		Pattern: MatchOp(OpScan),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:   OpSeqScan,
				Schema: op.Schema,
				Table:  op.Table,
			})}, nil
		},
	}
}

// IndexScanRule implements a logical scan as an index scan for every B-tree
// index on the table. An index scan natively provides the index ordering, so
// a required sort can be satisfied without an enforcer.
func IndexScanRule() *Rule {
	return &Rule{
		Name:    "IndexScan",
		Kind:    Implementation,
		Pattern: MatchOp(OpScan),
		Check: func(m *Memo, b *Binding) bool {
			return m.Catalog() != nil
		},
		Transform: func(m *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			table, err := m.Catalog().GetTable(op.Schema, op.Table)
			if err != nil {
				// No metadata, no index alternatives.
				return nil, nil
			}
			var out []*Node
			for _, idx := range table.Indexes {
				if idx.Type != catalog.BTreeIndex {
					continue
				}
				keys := make([]SortKey, len(idx.Columns))
				for i, col := range idx.Columns {
					order := Ascending
					if col.SortOrder == catalog.Descending {
						order = Descending
					}
					keys[i] = SortKey{Column: col.Column.Name, Order: order}
				}
				out = append(out, NewNode(Operator{
					Kind:     OpIndexScan,
					Schema:   op.Schema,
					Table:    op.Table,
					Index:    idx.Name,
					SortKeys: keys,
				}))
			}
			return out, nil
		},
	}
}

// FilterImplRule implements a logical filter.
func FilterImplRule() *Rule {
	return &Rule{
		Name:    "FilterImpl",
		Kind:    Implementation,
		Pattern: MatchOp(OpFilter, MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:      OpPhysicalFilter,
				Predicate: op.Predicate,
			}, b.ChildRef(0))}, nil
		},
	}
}

// ProjectImplRule implements a logical projection.
func ProjectImplRule() *Rule {
	return &Rule{
		Name:    "ProjectImpl",
		Kind:    Implementation,
		Pattern: MatchOp(OpProject, MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:        OpPhysicalProject,
				Projections: op.Projections,
			}, b.ChildRef(0))}, nil
		},
	}
}

// HashJoinRule implements an inner equi-join as a hash join.
func HashJoinRule() *Rule {
	return &Rule{
		Name:    "HashJoin",
		Kind:    Implementation,
		Pattern: MatchOp(OpJoin, MatchAny(), MatchAny()),
		Check: func(_ *Memo, b *Binding) bool {
			op := b.Expr.Op
			if op.JoinType != InnerJoin {
				return false
			}
			_, _, ok := equiJoinColumns(op.Predicate)
			return ok
		},
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:      OpHashJoin,
				JoinType:  op.JoinType,
				Predicate: op.Predicate,
			}, b.ChildRef(0), b.ChildRef(1))}, nil
		},
	}
}

// MergeJoinRule implements an inner equi-join as a merge join. The children
// must deliver rows ordered by the join keys; the required orderings are
// recorded on the operator and the output provides the left ordering.
func MergeJoinRule() *Rule {
	return &Rule{
		Name:    "MergeJoin",
		Kind:    Implementation,
		Pattern: MatchOp(OpJoin, MatchAny(), MatchAny()),
		Check: func(_ *Memo, b *Binding) bool {
			op := b.Expr.Op
			if op.JoinType != InnerJoin {
				return false
			}
			_, _, ok := equiJoinColumns(op.Predicate)
			return ok
		},
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			left, right, _ := equiJoinColumns(op.Predicate)
			leftKeys := []SortKey{{Column: left.Name, Order: Ascending}}
			rightKeys := []SortKey{{Column: right.Name, Order: Ascending}}
			return []*Node{NewNode(Operator{
				Kind:      OpMergeJoin,
				JoinType:  op.JoinType,
				Predicate: op.Predicate,
				LeftKeys:  leftKeys,
				RightKeys: rightKeys,
				SortKeys:  leftKeys,
			}, b.ChildRef(0), b.ChildRef(1))}, nil
		},
	}
}

// NestLoopJoinRule implements any join as a nested-loop join. It is the
// fallback that keeps non-equi and outer joins plannable.
func NestLoopJoinRule() *Rule {
	return &Rule{
		Name:    "NestLoopJoin",
		Kind:    Implementation,
		Pattern: MatchOp(OpJoin, MatchAny(), MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:      OpNestLoopJoin,
				JoinType:  op.JoinType,
				Predicate: op.Predicate,
			}, b.ChildRef(0), b.ChildRef(1))}, nil
		},
	}
}

// HashAggregateRule implements a logical aggregation as a hash aggregate.
func HashAggregateRule() *Rule {
	return &Rule{
		Name:    "HashAggregate",
		Kind:    Implementation,
		Pattern: MatchOp(OpAggregate, MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:       OpHashAggregate,
				GroupBy:    op.GroupBy,
				Aggregates: op.Aggregates,
			}, b.ChildRef(0))}, nil
		},
	}
}

// SortImplRule implements an explicit logical sort.
func SortImplRule() *Rule {
	return &Rule{
		Name:    "SortImpl",
		Kind:    Implementation,
		Pattern: MatchOp(OpSort, MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:     OpPhysicalSort,
				SortKeys: op.SortKeys,
			}, b.ChildRef(0))}, nil
		},
	}
}

// LimitImplRule implements a logical limit.
func LimitImplRule() *Rule {
	return &Rule{
		Name:    "LimitImpl",
		Kind:    Implementation,
		Pattern: MatchOp(OpLimit, MatchAny()),
		Transform: func(_ *Memo, b *Binding) ([]*Node, error) {
			op := b.Expr.Op
			return []*Node{NewNode(Operator{
				Kind:   OpPhysicalLimit,
				Limit:  op.Limit,
				Offset: op.Offset,
			}, b.ChildRef(0))}, nil
		},
	}
}
