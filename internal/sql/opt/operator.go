package opt

import (
	"fmt"
	"strings"
)

// OperatorKind identifies a relational operator variant. The set is closed:
// everything that switches on a kind handles exactly these values.
type OperatorKind int

// Logical operator kinds.
const (
	OpScan OperatorKind = iota
	OpFilter
	OpProject
	OpJoin
	OpAggregate
	OpSort
	OpLimit

	// Physical operator kinds.
	OpSeqScan
	OpIndexScan
	OpPhysicalFilter
	OpPhysicalProject
	OpHashJoin
	OpMergeJoin
	OpNestLoopJoin
	OpHashAggregate
	OpPhysicalSort
	OpPhysicalLimit
)

func (k OperatorKind) String() string {
	switch k {
	case OpScan:
		return "Scan"
	case OpFilter:
		return "Filter"
	case OpProject:
		return "Project"
	case OpJoin:
		return "Join"
	case OpAggregate:
		return "Aggregate"
	case OpSort:
		return "Sort"
	case OpLimit:
		return "Limit"
	case OpSeqScan:
		return "SeqScan"
	case OpIndexScan:
		return "IndexScan"
	case OpPhysicalFilter:
		return "PhysicalFilter"
	case OpPhysicalProject:
		return "PhysicalProject"
	case OpHashJoin:
		return "HashJoin"
	case OpMergeJoin:
		return "MergeJoin"
	case OpNestLoopJoin:
		return "NestLoopJoin"
	case OpHashAggregate:
		return "HashAggregate"
	case OpPhysicalSort:
		return "PhysicalSort"
	case OpPhysicalLimit:
		return "PhysicalLimit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsLogical reports whether the kind is a logical operator.
func (k OperatorKind) IsLogical() bool {
	return k >= OpScan && k <= OpLimit
}

// IsPhysical reports whether the kind is a physical operator.
func (k OperatorKind) IsPhysical() bool {
	return k >= OpSeqScan && k <= OpPhysicalLimit
}

// JoinType represents the type of join.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return fmt.Sprintf("Unknown(%d)", int(j))
	}
}

// Operator is a tagged variant over relational operator kinds. Kind selects
// the variant; the remaining fields are kind-specific payload and are zero
// for kinds that do not use them. Child relations are never stored here:
// pre-insertion they live on Node, post-insertion on GroupExpression as
// GroupIDs.
type Operator struct {
	Kind OperatorKind

	// Scan, SeqScan, IndexScan
	Schema string
	Table  string
	Index  string // IndexScan only

	// Filter, PhysicalFilter, Join variants
	Predicate Expression
	JoinType  JoinType

	// Project, PhysicalProject
	Projections []Expression

	// Aggregate, HashAggregate
	GroupBy    []Expression
	Aggregates []AggregateExpr

	// Sort, PhysicalSort, and the ordering provided by IndexScan/MergeJoin
	SortKeys []SortKey

	// MergeJoin child orderings
	LeftKeys  []SortKey
	RightKeys []SortKey

	// Limit, PhysicalLimit
	Limit  int64
	Offset int64
}

// signature renders the payload into the canonical form used for expression
// deduplication. Two operators with equal signatures are interchangeable.
func (op Operator) signature() string {
	var b strings.Builder
	b.WriteString(op.Kind.String())
	switch op.Kind {
	case OpScan, OpSeqScan:
		fmt.Fprintf(&b, "(%s.%s)", op.Schema, op.Table)
	case OpIndexScan:
		fmt.Fprintf(&b, "(%s.%s:%s)", op.Schema, op.Table, op.Index)
	case OpFilter, OpPhysicalFilter:
		fmt.Fprintf(&b, "(%s)", exprString(op.Predicate))
	case OpJoin, OpHashJoin, OpMergeJoin, OpNestLoopJoin:
		fmt.Fprintf(&b, "(%s,%s)", op.JoinType, exprString(op.Predicate))
	case OpProject, OpPhysicalProject:
		fmt.Fprintf(&b, "(%s)", exprListString(op.Projections))
	case OpAggregate, OpHashAggregate:
		fmt.Fprintf(&b, "(%s;%s)", exprListString(op.GroupBy), aggListString(op.Aggregates))
	case OpSort, OpPhysicalSort:
		fmt.Fprintf(&b, "(%s)", sortKeysString(op.SortKeys))
	case OpLimit, OpPhysicalLimit:
		fmt.Fprintf(&b, "(%d,%d)", op.Limit, op.Offset)
	}
	return b.String()
}

func (op Operator) String() string {
	return op.signature()
}

// SortKey is one key of a required or provided ordering.
type SortKey struct {
	Column string
	Order  SortOrder
}

func (k SortKey) String() string {
	return fmt.Sprintf("%s %s", k.Column, k.Order)
}

// SortOrder represents the sort direction of a key.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (s SortOrder) String() string {
	if s == Descending {
		return "DESC"
	}
	return "ASC"
}

func sortKeysString(keys []SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// Node is an operator tree as handed over by the binder, or as produced by a
// rule transform. Children are in-line sub-trees except when Ref is set, in
// which case the node stands for an existing memo group and Op/Children are
// ignored.
type Node struct {
	Op       Operator
	Children []*Node
	Ref      GroupID
}

// NewNode creates a tree node for the given operator and children.
func NewNode(op Operator, children ...*Node) *Node {
	return &Node{Op: op, Children: children, Ref: InvalidGroup}
}

// NewGroupRef creates a node that references an existing memo group. Rule
// transforms use this to keep a child attached to the group it already
// belongs to.
func NewGroupRef(id GroupID) *Node {
	return &Node{Ref: id}
}

// IsGroupRef reports whether the node references an existing group.
func (n *Node) IsGroupRef() bool {
	return n.Ref != InvalidGroup
}

// NewScanNode creates a logical scan of the given table.
func NewScanNode(schema, table string) *Node {
	return NewNode(Operator{Kind: OpScan, Schema: schema, Table: table})
}

// NewFilterNode creates a logical filter over child.
func NewFilterNode(child *Node, predicate Expression) *Node {
	return NewNode(Operator{Kind: OpFilter, Predicate: predicate}, child)
}

// NewProjectNode creates a logical projection over child.
func NewProjectNode(child *Node, projections ...Expression) *Node {
	return NewNode(Operator{Kind: OpProject, Projections: projections}, child)
}

// NewJoinNode creates a logical join of left and right.
func NewJoinNode(joinType JoinType, left, right *Node, condition Expression) *Node {
	return NewNode(Operator{Kind: OpJoin, JoinType: joinType, Predicate: condition}, left, right)
}

// NewAggregateNode creates a logical aggregation over child.
func NewAggregateNode(child *Node, groupBy []Expression, aggregates []AggregateExpr) *Node {
	return NewNode(Operator{Kind: OpAggregate, GroupBy: groupBy, Aggregates: aggregates}, child)
}

// NewSortNode creates a logical sort over child.
func NewSortNode(child *Node, keys ...SortKey) *Node {
	return NewNode(Operator{Kind: OpSort, SortKeys: keys}, child)
}

// NewLimitNode creates a logical limit over child.
func NewLimitNode(child *Node, limit, offset int64) *Node {
	return NewNode(Operator{Kind: OpLimit, Limit: limit, Offset: offset}, child)
}
