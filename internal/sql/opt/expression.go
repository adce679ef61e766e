package opt

import (
	"fmt"
	"strings"

	"github.com/dshills/CascadeDB/internal/sql/types"
)

// Expression is a scalar expression appearing in operator payloads. The
// optimizer core only needs a canonical string form for signatures and enough
// structure for rules to inspect predicates; evaluation belongs to the
// executor.
type Expression interface {
	String() string
}

// ColumnRef references a column, optionally qualified by table name.
type ColumnRef struct {
	Table string
	Name  string
}

func (c *ColumnRef) String() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

// Literal is a constant value.
type Literal struct {
	Value types.Value
}

func (l *Literal) String() string {
	return l.Value.String()
}

// ComparisonOp represents a comparison operator.
type ComparisonOp int

const (
	CmpEqual ComparisonOp = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

func (op ComparisonOp) String() string {
	switch op {
	case CmpEqual:
		return "="
	case CmpNotEqual:
		return "<>"
	case CmpLess:
		return "<"
	case CmpLessEqual:
		return "<="
	case CmpGreater:
		return ">"
	case CmpGreaterEqual:
		return ">="
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

// ComparisonExpr compares two expressions.
type ComparisonExpr struct {
	Op    ComparisonOp
	Left  Expression
	Right Expression
}

func (c *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %s", c.Left.String(), c.Op, c.Right.String())
}

// AndExpr is a conjunction of two predicates.
type AndExpr struct {
	Left  Expression
	Right Expression
}

func (a *AndExpr) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left.String(), a.Right.String())
}

// AggregateExpr is an aggregate function application.
type AggregateExpr struct {
	Func string // COUNT, SUM, MIN, MAX, AVG
	Arg  Expression
}

func (a AggregateExpr) String() string {
	if a.Arg == nil {
		return a.Func + "(*)"
	}
	return fmt.Sprintf("%s(%s)", a.Func, a.Arg.String())
}

// mirror returns the comparison that holds when the operands trade places.
func (op ComparisonOp) mirror() ComparisonOp {
	switch op {
	case CmpLess:
		return CmpGreater
	case CmpLessEqual:
		return CmpGreaterEqual
	case CmpGreater:
		return CmpLess
	case CmpGreaterEqual:
		return CmpLessEqual
	default:
		return op
	}
}

// commutedPredicate rewrites a join predicate for swapped join inputs. A plain
// comparison is mirrored so its left operand keeps referring to the left
// child; other predicate shapes evaluate on the joined row and carry over
// unchanged.
func commutedPredicate(pred Expression) Expression {
	cmp, ok := pred.(*ComparisonExpr)
	if !ok {
		return pred
	}
	return &ComparisonExpr{Op: cmp.Op.mirror(), Left: cmp.Right, Right: cmp.Left}
}

// equiJoinColumns extracts the column pair of an equi-join predicate.
// Returns false when the predicate is not a plain column = column comparison.
func equiJoinColumns(pred Expression) (left, right *ColumnRef, ok bool) {
	cmp, isCmp := pred.(*ComparisonExpr)
	if !isCmp || cmp.Op != CmpEqual {
		return nil, nil, false
	}
	l, lok := cmp.Left.(*ColumnRef)
	r, rok := cmp.Right.(*ColumnRef)
	if !lok || !rok {
		return nil, nil, false
	}
	return l, r, true
}

func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func exprListString(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func aggListString(aggs []AggregateExpr) string {
	parts := make([]string, len(aggs))
	for i, a := range aggs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
