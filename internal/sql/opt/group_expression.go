package opt

import (
	"fmt"
	"strings"
)

// GroupID identifies a memo group. IDs are issued by one Memo and are
// meaningless outside it.
type GroupID int32

// InvalidGroup is the zero reference: no group.
const InvalidGroup GroupID = -1

func (id GroupID) String() string {
	return fmt.Sprintf("g%d", int32(id))
}

// GroupExpression is one concrete way to compute a group's result: an
// operator whose children are group references rather than sub-trees. An
// expression belongs to exactly one group and never changes its operator or
// children once created.
type GroupExpression struct {
	Op       Operator
	Children []GroupID

	group        GroupID
	signature    string
	costs        map[string]float64
	appliedRules map[string]bool
}

// NewGroupExpression creates an expression not yet owned by a group. The
// Memo assigns ownership when it registers the expression.
func NewGroupExpression(op Operator, children []GroupID) *GroupExpression {
	return &GroupExpression{
		Op:           op,
		Children:     children,
		group:        InvalidGroup,
		costs:        make(map[string]float64),
		appliedRules: make(map[string]bool),
	}
}

// GroupID returns the owning group.
func (e *GroupExpression) GroupID() GroupID {
	return e.group
}

// IsLogical reports whether the operator is logical.
func (e *GroupExpression) IsLogical() bool {
	return e.Op.Kind.IsLogical()
}

// IsPhysical reports whether the operator is physical.
func (e *GroupExpression) IsPhysical() bool {
	return e.Op.Kind.IsPhysical()
}

// Signature returns the canonical dedup key: operator kind, payload content
// and ordered child group IDs. Computed once; children never change.
func (e *GroupExpression) Signature() string {
	if e.signature == "" {
		var b strings.Builder
		b.WriteString(e.Op.signature())
		b.WriteByte('[')
		for i, c := range e.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(c.String())
		}
		b.WriteByte(']')
		e.signature = b.String()
	}
	return e.signature
}

// CostFor returns the cost computed for the given required properties.
func (e *GroupExpression) CostFor(props *PropertySet) (float64, bool) {
	cost, ok := e.costs[props.Key()]
	return cost, ok
}

func (e *GroupExpression) setCost(props *PropertySet, cost float64) {
	e.costs[props.Key()] = cost
}

// RuleApplied reports whether the named rule already ran against this
// expression. Rule application bookkeeping is per expression, not per group:
// expressions added after a group was marked explored still start clean.
func (e *GroupExpression) RuleApplied(name string) bool {
	return e.appliedRules[name]
}

// MarkRuleApplied records that the named rule ran against this expression.
func (e *GroupExpression) MarkRuleApplied(name string) {
	e.appliedRules[name] = true
}

// isSelfRef reports whether child i references the expression's own group.
// Only property enforcers are created this way.
func (e *GroupExpression) isSelfRef(i int) bool {
	return e.Children[i] == e.group
}

func (e *GroupExpression) String() string {
	return e.Signature()
}
