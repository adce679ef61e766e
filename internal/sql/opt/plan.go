package opt

import (
	"fmt"
	"strings"
)

// PhysicalPlan is the extracted answer: a tree of physical operators with
// every child resolved to the winning sub-plan. It is what gets handed to
// the plan-execution builder.
type PhysicalPlan struct {
	Op       Operator
	Children []*PhysicalPlan
	Cost     float64
	Rows     float64
}

func (p *PhysicalPlan) String() string {
	return fmt.Sprintf("%s (cost=%.2f rows=%.0f)", p.Op, p.Cost, p.Rows)
}

// Format renders the plan tree with indentation, EXPLAIN-style.
func (p *PhysicalPlan) Format() string {
	var b strings.Builder
	p.format(&b, 0)
	return b.String()
}

func (p *PhysicalPlan) format(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(p.String())
	b.WriteByte('\n')
	for _, c := range p.Children {
		c.format(b, depth+1)
	}
}

// ExtractPlan resolves the winner chain for root under the required
// properties into a full physical plan. Each winner's children resolve under
// the properties that winner demanded of them; an enforcer's self-reference
// resolves unconstrained, so the recursion cannot revisit the same
// (group, properties) pair.
func (o *Optimizer) ExtractPlan(root GroupID, required *PropertySet) (*PhysicalPlan, error) {
	if required == nil {
		required = EmptyPropertySet()
	}
	g, err := o.memo.GetGroup(root)
	if err != nil {
		return nil, err
	}
	expr, ok := g.GetBestExpression(required)
	if !ok {
		return nil, newNoApplicablePlanError(root, required)
	}
	cost, _ := g.BestCost(required)

	childProps := requiredInputProps(expr, required)
	children := make([]*PhysicalPlan, len(expr.Children))
	for i, childID := range expr.Children {
		child, err := o.ExtractPlan(childID, childProps[i])
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	rows := 0.0
	if g.Stats() != nil {
		rows = g.Stats().RowCount
	}
	return &PhysicalPlan{
		Op:       expr.Op,
		Children: children,
		Cost:     cost,
		Rows:     rows,
	}, nil
}
