package opt

import "fmt"

// task is one unit of scheduler work. Tasks run off an explicit LIFO stack
// instead of native recursion, which bounds call depth on deep plan trees
// and gives the scheduler a cancellation point between pops. A task that
// needs work from the tasks it pushes re-pushes itself first with a bumped
// phase, so the pushed work pops ahead of the continuation.
type task interface {
	perform(o *Optimizer) error
	desc() string
}

// exploreGroupTask applies every registered transformation rule to every
// expression of the group, growing it with logically equivalent rewrites,
// then marks the group explored.
type exploreGroupTask struct {
	group GroupID
}

func (t *exploreGroupTask) desc() string {
	return fmt.Sprintf("explore %s", t.group)
}

func (t *exploreGroupTask) perform(o *Optimizer) error {
	g, err := o.memo.GetGroup(t.group)
	if err != nil {
		return err
	}
	if g.Explored() {
		return nil
	}

	// The expression slice grows while rules fire; the index loop picks up
	// rewrites appended behind the cursor.
	for i := 0; i < len(g.GetExpressions()); i++ {
		expr := g.GetExpressions()[i]
		if !expr.IsLogical() {
			continue
		}
		for _, rule := range o.transformations {
			if expr.RuleApplied(rule.Name) {
				continue
			}
			expr.MarkRuleApplied(rule.Name)
			if err := o.fireRule(rule, expr); err != nil {
				return err
			}
		}
	}

	g.SetExplored()
	return nil
}

// optimizeGroupTask optimizes a group under a required PropertySet: explore
// first if needed, then optimize every expression, then enforce the
// properties if nothing satisfied them natively.
type optimizeGroupTask struct {
	group    GroupID
	required *PropertySet
	phase    int
}

func (t *optimizeGroupTask) desc() string {
	return fmt.Sprintf("optimize %s under %s", t.group, t.required)
}

func (t *optimizeGroupTask) perform(o *Optimizer) error {
	g, err := o.memo.GetGroup(t.group)
	if err != nil {
		return err
	}

	if t.phase == 0 {
		if !g.markOptimizing(t.required) {
			return nil
		}
		o.push(&optimizeGroupTask{group: t.group, required: t.required, phase: 1})
		if !g.Explored() {
			o.push(&exploreGroupTask{group: t.group})
		}
		return nil
	}

	// Pushed first so it runs after every expression task below it.
	o.push(&enforcePropertyTask{group: t.group, required: t.required})
	for _, expr := range g.GetExpressions() {
		if expr.IsLogical() {
			o.push(&optimizeExpressionTask{expr: expr, required: t.required})
		} else {
			o.push(&optimizeInputsTask{expr: expr, required: t.required})
		}
	}
	return nil
}

// optimizeExpressionTask schedules the implementation rules for one logical
// expression. Each rule runs as its own applyRuleTask; the physical
// expressions they produce are costed by optimizeInputsTasks.
type optimizeExpressionTask struct {
	expr     *GroupExpression
	required *PropertySet
}

func (t *optimizeExpressionTask) desc() string {
	return fmt.Sprintf("optimize expression %s", t.expr)
}

func (t *optimizeExpressionTask) perform(o *Optimizer) error {
	for _, rule := range o.implementations {
		if t.expr.RuleApplied(rule.Name) {
			continue
		}
		t.expr.MarkRuleApplied(rule.Name)
		o.push(&applyRuleTask{rule: rule, expr: t.expr, required: t.required})
	}
	return nil
}

// applyRuleTask executes one rule transform against one expression,
// inserting the results into the expression's own group.
type applyRuleTask struct {
	rule     *Rule
	expr     *GroupExpression
	required *PropertySet
}

func (t *applyRuleTask) desc() string {
	return fmt.Sprintf("apply %s to %s", t.rule.Name, t.expr)
}

func (t *applyRuleTask) perform(o *Optimizer) error {
	return o.fireRuleScheduled(t.rule, t.expr, t.required)
}

// optimizeInputsTask costs one physical expression under the required
// properties. Phase 0 schedules the child groups under the properties the
// operator demands of them; phase 1 collects child winners, computes the
// cost, prunes against the cost upper bound, and updates the winner cache.
type optimizeInputsTask struct {
	expr     *GroupExpression
	required *PropertySet
	phase    int
}

func (t *optimizeInputsTask) desc() string {
	return fmt.Sprintf("cost %s under %s", t.expr, t.required)
}

func (t *optimizeInputsTask) perform(o *Optimizer) error {
	childProps := requiredInputProps(t.expr, t.required)

	if t.phase == 0 {
		o.push(&optimizeInputsTask{expr: t.expr, required: t.required, phase: 1})
		for i, childID := range t.expr.Children {
			o.push(&optimizeGroupTask{group: childID, required: childProps[i]})
		}
		return nil
	}

	childCosts := make([]float64, len(t.expr.Children))
	childStats := make([]*Statistics, len(t.expr.Children))
	for i, childID := range t.expr.Children {
		child, err := o.memo.GetGroup(childID)
		if err != nil {
			return err
		}
		cost, ok := child.BestCost(childProps[i])
		if !ok {
			// No plan delivers what this operator needs from that
			// child; the expression stays uncosted.
			return nil
		}
		childCosts[i] = cost
		childStats[i] = child.Stats()
	}

	g, err := o.memo.GetGroup(t.expr.GroupID())
	if err != nil {
		return err
	}
	cost := o.model.Cost(t.expr, &CostContext{
		ChildCosts: childCosts,
		ChildStats: childStats,
		Stats:      g.Stats(),
		Required:   t.required,
	})

	if o.upperBound > 0 && cost > o.upperBound {
		o.logger.Debug("pruned expression over cost bound",
			"expr", t.expr.String(), "cost", cost, "bound", o.upperBound)
		return nil
	}

	if !o.satisfies(t.expr, t.required) {
		return nil
	}
	if g.SetExpressionCost(t.expr, cost, t.required) {
		o.logger.Debug("new winner",
			"group", g.ID().String(), "required", t.required.String(),
			"expr", t.expr.String(), "cost", cost)
	}
	return nil
}

// enforcePropertyTask runs after a group's expressions were optimized under
// a PropertySet. If none satisfied it natively, the group's cheapest
// unconstrained plan is wrapped with an enforcing physical sort.
type enforcePropertyTask struct {
	group    GroupID
	required *PropertySet
	phase    int
}

func (t *enforcePropertyTask) desc() string {
	return fmt.Sprintf("enforce %s on %s", t.required, t.group)
}

func (t *enforcePropertyTask) perform(o *Optimizer) error {
	g, err := o.memo.GetGroup(t.group)
	if err != nil {
		return err
	}
	if _, ok := g.GetBestExpression(t.required); ok {
		g.SetImplemented()
		return nil
	}
	if t.required.IsEmpty() {
		return nil
	}
	// Only orderings are enforceable; a required distribution either holds
	// natively or the group stays without a winner.
	if t.required.Get(PropertyDistribution) != nil {
		return nil
	}
	sortProp, ok := t.required.Get(PropertySort).(*SortProperty)
	if !ok {
		return nil
	}

	if t.phase == 0 {
		o.push(&enforcePropertyTask{group: t.group, required: t.required, phase: 1})
		o.push(&optimizeGroupTask{group: t.group, required: EmptyPropertySet()})
		return nil
	}

	baseCost, ok := g.BestCost(EmptyPropertySet())
	if !ok {
		return nil
	}
	enforcer := NewNode(Operator{Kind: OpPhysicalSort, SortKeys: sortProp.Keys}, NewGroupRef(t.group))
	_, expr, err := o.memo.insert(enforcer, t.group, nil)
	if err != nil {
		return err
	}
	if expr == nil {
		// An identical enforcer already exists from a previous search.
		return nil
	}

	cost := o.model.Cost(expr, &CostContext{
		ChildCosts: []float64{baseCost},
		ChildStats: []*Statistics{g.Stats()},
		Stats:      g.Stats(),
		Required:   t.required,
	})
	if o.upperBound > 0 && cost > o.upperBound {
		return nil
	}
	if g.SetExpressionCost(expr, cost, t.required) {
		o.logger.Debug("enforced property",
			"group", g.ID().String(), "required", t.required.String(), "cost", cost)
	}
	g.SetImplemented()
	return nil
}
