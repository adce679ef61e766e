package opt

import (
	"context"
	"time"

	"github.com/dshills/CascadeDB/internal/config"
	"github.com/dshills/CascadeDB/internal/log"
)

// Optimizer drives the top-down search over one memo. It is single-threaded:
// one memo, one task stack, no shared mutable state with other sessions.
type Optimizer struct {
	memo            *Memo
	transformations []*Rule
	implementations []*Rule
	model           CostModel
	logger          log.Logger

	upperBound float64
	timeout    time.Duration

	tasks []task
}

// NewOptimizer creates an optimizer over the given memo. A nil cfg uses the
// defaults; a nil logger discards.
func NewOptimizer(m *Memo, model CostModel, cfg *config.OptimizerConfig, logger log.Logger) *Optimizer {
	if cfg == nil {
		cfg = &config.DefaultConfig().Optimizer
	}
	if logger == nil {
		logger = log.Discard()
	}
	if model == nil {
		model = NewDefaultCostModel(cfg.Cost)
	}

	o := &Optimizer{
		memo:       m,
		model:      model,
		logger:     logger,
		upperBound: cfg.CostUpperBound,
		timeout:    cfg.SearchTimeout.Std(),
	}
	for _, r := range SelectRules(DefaultRules(), cfg.Rules) {
		o.RegisterRule(r)
	}
	return o
}

// RegisterRule appends a rule to the session's rule set. Rules fire in
// registration order.
func (o *Optimizer) RegisterRule(r *Rule) {
	if r.Kind == Transformation {
		o.transformations = append(o.transformations, r)
	} else {
		o.implementations = append(o.implementations, r)
	}
}

// Memo returns the memo the optimizer searches.
func (o *Optimizer) Memo() *Memo {
	return o.memo
}

// Optimize searches for the cheapest physical plan computing root under the
// required properties. On timeout it returns the best plan found so far, or
// an OptimizationTimeout error when none exists yet.
func (o *Optimizer) Optimize(ctx context.Context, root GroupID, required *PropertySet) (*PhysicalPlan, error) {
	if _, err := o.memo.GetGroup(root); err != nil {
		return nil, err
	}
	if required == nil {
		required = EmptyPropertySet()
	}

	var deadline time.Time
	if o.timeout > 0 {
		deadline = time.Now().Add(o.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	o.tasks = o.tasks[:0]
	o.push(&optimizeGroupTask{group: root, required: required})

	expired := false
	steps := 0
	for len(o.tasks) > 0 {
		if ctx.Err() != nil {
			expired = true
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			expired = true
			break
		}
		t := o.pop()
		steps++
		if err := t.perform(o); err != nil {
			return nil, err
		}
	}
	o.logger.Debug("search finished",
		"steps", steps, "groups", o.memo.GroupCount(),
		"expressions", o.memo.ExpressionCount(), "expired", expired)

	plan, err := o.ExtractPlan(root, required)
	if err != nil {
		if expired && IsNoApplicablePlan(err) {
			return nil, newTimeoutError(root, required)
		}
		return nil, err
	}
	return plan, nil
}

func (o *Optimizer) push(t task) {
	o.tasks = append(o.tasks, t)
}

func (o *Optimizer) pop() task {
	t := o.tasks[len(o.tasks)-1]
	o.tasks = o.tasks[:len(o.tasks)-1]
	return t
}

// fireRule binds and applies one transformation rule inline during
// exploration. Outputs land in expr's group; child groups created along the
// way are scheduled for their own exploration.
func (o *Optimizer) fireRule(rule *Rule, expr *GroupExpression) error {
	_, err := o.applyBindings(rule, expr, nil)
	return err
}

// fireRuleScheduled applies one rule and schedules follow-up work for its
// outputs: costing for new physical expressions, implementation for new
// logical ones.
func (o *Optimizer) fireRuleScheduled(rule *Rule, expr *GroupExpression, required *PropertySet) error {
	produced, err := o.applyBindings(rule, expr, nil)
	if err != nil {
		return err
	}
	for _, out := range produced {
		if out.IsPhysical() {
			o.push(&optimizeInputsTask{expr: out, required: required})
		} else {
			o.push(&optimizeExpressionTask{expr: out, required: required})
		}
	}
	return nil
}

// applyBindings enumerates the rule's bindings against expr, runs the
// transform for each applicable one, and inserts the outputs into expr's
// group. It returns the expressions that were actually new.
func (o *Optimizer) applyBindings(rule *Rule, expr *GroupExpression, created *[]GroupID) ([]*GroupExpression, error) {
	var produced []*GroupExpression
	for _, b := range bind(o.memo, expr, rule.Pattern) {
		if !rule.applicable(o.memo, b) {
			continue
		}
		outs, err := rule.Transform(o.memo, b)
		if err != nil {
			return nil, newRuleFailureError(rule.Name, err)
		}
		for _, node := range outs {
			var newGroups []GroupID
			_, newExpr, err := o.memo.insert(node, expr.GroupID(), &newGroups)
			if err != nil {
				return nil, err
			}
			if newExpr != nil {
				o.logger.Debug("rule produced expression",
					"rule", rule.Name, "expr", newExpr.String())
				produced = append(produced, newExpr)
			}
			if rule.Kind == Transformation {
				for _, g := range newGroups {
					o.push(&exploreGroupTask{group: g})
				}
			}
			if created != nil {
				*created = append(*created, newGroups...)
			}
		}
	}
	return produced, nil
}

// satisfies reports whether a costed physical expression delivers the
// required properties. Pass-through operators count as satisfying because
// their children were asked for the same requirement.
func (o *Optimizer) satisfies(e *GroupExpression, required *PropertySet) bool {
	if required.IsEmpty() {
		return true
	}
	for _, p := range required.Properties() {
		switch prop := p.(type) {
		case *SortProperty:
			switch e.Op.Kind {
			case OpIndexScan, OpPhysicalSort, OpMergeJoin:
				if !sortSatisfies(e.Op.SortKeys, prop.Keys) {
					return false
				}
			case OpPhysicalFilter, OpPhysicalProject, OpPhysicalLimit:
				// Order-preserving; the requirement was passed down.
			default:
				return false
			}
		default:
			// Nothing in the single-node core provides a distribution.
			return false
		}
	}
	return true
}

// sortSatisfies reports whether the provided ordering covers the required
// one: the required keys must be a prefix of the provided keys.
func sortSatisfies(provided, required []SortKey) bool {
	if len(required) > len(provided) {
		return false
	}
	for i, k := range required {
		if provided[i] != k {
			return false
		}
	}
	return true
}

// requiredInputProps returns the properties the expression's operator
// demands of each child when optimized under required. Order-preserving
// operators pass the requirement through; a merge join requires its key
// orderings; everything else leaves its children unconstrained. A child
// referencing the expression's own group is an enforcer input and is always
// resolved unconstrained, which is what keeps extraction acyclic.
func requiredInputProps(e *GroupExpression, required *PropertySet) []*PropertySet {
	props := make([]*PropertySet, len(e.Children))
	for i := range props {
		props[i] = EmptyPropertySet()
	}

	switch e.Op.Kind {
	case OpPhysicalFilter, OpPhysicalProject, OpPhysicalLimit:
		if len(props) == 1 {
			props[0] = required
		}
	case OpMergeJoin:
		props[0] = NewPropertySet(NewSortProperty(e.Op.LeftKeys...))
		props[1] = NewPropertySet(NewSortProperty(e.Op.RightKeys...))
	}

	for i := range e.Children {
		if e.isSelfRef(i) {
			props[i] = EmptyPropertySet()
		}
	}
	return props
}
