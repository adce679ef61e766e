package opt

// winner is the best expression found so far for one PropertySet.
type winner struct {
	cost  float64
	expr  *GroupExpression
	props *PropertySet
}

// Group is an equivalence class of logically equivalent expressions. It holds
// the expressions in insertion order (index 0 is the default representative),
// a per-PropertySet winner cache, and two monotone search-progress flags.
type Group struct {
	id          GroupID
	expressions []*GroupExpression
	winners     map[string]winner

	// optimizedProps records PropertySets this group has been scheduled
	// for, so one search never optimizes the same (group, properties)
	// pair twice.
	optimizedProps map[string]bool

	explored    bool
	implemented bool

	stats *Statistics
}

// NewGroup creates an empty group with the given id.
func NewGroup(id GroupID) *Group {
	return &Group{
		id:             id,
		winners:        make(map[string]winner),
		optimizedProps: make(map[string]bool),
	}
}

// ID returns the group's id.
func (g *Group) ID() GroupID {
	return g.id
}

// AddExpression appends an expression and takes ownership of it. The Memo is
// responsible for deduplication before calling this; the group trusts the
// caller and never re-checks.
func (g *Group) AddExpression(e *GroupExpression) {
	e.group = g.id
	g.expressions = append(g.expressions, e)
}

// GetExpressions returns the expressions in insertion order. Callers must not
// mutate the returned slice.
func (g *Group) GetExpressions() []*GroupExpression {
	return g.expressions
}

// SetExpressionCost records expr as a winner candidate for props. The cached
// winner is replaced only by a strictly lower cost; on a tie the incumbent
// stays. Returns true when the winner cache changed.
func (g *Group) SetExpressionCost(expr *GroupExpression, cost float64, props *PropertySet) bool {
	expr.setCost(props, cost)

	key := props.Key()
	if current, ok := g.winners[key]; ok && current.cost <= cost {
		return false
	}
	g.winners[key] = winner{cost: cost, expr: expr, props: props}
	return true
}

// GetBestExpression returns the cached winner for props. The second return
// value is false when no winner has been recorded for this exact set, which
// means "not yet optimized", not "provably no plan exists".
func (g *Group) GetBestExpression(props *PropertySet) (*GroupExpression, bool) {
	w, ok := g.winners[props.Key()]
	if !ok {
		return nil, false
	}
	return w.expr, true
}

// BestCost returns the winning cost for props.
func (g *Group) BestCost(props *PropertySet) (float64, bool) {
	w, ok := g.winners[props.Key()]
	if !ok {
		return 0, false
	}
	return w.cost, true
}

// Explored reports whether the transformation rules have run at least once
// against every expression present when exploration completed. It is a
// progress gate: expressions added later rely on their own per-rule
// bookkeeping.
func (g *Group) Explored() bool {
	return g.explored
}

// SetExplored marks the group explored. The flag never resets.
func (g *Group) SetExplored() {
	g.explored = true
}

// Implemented reports whether a winner exists for at least one requested
// PropertySet.
func (g *Group) Implemented() bool {
	return g.implemented
}

// SetImplemented marks the group implemented. The flag never resets.
func (g *Group) SetImplemented() {
	g.implemented = true
}

// markOptimizing records that a search scheduled this group under props.
// Returns false when that already happened.
func (g *Group) markOptimizing(props *PropertySet) bool {
	key := props.Key()
	if g.optimizedProps[key] {
		return false
	}
	g.optimizedProps[key] = true
	return true
}

// Stats returns the group's logical statistics, shared by every expression
// in the group.
func (g *Group) Stats() *Statistics {
	return g.stats
}
