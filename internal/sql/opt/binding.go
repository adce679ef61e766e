package opt

// Binding is one way a pattern matched the memo. For pinned positions Expr
// is the matched expression and Children describe its sub-matches. For Any
// positions only Group is set: the rule keeps the child attached to that
// group without committing to an alternative.
type Binding struct {
	Expr     *GroupExpression
	Group    GroupID
	Children []*Binding
}

// ChildGroup returns the group the i-th child of the binding refers to.
func (b *Binding) ChildGroup(i int) GroupID {
	if b.Children[i].Expr != nil {
		return b.Children[i].Expr.GroupID()
	}
	return b.Children[i].Group
}

// ChildRef returns a Node referencing the i-th child's group, for use in
// transform outputs.
func (b *Binding) ChildRef(i int) *Node {
	return NewGroupRef(b.ChildGroup(i))
}

// bind enumerates every way pattern can match expr. The root of a pattern is
// always pinned; for each pinned child position the binder descends into the
// child group and tries each alternative whose operator kind matches.
func bind(m *Memo, expr *GroupExpression, pattern *Pattern) []*Binding {
	if pattern.IsAny() || pattern.Kind != expr.Op.Kind {
		return nil
	}
	if pattern.Children == nil {
		return []*Binding{{Expr: expr}}
	}
	if len(pattern.Children) != len(expr.Children) {
		return nil
	}

	// Enumerate the candidate bindings of each child position, then take
	// the cross product.
	perChild := make([][]*Binding, len(expr.Children))
	for i, childPattern := range pattern.Children {
		childID := expr.Children[i]
		if childPattern.IsAny() {
			perChild[i] = []*Binding{{Group: childID}}
			continue
		}
		childGroup, err := m.GetGroup(childID)
		if err != nil {
			return nil
		}
		for _, childExpr := range childGroup.GetExpressions() {
			perChild[i] = append(perChild[i], bind(m, childExpr, childPattern)...)
		}
		if len(perChild[i]) == 0 {
			return nil
		}
	}

	var out []*Binding
	cross(perChild, make([]*Binding, len(perChild)), 0, func(children []*Binding) {
		bound := make([]*Binding, len(children))
		copy(bound, children)
		out = append(out, &Binding{Expr: expr, Children: bound})
	})
	return out
}

// cross walks the cartesian product of the candidate lists.
func cross(candidates [][]*Binding, current []*Binding, pos int, emit func([]*Binding)) {
	if pos == len(candidates) {
		emit(current)
		return
	}
	for _, c := range candidates[pos] {
		current[pos] = c
		cross(candidates, current, pos+1, emit)
	}
}
