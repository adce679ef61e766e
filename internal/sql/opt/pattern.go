package opt

// Pattern is the shape a rule matches against. A pinned pattern requires a
// specific operator kind at its position; an Any pattern accepts whatever
// expression the child group currently holds, without descending into it.
// A pinned pattern with nil Children matches regardless of the children.
type Pattern struct {
	Kind     OperatorKind
	Children []*Pattern

	any bool
}

// MatchOp creates a pinned pattern for the given kind. With no child
// patterns the match does not constrain children.
func MatchOp(kind OperatorKind, children ...*Pattern) *Pattern {
	return &Pattern{Kind: kind, Children: children}
}

// MatchAny creates a pattern accepting any expression in the child group.
func MatchAny() *Pattern {
	return &Pattern{any: true}
}

// IsAny reports whether the pattern accepts any expression.
func (p *Pattern) IsAny() bool {
	return p.any
}
