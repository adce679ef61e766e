package opt

// RuleKind separates logical rewrites from physical implementations.
type RuleKind int

const (
	// Transformation rules rewrite a logical expression into equivalent
	// logical expressions, inserted back into the originating group.
	Transformation RuleKind = iota
	// Implementation rules attach physical expressions to the group of
	// the logical expression they implement.
	Implementation
)

func (k RuleKind) String() string {
	if k == Implementation {
		return "implementation"
	}
	return "transformation"
}

// Rule is a pattern, an optional applicability predicate, and a transform.
// The transform returns zero or more operator trees; the optimizer inserts
// each root into the originating group and registers new sub-trees exactly
// like a top-level insertion. Rules fire in registration order; when several
// match, the first registered wins ties.
type Rule struct {
	Name      string
	Kind      RuleKind
	Pattern   *Pattern
	Check     func(m *Memo, b *Binding) bool
	Transform func(m *Memo, b *Binding) ([]*Node, error)
}

// applicable runs the rule's Check, treating a nil Check as always true.
func (r *Rule) applicable(m *Memo, b *Binding) bool {
	return r.Check == nil || r.Check(m, b)
}

// DefaultRules returns the built-in rule set in registration order.
func DefaultRules() []*Rule {
	return []*Rule{
		JoinCommuteRule(),
		SeqScanRule(),
		IndexScanRule(),
		FilterImplRule(),
		ProjectImplRule(),
		HashJoinRule(),
		MergeJoinRule(),
		NestLoopJoinRule(),
		HashAggregateRule(),
		SortImplRule(),
		LimitImplRule(),
	}
}

// SelectRules filters rules down to the named subset, preserving
// registration order. An empty name list selects everything.
func SelectRules(rules []*Rule, names []string) []*Rule {
	if len(names) == 0 {
		return rules
	}
	enabled := make(map[string]bool, len(names))
	for _, n := range names {
		enabled[n] = true
	}
	var out []*Rule
	for _, r := range rules {
		if enabled[r.Name] {
			out = append(out, r)
		}
	}
	return out
}
