package opt

import (
	"github.com/dshills/CascadeDB/internal/catalog"
)

// Memo owns every Group and GroupExpression of one optimization session and
// deduplicates expressions by structural signature. All cross-references are
// GroupIDs resolved through the memo, never direct pointers, which keeps the
// plan space a DAG of independently owned groups. Dropping the memo tears
// down the whole session.
type Memo struct {
	cat        catalog.Catalog
	groups     map[GroupID]*Group
	signatures map[string]GroupID
	nextID     GroupID
}

// NewMemo creates an empty memo. The catalog may be nil, in which case scans
// fall back to default statistics.
func NewMemo(cat catalog.Catalog) *Memo {
	return &Memo{
		cat:        cat,
		groups:     make(map[GroupID]*Group),
		signatures: make(map[string]GroupID),
	}
}

// Insert registers a logical operator tree, inserting children first, and
// returns the root's group. Inserting a structurally identical tree twice
// returns the same GroupID both times.
func (m *Memo) Insert(node *Node) (GroupID, error) {
	id, _, err := m.insert(node, InvalidGroup, nil)
	return id, err
}

// Catalog returns the catalog the memo was created with, or nil.
func (m *Memo) Catalog() catalog.Catalog {
	return m.cat
}

// GetGroup resolves a group id issued by this memo.
func (m *Memo) GetGroup(id GroupID) (*Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, newUnknownGroupError(id)
	}
	return g, nil
}

// GroupCount returns the number of groups in the memo.
func (m *Memo) GroupCount() int {
	return len(m.groups)
}

// ExpressionCount returns the number of expressions across all groups.
func (m *Memo) ExpressionCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.expressions)
	}
	return n
}

// insert registers node and its sub-trees bottom-up. When target is a valid
// group, the root expression is attached to that group (rule outputs stay in
// the group they rewrite); otherwise an equivalent existing group is reused
// or a new one allocated. Newly allocated group ids are appended to created
// when it is non-nil. The returned expression is nil when the root was a
// duplicate or a plain group reference.
func (m *Memo) insert(node *Node, target GroupID, created *[]GroupID) (GroupID, *GroupExpression, error) {
	if node.IsGroupRef() {
		if _, ok := m.groups[node.Ref]; !ok {
			return InvalidGroup, nil, newUnknownGroupError(node.Ref)
		}
		return node.Ref, nil, nil
	}

	childIDs := make([]GroupID, 0, len(node.Children))
	for _, child := range node.Children {
		id, _, err := m.insert(child, InvalidGroup, created)
		if err != nil {
			return InvalidGroup, nil, err
		}
		childIDs = append(childIDs, id)
	}

	expr := NewGroupExpression(node.Op, childIDs)
	sig := expr.Signature()
	if id, ok := m.signatures[sig]; ok {
		return id, nil, nil
	}

	var g *Group
	if target != InvalidGroup {
		var ok bool
		g, ok = m.groups[target]
		if !ok {
			return InvalidGroup, nil, newUnknownGroupError(target)
		}
	} else {
		g = m.newGroup(node.Op, childIDs)
		if created != nil {
			*created = append(*created, g.ID())
		}
	}

	g.AddExpression(expr)
	m.signatures[sig] = g.ID()
	return g.ID(), expr, nil
}

// newGroup allocates a group and derives its logical statistics from the
// operator that founds it. GroupIDs are immutable once issued.
func (m *Memo) newGroup(op Operator, childIDs []GroupID) *Group {
	g := NewGroup(m.nextID)
	m.nextID++

	childStats := make([]*Statistics, len(childIDs))
	for i, id := range childIDs {
		if child, ok := m.groups[id]; ok {
			childStats[i] = child.stats
		}
	}
	g.stats = deriveStats(m.cat, op, childStats)

	m.groups[g.ID()] = g
	return g
}
