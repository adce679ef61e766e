package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertScanIdempotent(t *testing.T) {
	m := NewMemo(nil)

	id1, err := m.Insert(NewScanNode("public", "a"))
	require.NoError(t, err)
	id2, err := m.Insert(NewScanNode("public", "a"))
	require.NoError(t, err)

	require.Equal(t, id1, id2, "identical trees must land in the same group")
	require.Equal(t, 1, m.GroupCount())
	require.Equal(t, 1, m.ExpressionCount())

	g, err := m.GetGroup(id1)
	require.NoError(t, err)
	require.Len(t, g.GetExpressions(), 1)
}

func TestInsertJoinBuildsGroupDAG(t *testing.T) {
	m := NewMemo(nil)

	join := NewJoinNode(InnerJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Table: "a", Name: "id"},
			Right: &ColumnRef{Table: "b", Name: "id"},
		},
	)
	root, err := m.Insert(join)
	require.NoError(t, err)

	// Two scan groups plus the join group.
	require.Equal(t, 3, m.GroupCount())

	g, err := m.GetGroup(root)
	require.NoError(t, err)
	exprs := g.GetExpressions()
	require.Len(t, exprs, 1)
	require.Equal(t, OpJoin, exprs[0].Op.Kind)

	// Children are group references, not embedded sub-trees.
	require.Len(t, exprs[0].Children, 2)
	for _, child := range exprs[0].Children {
		childGroup, err := m.GetGroup(child)
		require.NoError(t, err)
		require.Equal(t, OpScan, childGroup.GetExpressions()[0].Op.Kind)
	}
}

func TestInsertSharesEquivalentSubtrees(t *testing.T) {
	m := NewMemo(nil)

	// Self-join: both sides are the same scan and must share one group.
	join := NewJoinNode(CrossJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "a"),
		nil,
	)
	root, err := m.Insert(join)
	require.NoError(t, err)
	require.Equal(t, 2, m.GroupCount())

	g, err := m.GetGroup(root)
	require.NoError(t, err)
	expr := g.GetExpressions()[0]
	require.Equal(t, expr.Children[0], expr.Children[1])
}

func TestNoDuplicateExpressions(t *testing.T) {
	m := NewMemo(nil)

	trees := []*Node{
		NewScanNode("public", "a"),
		NewFilterNode(NewScanNode("public", "a"), &ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Name: "x"},
			Right: &Literal{},
		}),
		NewFilterNode(NewScanNode("public", "a"), &ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Name: "x"},
			Right: &Literal{},
		}),
		NewLimitNode(NewScanNode("public", "b"), 10, 0),
	}
	for _, tree := range trees {
		_, err := m.Insert(tree)
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	total := 0
	for id := GroupID(0); int(id) < m.GroupCount(); id++ {
		g, err := m.GetGroup(id)
		require.NoError(t, err)
		for _, e := range g.GetExpressions() {
			seen[e.Signature()] = true
			total++
		}
	}
	require.Equal(t, len(seen), total, "every stored expression must have a distinct signature")
	require.Equal(t, total, m.ExpressionCount())
}

func TestGetGroupUnknown(t *testing.T) {
	m := NewMemo(nil)
	_, err := m.GetGroup(GroupID(42))
	require.Error(t, err)
	require.True(t, IsUnknownGroup(err))

	_, err = m.Insert(NewGroupRef(GroupID(7)))
	require.Error(t, err)
	require.True(t, IsUnknownGroup(err))
}

func TestInsertGroupRefChild(t *testing.T) {
	m := NewMemo(nil)

	scan, err := m.Insert(NewScanNode("public", "a"))
	require.NoError(t, err)

	limit, err := m.Insert(NewLimitNode(NewGroupRef(scan), 5, 0))
	require.NoError(t, err)

	g, err := m.GetGroup(limit)
	require.NoError(t, err)
	require.Equal(t, scan, g.GetExpressions()[0].Children[0])

	// The same tree spelled with an in-line subtree dedups onto it.
	again, err := m.Insert(NewLimitNode(NewScanNode("public", "a"), 5, 0))
	require.NoError(t, err)
	require.Equal(t, limit, again)
}
