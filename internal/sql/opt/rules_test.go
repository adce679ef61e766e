package opt

import (
	"testing"

	"github.com/dshills/CascadeDB/internal/testutil"
)

func insertInnerJoin(t *testing.T) (*Memo, *GroupExpression) {
	t.Helper()
	m := NewMemo(nil)
	root, err := m.Insert(NewJoinNode(InnerJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Table: "a", Name: "id"},
			Right: &ColumnRef{Table: "b", Name: "id"},
		},
	))
	testutil.AssertNoError(t, err)
	g, err := m.GetGroup(root)
	testutil.AssertNoError(t, err)
	return m, g.GetExpressions()[0]
}

func applyRuleTo(t *testing.T, m *Memo, r *Rule, expr *GroupExpression) []*GroupExpression {
	t.Helper()
	var produced []*GroupExpression
	for _, b := range bind(m, expr, r.Pattern) {
		if !r.applicable(m, b) {
			continue
		}
		outs, err := r.Transform(m, b)
		testutil.AssertNoError(t, err)
		for _, node := range outs {
			_, newExpr, err := m.insert(node, expr.GroupID(), nil)
			testutil.AssertNoError(t, err)
			if newExpr != nil {
				produced = append(produced, newExpr)
			}
		}
	}
	return produced
}

func TestJoinCommuteInsertsIntoSameGroup(t *testing.T) {
	m, join := insertInnerJoin(t)
	g, err := m.GetGroup(join.GroupID())
	testutil.AssertNoError(t, err)

	produced := applyRuleTo(t, m, JoinCommuteRule(), join)
	testutil.AssertEqual(t, 1, len(produced))
	testutil.AssertEqual(t, 2, len(g.GetExpressions()))
	testutil.AssertEqual(t, join.GroupID(), produced[0].GroupID())

	// The rewrite swapped the children but created no new groups.
	testutil.AssertEqual(t, join.Children[0], produced[0].Children[1])
	testutil.AssertEqual(t, join.Children[1], produced[0].Children[0])
	testutil.AssertEqual(t, 3, m.GroupCount())

	// Commuting the commuted join dedups back onto the original.
	again := applyRuleTo(t, m, JoinCommuteRule(), produced[0])
	testutil.AssertEqual(t, 0, len(again))
	testutil.AssertEqual(t, 2, len(g.GetExpressions()))
}

func TestJoinCommuteMirrorsPredicate(t *testing.T) {
	m := NewMemo(nil)
	root, err := m.Insert(NewJoinNode(InnerJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Table: "a", Name: "x"},
			Right: &ColumnRef{Table: "b", Name: "y"},
		},
	))
	testutil.AssertNoError(t, err)
	g, err := m.GetGroup(root)
	testutil.AssertNoError(t, err)
	join := g.GetExpressions()[0]

	produced := applyRuleTo(t, m, JoinCommuteRule(), join)
	testutil.AssertEqual(t, 1, len(produced))

	// The comparison swaps sides with the children, so the left operand
	// still belongs to the left input.
	cmp, ok := produced[0].Op.Predicate.(*ComparisonExpr)
	testutil.AssertTrue(t, ok, "commuted predicate should stay a comparison")
	testutil.AssertEqual(t, "b.y", cmp.Left.String())
	testutil.AssertEqual(t, "a.x", cmp.Right.String())

	// A merge join built from the commuted expression sorts each input by
	// its own join key.
	mj := applyRuleTo(t, m, MergeJoinRule(), produced[0])
	testutil.AssertEqual(t, 1, len(mj))
	testutil.AssertEqual(t, []SortKey{{Column: "y", Order: Ascending}}, mj[0].Op.LeftKeys)
	testutil.AssertEqual(t, []SortKey{{Column: "x", Order: Ascending}}, mj[0].Op.RightKeys)
}

func TestJoinCommuteMirrorsRangeComparison(t *testing.T) {
	m := NewMemo(nil)
	root, err := m.Insert(NewJoinNode(InnerJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpLess,
			Left:  &ColumnRef{Table: "a", Name: "x"},
			Right: &ColumnRef{Table: "b", Name: "y"},
		},
	))
	testutil.AssertNoError(t, err)
	g, err := m.GetGroup(root)
	testutil.AssertNoError(t, err)

	produced := applyRuleTo(t, m, JoinCommuteRule(), g.GetExpressions()[0])
	testutil.AssertEqual(t, 1, len(produced))

	cmp := produced[0].Op.Predicate.(*ComparisonExpr)
	testutil.AssertEqual(t, CmpGreater, cmp.Op)
	testutil.AssertEqual(t, "b.y", cmp.Left.String())
}

func TestJoinCommuteSkipsOuterJoin(t *testing.T) {
	m := NewMemo(nil)
	root, err := m.Insert(NewJoinNode(LeftJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpEqual,
			Left:  &ColumnRef{Table: "a", Name: "id"},
			Right: &ColumnRef{Table: "b", Name: "id"},
		},
	))
	testutil.AssertNoError(t, err)
	g, err := m.GetGroup(root)
	testutil.AssertNoError(t, err)

	produced := applyRuleTo(t, m, JoinCommuteRule(), g.GetExpressions()[0])
	testutil.AssertEqual(t, 0, len(produced))
}

func TestJoinImplementationAlternatives(t *testing.T) {
	m, join := insertInnerJoin(t)
	g, err := m.GetGroup(join.GroupID())
	testutil.AssertNoError(t, err)

	kinds := make(map[OperatorKind]bool)
	for _, r := range []*Rule{HashJoinRule(), MergeJoinRule(), NestLoopJoinRule()} {
		for _, e := range applyRuleTo(t, m, r, join) {
			kinds[e.Op.Kind] = true
		}
	}

	testutil.AssertTrue(t, kinds[OpHashJoin], "hash join expected for inner equi-join")
	testutil.AssertTrue(t, kinds[OpMergeJoin], "merge join expected for inner equi-join")
	testutil.AssertTrue(t, kinds[OpNestLoopJoin], "nested-loop join expected as fallback")
	testutil.AssertEqual(t, 4, len(g.GetExpressions()))
}

func TestMergeJoinRecordsKeyOrderings(t *testing.T) {
	m, join := insertInnerJoin(t)

	produced := applyRuleTo(t, m, MergeJoinRule(), join)
	testutil.AssertEqual(t, 1, len(produced))

	mj := produced[0].Op
	testutil.AssertEqual(t, []SortKey{{Column: "id", Order: Ascending}}, mj.LeftKeys)
	testutil.AssertEqual(t, []SortKey{{Column: "id", Order: Ascending}}, mj.RightKeys)
	testutil.AssertEqual(t, mj.LeftKeys, mj.SortKeys)
}

func TestHashJoinRequiresEquiPredicate(t *testing.T) {
	m := NewMemo(nil)
	root, err := m.Insert(NewJoinNode(InnerJoin,
		NewScanNode("public", "a"),
		NewScanNode("public", "b"),
		&ComparisonExpr{
			Op:    CmpLess,
			Left:  &ColumnRef{Table: "a", Name: "id"},
			Right: &ColumnRef{Table: "b", Name: "id"},
		},
	))
	testutil.AssertNoError(t, err)
	g, err := m.GetGroup(root)
	testutil.AssertNoError(t, err)
	join := g.GetExpressions()[0]

	testutil.AssertEqual(t, 0, len(applyRuleTo(t, m, HashJoinRule(), join)))
	testutil.AssertEqual(t, 1, len(applyRuleTo(t, m, NestLoopJoinRule(), join)))
}

func TestSelectRules(t *testing.T) {
	all := DefaultRules()

	testutil.AssertEqual(t, len(all), len(SelectRules(all, nil)))

	subset := SelectRules(all, []string{"SeqScan", "FilterImpl"})
	testutil.AssertEqual(t, 2, len(subset))
	testutil.AssertEqual(t, "SeqScan", subset[0].Name)
	testutil.AssertEqual(t, "FilterImpl", subset[1].Name)
}
