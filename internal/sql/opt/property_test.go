package opt

import (
	"testing"

	"github.com/dshills/CascadeDB/internal/testutil"
)

func TestPropertySetUniqueByType(t *testing.T) {
	ps := NewPropertySet(
		NewSortProperty(SortKey{Column: "a"}),
		NewSortProperty(SortKey{Column: "b"}),
	)

	props := ps.Properties()
	testutil.AssertEqual(t, 1, len(props))
	testutil.AssertEqual(t, "sort(b ASC)", props[0].String())
}

func TestPropertySetKeyOrderIndependent(t *testing.T) {
	sort := NewSortProperty(SortKey{Column: "id"})
	dist := &DistributionProperty{Distribution: DistributionSingleton}

	a := NewPropertySet(sort, dist)
	b := NewPropertySet(dist, sort)

	testutil.AssertEqual(t, a.Key(), b.Key())
	testutil.AssertTrue(t, a.Equal(b), "sets with equal members must be equal")
}

func TestPropertySetExactMatch(t *testing.T) {
	weak := NewPropertySet(NewSortProperty(SortKey{Column: "id"}))
	strong := NewPropertySet(
		NewSortProperty(SortKey{Column: "id"}),
		&DistributionProperty{Distribution: DistributionSingleton},
	)

	// A stronger set never compares equal to a weaker one: winner lookup
	// is exact-match, not subsumption.
	testutil.AssertFalse(t, weak.Equal(strong), "weaker and stronger sets must differ")
	testutil.AssertTrue(t, weak.Key() != strong.Key(), "keys must differ")
}

func TestEmptyPropertySet(t *testing.T) {
	testutil.AssertTrue(t, EmptyPropertySet().IsEmpty(), "empty set should be empty")
	testutil.AssertEqual(t, "", EmptyPropertySet().Key())
	testutil.AssertTrue(t, EmptyPropertySet().Equal(NewPropertySet()), "empty sets are equal")

	var nilSet *PropertySet
	testutil.AssertTrue(t, nilSet.IsEmpty(), "nil set behaves as empty")
	testutil.AssertTrue(t, nilSet.Equal(EmptyPropertySet()), "nil equals empty")
}

func TestSortPropertyEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *SortProperty
		equal bool
	}{
		{
			name:  "same keys",
			a:     NewSortProperty(SortKey{Column: "id"}),
			b:     NewSortProperty(SortKey{Column: "id"}),
			equal: true,
		},
		{
			name:  "different column",
			a:     NewSortProperty(SortKey{Column: "id"}),
			b:     NewSortProperty(SortKey{Column: "email"}),
			equal: false,
		},
		{
			name:  "different direction",
			a:     NewSortProperty(SortKey{Column: "id", Order: Ascending}),
			b:     NewSortProperty(SortKey{Column: "id", Order: Descending}),
			equal: false,
		},
		{
			name:  "prefix is not equality",
			a:     NewSortProperty(SortKey{Column: "id"}),
			b:     NewSortProperty(SortKey{Column: "id"}, SortKey{Column: "email"}),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.equal, tt.a.Equal(tt.b))
			testutil.AssertEqual(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestSortSatisfiesPrefix(t *testing.T) {
	provided := []SortKey{{Column: "a"}, {Column: "b"}}

	testutil.AssertTrue(t, sortSatisfies(provided, []SortKey{{Column: "a"}}), "prefix should be satisfied")
	testutil.AssertTrue(t, sortSatisfies(provided, provided), "exact match should be satisfied")
	testutil.AssertFalse(t, sortSatisfies([]SortKey{{Column: "a"}}, provided), "shorter ordering cannot satisfy longer requirement")
	testutil.AssertFalse(t, sortSatisfies(provided, []SortKey{{Column: "b"}}), "non-prefix key is not satisfied")
}
