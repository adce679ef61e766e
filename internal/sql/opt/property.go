package opt

import (
	"fmt"
	"sort"
	"strings"
)

// PropertyType identifies a kind of physical property. A PropertySet holds at
// most one property per type.
type PropertyType int

const (
	// PropertySort is a required output ordering.
	PropertySort PropertyType = iota
	// PropertyDistribution is a required data distribution. The single-node
	// core declares the type but ships no enforcer for it, so requiring it
	// can only be satisfied natively.
	PropertyDistribution
)

func (t PropertyType) String() string {
	switch t {
	case PropertySort:
		return "sort"
	case PropertyDistribution:
		return "distribution"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Property is one required physical property value.
type Property interface {
	Type() PropertyType
	String() string
	Equal(other Property) bool
}

// SortProperty requires output ordered by Keys.
type SortProperty struct {
	Keys []SortKey
}

// NewSortProperty creates a sort property over the given keys.
func NewSortProperty(keys ...SortKey) *SortProperty {
	return &SortProperty{Keys: keys}
}

func (p *SortProperty) Type() PropertyType { return PropertySort }

func (p *SortProperty) String() string {
	return "sort(" + sortKeysString(p.Keys) + ")"
}

// Equal reports whether other is a sort property over the same keys.
func (p *SortProperty) Equal(other Property) bool {
	o, ok := other.(*SortProperty)
	if !ok || len(o.Keys) != len(p.Keys) {
		return false
	}
	for i, k := range p.Keys {
		if o.Keys[i] != k {
			return false
		}
	}
	return true
}

// Distribution describes how rows are spread across nodes.
type Distribution int

const (
	DistributionSingleton Distribution = iota
	DistributionHash
	DistributionBroadcast
)

func (d Distribution) String() string {
	switch d {
	case DistributionSingleton:
		return "singleton"
	case DistributionHash:
		return "hash"
	case DistributionBroadcast:
		return "broadcast"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// DistributionProperty requires a specific data distribution.
type DistributionProperty struct {
	Distribution Distribution
}

func (p *DistributionProperty) Type() PropertyType { return PropertyDistribution }

func (p *DistributionProperty) String() string {
	return "distribution(" + p.Distribution.String() + ")"
}

// Equal reports whether other requires the same distribution.
func (p *DistributionProperty) Equal(other Property) bool {
	o, ok := other.(*DistributionProperty)
	return ok && o.Distribution == p.Distribution
}

// PropertySet is an unordered set of required physical properties, unique by
// property type. It is the key of every winner cache, compared by exact
// match: a winner cached for a stronger set never answers a weaker request.
type PropertySet struct {
	props []Property
}

// NewPropertySet creates a property set from the given properties. A later
// property of the same type replaces an earlier one.
func NewPropertySet(props ...Property) *PropertySet {
	ps := &PropertySet{}
	for _, p := range props {
		ps.Add(p)
	}
	return ps
}

// EmptyPropertySet returns the set with no requirements.
func EmptyPropertySet() *PropertySet {
	return &PropertySet{}
}

// Add inserts a property, replacing any existing property of the same type.
func (ps *PropertySet) Add(p Property) {
	for i, existing := range ps.props {
		if existing.Type() == p.Type() {
			ps.props[i] = p
			return
		}
	}
	ps.props = append(ps.props, p)
}

// Get returns the property of the given type, or nil.
func (ps *PropertySet) Get(t PropertyType) Property {
	if ps == nil {
		return nil
	}
	for _, p := range ps.props {
		if p.Type() == t {
			return p
		}
	}
	return nil
}

// Properties returns the properties in type order.
func (ps *PropertySet) Properties() []Property {
	if ps == nil {
		return nil
	}
	sorted := make([]Property, len(ps.props))
	copy(sorted, ps.props)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Type() < sorted[j].Type() })
	return sorted
}

// IsEmpty reports whether the set has no requirements.
func (ps *PropertySet) IsEmpty() bool {
	return ps == nil || len(ps.props) == 0
}

// Key returns the canonical form used as a map key. Sets holding equal
// properties produce identical keys regardless of insertion order.
func (ps *PropertySet) Key() string {
	if ps.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(ps.props))
	for _, p := range ps.Properties() {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ";")
}

// Equal reports whether both sets hold the same properties.
func (ps *PropertySet) Equal(other *PropertySet) bool {
	if ps.IsEmpty() || other.IsEmpty() {
		return ps.IsEmpty() && other.IsEmpty()
	}
	if len(ps.props) != len(other.props) {
		return false
	}
	for _, p := range ps.props {
		o := other.Get(p.Type())
		if o == nil || !p.Equal(o) {
			return false
		}
	}
	return true
}

func (ps *PropertySet) String() string {
	if ps.IsEmpty() {
		return "{}"
	}
	return "{" + ps.Key() + "}"
}
