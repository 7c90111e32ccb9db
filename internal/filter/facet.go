// Package filter holds the dashboard's filter state and the engine that
// reconciles facet selections against aggregate and per-build data.
package filter

import "sort"

// Facet is a tagged selection over one filter dimension: either All (no
// constraint, every value of the dimension is considered selected) or an
// explicit subset of values. The zero value is All.
type Facet struct {
	subset map[string]struct{} // nil means all values selected
}

// All returns the unconstrained facet selection
func All() Facet {
	return Facet{}
}

// Subset builds a facet from explicit values. An empty value list collapses
// to All: selecting nothing and selecting everything are the same
// non-filter.
func Subset(values ...string) Facet {
	if len(values) == 0 {
		return All()
	}

	subset := make(map[string]struct{}, len(values))
	for _, v := range values {
		subset[v] = struct{}{}
	}
	return Facet{subset: subset}
}

// IsAll reports whether the facet places no constraint
func (f Facet) IsAll() bool {
	return f.subset == nil
}

// Contains reports whether a value passes the facet. All passes everything.
func (f Facet) Contains(value string) bool {
	if f.subset == nil {
		return true
	}
	_, ok := f.subset[value]
	return ok
}

// Values returns the subset values in sorted order, or nil for All
func (f Facet) Values() []string {
	if f.subset == nil {
		return nil
	}

	values := make([]string, 0, len(f.subset))
	for v := range f.subset {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Len returns the subset size, 0 for All
func (f Facet) Len() int {
	return len(f.subset)
}

// Canonicalize collapses a subset that covers every known value back to
// All, so an explicit full selection filters identically to no selection.
// An empty universe leaves the facet untouched.
func (f Facet) Canonicalize(known []string) Facet {
	if f.subset == nil || len(known) == 0 {
		return f
	}

	for _, v := range known {
		if _, ok := f.subset[v]; !ok {
			return f
		}
	}
	return All()
}

// Equal reports whether two facets select the same values
func (f Facet) Equal(other Facet) bool {
	if f.IsAll() || other.IsAll() {
		return f.IsAll() == other.IsAll()
	}
	if len(f.subset) != len(other.subset) {
		return false
	}
	for v := range f.subset {
		if _, ok := other.subset[v]; !ok {
			return false
		}
	}
	return true
}
