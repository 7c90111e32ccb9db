package filter

import (
	"net/url"
	"strings"
)

// Status is the coarse pass/fail facet
type Status string

// Status values
const (
	StatusAll     Status = "all"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// View is the dashboard layout mode
type View string

// View values
const (
	ViewList View = "list"
	ViewGrid View = "grid"
)

// Query parameter keys shared between the dashboard URL and the API
const (
	ParamSearch     = "q"
	ParamOS         = "os"
	ParamPHP        = "php"
	ParamArch       = "arch"
	ParamExtensions = "ext"
	ParamStatus     = "status"
	ParamView       = "view"
	ParamDetail     = "detail"
)

// State is the canonical set of active facet selections plus view mode and
// selected extension. The zero filters (All facets, StatusAll, empty
// search) mean "show everything". State round-trips through URL query
// parameters so any reachable view is shareable.
type State struct {
	Search     string
	OS         Facet // members are "os|version" pair keys
	PHP        Facet
	Arch       Facet
	Extensions Facet
	Status     Status
	View       View
	Selected   string // extension open in the detail panel, "" for none
}

// NewState returns the default state: no filters, list view, no selection
func NewState() State {
	return State{
		Status: StatusAll,
		View:   ViewList,
	}
}

// Reset clears search, facets and status back to defaults. View and
// Selected are left alone; clearing filters should not close the detail
// panel or flip the layout.
func (s *State) Reset() {
	s.Search = ""
	s.OS = All()
	s.PHP = All()
	s.Arch = All()
	s.Extensions = All()
	s.Status = StatusAll
}

// HasDetailFilters reports whether any facet that only exists at build
// granularity (OS, PHP version, architecture) is constrained. Aggregate
// counts cannot answer those facets exactly.
func (s State) HasDetailFilters() bool {
	return !s.OS.IsAll() || !s.PHP.IsAll() || !s.Arch.IsAll()
}

// NeedsBuilds reports whether detail records must be loaded before
// filtering can be exact. Same condition as HasDetailFilters; named for the
// caller that decides whether to fetch.
func (s State) NeedsBuilds() bool {
	return s.HasDetailFilters()
}

// Known is the universe of facet values derived from the catalogs, used to
// collapse explicit full selections back to All.
type Known struct {
	OS         []string // "os|version" pair keys
	PHP        []string
	Arch       []string
	Extensions []string
}

// Canonicalize collapses any facet that selects every known value to All
func (s State) Canonicalize(known Known) State {
	s.OS = s.OS.Canonicalize(known.OS)
	s.PHP = s.PHP.Canonicalize(known.PHP)
	s.Arch = s.Arch.Canonicalize(known.Arch)
	s.Extensions = s.Extensions.Canonicalize(known.Extensions)
	return s
}

// EncodeQuery serializes the state into URL query values, omitting every
// key at its default so clean states produce clean URLs.
func (s State) EncodeQuery() url.Values {
	values := url.Values{}

	if s.Search != "" {
		values.Set(ParamSearch, s.Search)
	}
	encodeFacet(values, ParamOS, s.OS)
	encodeFacet(values, ParamPHP, s.PHP)
	encodeFacet(values, ParamArch, s.Arch)
	encodeFacet(values, ParamExtensions, s.Extensions)
	if s.Status == StatusSuccess || s.Status == StatusFailure {
		values.Set(ParamStatus, string(s.Status))
	}
	if s.View == ViewGrid {
		values.Set(ParamView, string(s.View))
	}
	if s.Selected != "" {
		values.Set(ParamDetail, s.Selected)
	}

	return values
}

func encodeFacet(values url.Values, key string, f Facet) {
	if f.IsAll() {
		return
	}
	values.Set(key, strings.Join(f.Values(), ","))
}

// DecodeQuery parses URL query values back into a State. Absent keys keep
// their defaults; unknown status or view values are ignored rather than
// rejected, so a stale or hand-edited URL degrades to the default.
func DecodeQuery(values url.Values) State {
	s := NewState()

	s.Search = values.Get(ParamSearch)
	s.OS = decodeFacet(values.Get(ParamOS))
	s.PHP = decodeFacet(values.Get(ParamPHP))
	s.Arch = decodeFacet(values.Get(ParamArch))
	s.Extensions = decodeFacet(values.Get(ParamExtensions))

	switch Status(values.Get(ParamStatus)) {
	case StatusSuccess:
		s.Status = StatusSuccess
	case StatusFailure:
		s.Status = StatusFailure
	}

	if View(values.Get(ParamView)) == ViewGrid {
		s.View = ViewGrid
	}

	s.Selected = values.Get(ParamDetail)

	return s
}

func decodeFacet(raw string) Facet {
	if raw == "" {
		return All()
	}

	var members []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			members = append(members, part)
		}
	}
	return Subset(members...)
}

// Equal reports whether two states are filter-wise equivalent
func (s State) Equal(other State) bool {
	return s.Search == other.Search &&
		s.OS.Equal(other.OS) &&
		s.PHP.Equal(other.PHP) &&
		s.Arch.Equal(other.Arch) &&
		s.Extensions.Equal(other.Extensions) &&
		s.Status == other.Status &&
		s.View == other.View &&
		s.Selected == other.Selected
}
