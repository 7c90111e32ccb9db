package filter

import (
	"net/url"
	"testing"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	if s.Search != "" || !s.OS.IsAll() || !s.PHP.IsAll() || !s.Arch.IsAll() || !s.Extensions.IsAll() {
		t.Error("NewState() should start unconstrained")
	}
	if s.Status != StatusAll {
		t.Errorf("Status = %q, want all", s.Status)
	}
	if s.View != ViewList {
		t.Errorf("View = %q, want list", s.View)
	}
	if s.NeedsBuilds() {
		t.Error("default state must not need builds")
	}
}

func TestResetKeepsViewAndSelection(t *testing.T) {
	s := NewState()
	s.Search = "redis"
	s.OS = Subset("alpine|3.20")
	s.Status = StatusFailure
	s.View = ViewGrid
	s.Selected = "redis"

	s.Reset()

	if s.Search != "" || !s.OS.IsAll() || s.Status != StatusAll {
		t.Error("Reset() should clear filters")
	}
	if s.View != ViewGrid || s.Selected != "redis" {
		t.Error("Reset() must not touch view or selection")
	}
	if s.NeedsBuilds() {
		t.Error("after Reset() no builds should be needed")
	}
}

func TestNeedsBuilds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
		want   bool
	}{
		{"default", func(s *State) {}, false},
		{"os subset", func(s *State) { s.OS = Subset("alpine|3.20") }, true},
		{"php subset", func(s *State) { s.PHP = Subset("8.3") }, true},
		{"arch subset", func(s *State) { s.Arch = Subset("arm64") }, true},
		{"search only", func(s *State) { s.Search = "redis" }, false},
		{"extension facet only", func(s *State) { s.Extensions = Subset("redis") }, false},
		{"status only", func(s *State) { s.Status = StatusFailure }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			tt.mutate(&s)
			if got := s.NeedsBuilds(); got != tt.want {
				t.Errorf("NeedsBuilds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryRoundTrip(t *testing.T) {
	s := NewState()
	s.Search = "redis"
	s.OS = Subset("alpine|3.19")
	s.Status = StatusFailure

	decoded := DecodeQuery(s.EncodeQuery())

	if !decoded.Equal(s) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", decoded, s)
	}
}

func TestQueryRoundTripAllFields(t *testing.T) {
	s := NewState()
	s.Search = "pdo"
	s.OS = Subset("alpine|3.20", "debian|bookworm")
	s.PHP = Subset("8.3", "8.4")
	s.Arch = Subset("amd64")
	s.Extensions = Subset("pdo_mysql", "pdo_pgsql")
	s.Status = StatusSuccess
	s.View = ViewGrid
	s.Selected = "pdo_mysql"

	decoded := DecodeQuery(s.EncodeQuery())

	if !decoded.Equal(s) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", decoded, s)
	}
}

func TestEncodeQueryOmitsDefaults(t *testing.T) {
	values := NewState().EncodeQuery()
	if len(values) != 0 {
		t.Errorf("default state should encode to an empty query, got %q", values.Encode())
	}
}

func TestDecodeQueryIgnoresUnknownEnums(t *testing.T) {
	values := url.Values{}
	values.Set(ParamStatus, "exploded")
	values.Set(ParamView, "carousel")

	s := DecodeQuery(values)

	if s.Status != StatusAll {
		t.Errorf("unknown status should keep default, got %q", s.Status)
	}
	if s.View != ViewList {
		t.Errorf("unknown view should keep default, got %q", s.View)
	}
}

func TestDecodeQueryFacets(t *testing.T) {
	values := url.Values{}
	values.Set(ParamOS, "alpine|3.19,alpine|3.20")
	values.Set(ParamPHP, " 8.3 , ,8.4")

	s := DecodeQuery(values)

	if s.OS.Len() != 2 || !s.OS.Contains("alpine|3.19") {
		t.Errorf("OS facet = %v", s.OS.Values())
	}
	// Blank members are dropped, values trimmed.
	if s.PHP.Len() != 2 || !s.PHP.Contains("8.3") || !s.PHP.Contains("8.4") {
		t.Errorf("PHP facet = %v", s.PHP.Values())
	}
}

func TestCanonicalizeState(t *testing.T) {
	known := Known{
		OS:   []string{"alpine|3.19", "alpine|3.20"},
		PHP:  []string{"8.3", "8.4"},
		Arch: []string{"amd64", "arm64"},
	}

	s := NewState()
	s.OS = Subset("alpine|3.19", "alpine|3.20")
	s.PHP = Subset("8.3")

	s = s.Canonicalize(known)

	if !s.OS.IsAll() {
		t.Error("full OS selection should collapse to All")
	}
	if s.PHP.IsAll() {
		t.Error("proper PHP subset must stay a subset")
	}
	if s.NeedsBuilds() != true {
		t.Error("PHP subset still needs builds")
	}
}
