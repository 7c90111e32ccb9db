package filter

import (
	"testing"
)

func TestFacetZeroValueIsAll(t *testing.T) {
	var f Facet
	if !f.IsAll() {
		t.Error("zero Facet should be All")
	}
	if !f.Contains("anything") {
		t.Error("All facet should contain every value")
	}
	if f.Values() != nil {
		t.Errorf("All facet Values() = %v, want nil", f.Values())
	}
}

func TestSubsetEmptyCollapsesToAll(t *testing.T) {
	if !Subset().IsAll() {
		t.Error("empty Subset should collapse to All")
	}
}

func TestSubsetMembership(t *testing.T) {
	f := Subset("alpine|3.20", "debian|bookworm")

	if f.IsAll() {
		t.Fatal("non-empty Subset should not be All")
	}
	if !f.Contains("alpine|3.20") {
		t.Error("missing member alpine|3.20")
	}
	if f.Contains("alpine|3.19") {
		t.Error("unexpected member alpine|3.19")
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
}

func TestFacetValuesSorted(t *testing.T) {
	f := Subset("c", "a", "b")
	values := f.Values()
	want := []string{"a", "b", "c"}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", values, want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	known := []string{"alpine|3.19", "alpine|3.20", "debian|bookworm"}

	tests := []struct {
		name    string
		facet   Facet
		wantAll bool
	}{
		{"full selection collapses", Subset(known...), true},
		{"proper subset stays", Subset("alpine|3.20"), false},
		{"already All stays All", All(), true},
		{"superset of known collapses", Subset(append([]string{"extra"}, known...)...), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.facet.Canonicalize(known)
			if got.IsAll() != tt.wantAll {
				t.Errorf("Canonicalize() IsAll = %v, want %v", got.IsAll(), tt.wantAll)
			}
		})
	}
}

func TestCanonicalizeEmptyUniverse(t *testing.T) {
	f := Subset("a")
	if f.Canonicalize(nil).IsAll() {
		t.Error("empty universe must not collapse a subset")
	}
}

func TestFacetEqual(t *testing.T) {
	if !All().Equal(All()) {
		t.Error("All should equal All")
	}
	if All().Equal(Subset("a")) {
		t.Error("All should not equal a subset")
	}
	if !Subset("a", "b").Equal(Subset("b", "a")) {
		t.Error("order should not matter")
	}
	if Subset("a").Equal(Subset("a", "b")) {
		t.Error("different sizes should differ")
	}
}
