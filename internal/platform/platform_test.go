package platform

import (
	"testing"
)

func TestKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		os      string
		version string
	}{
		{"alpine", "alpine", "3.20"},
		{"debian codename", "debian", "bookworm"},
		{"ubuntu", "ubuntu", "24.04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := MakeKey(tt.os, tt.version)
			pair, err := ParseKey(key)
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", key, err)
			}
			if pair.OS != tt.os || pair.Version != tt.version {
				t.Errorf("ParseKey(%q) = %+v, want {%s %s}", key, pair, tt.os, tt.version)
			}
			if got := pair.Key(); got != key {
				t.Errorf("Pair.Key() = %q, want %q", got, key)
			}
		})
	}
}

func TestParseKeyInvalid(t *testing.T) {
	invalid := []string{"", "alpine", "|3.20", "alpine|"}
	for _, key := range invalid {
		if _, err := ParseKey(key); err == nil {
			t.Errorf("ParseKey(%q) expected error, got nil", key)
		}
	}
}

func TestResolvePairs(t *testing.T) {
	known := map[string][]string{
		"alpine": {"3.19", "3.20"},
		"debian": {"bookworm"},
	}

	tests := []struct {
		name      string
		selectors []string
		want      []string
		wantErr   bool
	}{
		{
			name:      "explicit key passes through",
			selectors: []string{"alpine|3.20"},
			want:      []string{"alpine|3.20"},
		},
		{
			name:      "bare OS expands to all versions",
			selectors: []string{"alpine"},
			want:      []string{"alpine|3.19", "alpine|3.20"},
		},
		{
			name:      "mixed selectors",
			selectors: []string{"debian", "alpine|3.19"},
			want:      []string{"debian|bookworm", "alpine|3.19"},
		},
		{
			name:      "unknown OS",
			selectors: []string{"fedora"},
			wantErr:   true,
		},
		{
			name:      "malformed key",
			selectors: []string{"alpine|"},
			wantErr:   true,
		},
		{
			name:      "blank selectors skipped",
			selectors: []string{"", "  "},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePairs(tt.selectors, known)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolvePairs(%v) expected error, got nil", tt.selectors)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePairs(%v) error = %v", tt.selectors, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ResolvePairs(%v) = %v, want %v", tt.selectors, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ResolvePairs(%v)[%d] = %q, want %q", tt.selectors, i, got[i], tt.want[i])
				}
			}
		})
	}
}
