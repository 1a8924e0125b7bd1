package update

import (
	"reflect"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"1.2.3", []int{1, 2, 3}},
		{"v1.10.0", []int{1, 10, 0}},
		{"2", []int{2}},
		{"1.2.3.4.5", []int{1, 2, 3, 4, 5}},
		{"1.x.3", []int{1, 0, 3}},
		{"1..3", []int{1, 0, 3}},
		{"1.3.0-beta.1", []int{1, 3, 0, 1}},
		{"", []int{0}},
		{"dev", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseVersion(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		v1   string
		v2   string
		want int
	}{
		{"numeric not lexicographic", "1.2.0", "1.10.0", -1},
		{"missing trailing segments", "1.2", "1.2.0", 0},
		{"equal", "1.0.0", "1.0.0", 0},
		{"major bump", "2.0.0", "1.9.9", 1},
		{"patch bump", "1.0.1", "1.0.0", 1},
		{"longer wins when extra is nonzero", "1.2.0.1", "1.2", 1},
		{"v prefix ignored", "v1.2.3", "1.2.3", 0},
		{"garbage is zero", "abc", "0.0.0", 0},
		{"garbage older than release", "abc", "0.0.1", -1},
		{"empty vs empty", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
			}
			if got := CompareVersions(tt.v2, tt.v1); got != -tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d (anti-symmetry)", tt.v2, tt.v1, got, -tt.want)
			}
		})
	}
}

func TestCompareVersions_Reflexive(t *testing.T) {
	for _, v := range []string{"0", "1.2.3", "10.20.30.40", "v3.0.0", "1.x", ""} {
		if got := CompareVersions(v, v); got != 0 {
			t.Errorf("CompareVersions(%q, %q) = %d, want 0", v, v, got)
		}
	}
}

func TestCompareVersions_Transitive(t *testing.T) {
	ordered := []string{"0.9", "1.0.0", "1.0.1", "1.2", "1.10.0", "2"}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if got := CompareVersions(ordered[i], ordered[j]); got != -1 {
				t.Errorf("CompareVersions(%q, %q) = %d, want -1", ordered[i], ordered[j], got)
			}
		}
	}
}

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer version available", "1.0.0", "1.1.0", true},
		{"major version upgrade", "1.9.9", "2.0.0", true},
		{"same version", "1.0.0", "1.0.0", false},
		{"current is newer", "2.0.0", "1.9.9", false},
		{"malformed latest", "1.0.0", "not-a-version", false},
		{"mixed prefix", "v1.0.0", "1.1.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNewerVersion(tt.current, tt.latest); got != tt.want {
				t.Errorf("IsNewerVersion(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

func TestIsPrerelease(t *testing.T) {
	tests := map[string]bool{
		"1.3.0-beta.1": true,
		"v2.0.0-rc1":   true,
		"1.3.0":        false,
		"1.3":          false,
		"garbage":      false,
	}
	for in, want := range tests {
		if got := IsPrerelease(in); got != want {
			t.Errorf("IsPrerelease(%q) = %v, want %v", in, got, want)
		}
	}
}
