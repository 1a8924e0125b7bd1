package update

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ParseVersion splits a dotted version into integer segments.
// A leading "v" is ignored. Each segment contributes its leading decimal
// digits; a segment without any ("", "beta") counts as 0. The result has one
// entry per dot-separated segment, so "1..3" yields [1 0 3].
func ParseVersion(v string) []int {
	v = trimV(strings.TrimSpace(v))
	segments := strings.Split(v, ".")
	parts := make([]int, len(segments))
	for i, seg := range segments {
		parts[i] = leadingInt(seg)
	}
	return parts
}

// CompareVersions returns -1, 0 or 1 as v1 is older than, equal to, or newer
// than v2. Segments are compared numerically; the shorter version is padded
// with zeros, so "1.2" equals "1.2.0". It never fails.
func CompareVersions(v1, v2 string) int {
	a, b := ParseVersion(v1), ParseVersion(v2)
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := segment(a, i), segment(b, i)
		if x > y {
			return 1
		}
		if x < y {
			return -1
		}
	}
	return 0
}

// IsNewerVersion returns true if latest is strictly newer than current.
func IsNewerVersion(current, latest string) bool {
	return CompareVersions(latest, current) > 0
}

// IsPrerelease reports whether version carries a semver pre-release suffix
// such as "1.3.0-beta.1". Versions that are not valid semver are treated as
// releases.
func IsPrerelease(version string) bool {
	v := "v" + trimV(strings.TrimSpace(version))
	return semver.IsValid(v) && semver.Prerelease(v) != ""
}

func trimV(v string) string {
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return v[1:]
	}
	return v
}

func segment(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

func leadingInt(seg string) int {
	end := 0
	for end < len(seg) && seg[end] >= '0' && seg[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(seg[:end])
	if err != nil {
		// only overflow can fail here
		return math.MaxInt
	}
	return n
}
