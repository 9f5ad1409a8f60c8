// Package versions parses, orders, and derives version labels of the form
// "vNNN" or "vNNN_NNN".
package versions

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultLabel is the version label assumed for a shot that has never had a
// version assigned.
const DefaultLabel = "v001"

var (
	labelPattern = regexp.MustCompile(`(?i)^v(\d+)(?:_(\d+))?$`)

	// Path patterns, tried in order. Mirrors the layouts version labels
	// appear in on disk: version directories, filename suffixes, dotted
	// filename segments, and version/ subtrees.
	pathPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)/v(\d{3,4})(?:/|$)`),
		regexp.MustCompile(`(?i)_v(\d{3,4})(?:[_.]|$)`),
		regexp.MustCompile(`(?i)\.v(\d{3,4})\.`),
		regexp.MustCompile(`(?i)version[_/]v?(\d{3,4})`),
	}
)

// Label is a parsed version label. Minor is meaningful only when HasMinor
// is set; "v003" and "v003_000" are distinct labels that order equally.
type Label struct {
	Major    int
	Minor    int
	HasMinor bool
}

// Parse interprets a label string. The boolean is false for anything that
// is not a vNNN or vNNN_NNN form.
func Parse(value string) (Label, bool) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return Label{}, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Label{}, false
	}
	label := Label{Major: major}
	if m[2] != "" {
		minor, err := strconv.Atoi(m[2])
		if err != nil {
			return Label{}, false
		}
		label.Minor = minor
		label.HasMinor = true
	}
	return label, true
}

// String renders the label in canonical zero-padded form.
func (l Label) String() string {
	if l.HasMinor {
		return fmt.Sprintf("v%03d_%03d", l.Major, l.Minor)
	}
	return fmt.Sprintf("v%03d", l.Major)
}

// Compare orders two label strings numerically, so "v002" sorts before
// "v010". Unparseable labels order before parseable ones and fall back to
// lexical order among themselves.
func Compare(a, b string) int {
	la, okA := Parse(a)
	lb, okB := Parse(b)
	switch {
	case !okA && !okB:
		return strings.Compare(a, b)
	case !okA:
		return -1
	case !okB:
		return 1
	}
	if la.Major != lb.Major {
		if la.Major < lb.Major {
			return -1
		}
		return 1
	}
	if la.Minor != lb.Minor {
		if la.Minor < lb.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Sort orders labels ascending in place.
func Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return Compare(labels[i], labels[j]) < 0
	})
}

// Latest returns the highest label in the slice. The boolean is false when
// the slice contains no parseable label.
func Latest(labels []string) (string, bool) {
	best := ""
	found := false
	for _, label := range labels {
		if _, ok := Parse(label); !ok {
			continue
		}
		if !found || Compare(label, best) > 0 {
			best = label
			found = true
		}
	}
	return best, found
}

// Increment bumps the minor component when present, otherwise the major.
// An unparseable input yields the default label.
func Increment(value string) string {
	label, ok := Parse(value)
	if !ok {
		return DefaultLabel
	}
	if label.HasMinor {
		label.Minor++
	} else {
		label.Major++
	}
	return label.String()
}

// SubVersion produces the first sub-version of a major label ("v003" ->
// "v003_001"), or the next sub-version when the input already has one.
func SubVersion(value string) string {
	label, ok := Parse(value)
	if !ok {
		return "v001_001"
	}
	if label.HasMinor {
		label.Minor++
		return label.String()
	}
	label.Minor = 1
	label.HasMinor = true
	return label.String()
}

// FromPath extracts a version label embedded in a file path, trying each
// recognized layout in order. Matches are normalized to canonical form.
func FromPath(path string) (string, bool) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, pattern := range pathPatterns {
		if m := pattern.FindStringSubmatch(normalized); m != nil {
			major, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return Label{Major: major}.String(), true
		}
	}
	return "", false
}
