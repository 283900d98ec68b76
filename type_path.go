package riskbalancer

import (
	"fmt"
	"strings"
)

// pathSeparator joins the segments in the canonical representation, so a
// segment must never contain one.
const pathSeparator = "/"

// CategoryPath identifies a category at any depth in the allocation hierarchy.
//
// It is an immutable value usable as a map key: two paths are equal iff all
// their segments match in order and count. The canonical form is the trimmed
// segments joined by "/".
type CategoryPath string

// NewCategoryPath builds a path from its segments. Segments are trimmed and
// blank ones dropped; at least one non-blank segment is required, and none
// may contain the separator (a "/" in a name would re-parent the category).
func NewCategoryPath(segments ...string) (CategoryPath, error) {
	cleaned := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, pathSeparator) {
			return "", fmt.Errorf("category name %q must not contain %q", s, pathSeparator)
		}
		cleaned = append(cleaned, s)
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("category path requires at least one level")
	}
	return CategoryPath(strings.Join(cleaned, pathSeparator)), nil
}

// ParseCategoryLabel parses a human readable label like
// "Equities / Developed / NAM" into a CategoryPath.
func ParseCategoryLabel(label string) (CategoryPath, error) {
	return NewCategoryPath(strings.Split(label, pathSeparator)...)
}

// MustCategoryPath is a helper for tests and static configuration.
// It panics on invalid segments.
func MustCategoryPath(segments ...string) CategoryPath {
	p, err := NewCategoryPath(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns the path levels in order.
func (p CategoryPath) Segments() []string {
	return strings.Split(string(p), pathSeparator)
}

// Len returns the path depth.
func (p CategoryPath) Len() int { return len(p.Segments()) }

// Level returns the segment at the given depth, or "" past the end.
func (p CategoryPath) Level(i int) string {
	segments := p.Segments()
	if i < 0 || i >= len(segments) {
		return ""
	}
	return segments[i]
}

// Label returns the human readable path, "A / B / C".
func (p CategoryPath) Label() string {
	return strings.Join(p.Segments(), " / ")
}

func (p CategoryPath) String() string { return p.Label() }
