// Package stringsx holds small string-slice helpers shared across the module.
package stringsx

import "strings"

// Normalize trims whitespace and removes duplicates and empties from a
// slice, preserving first-occurrence order. Consent name lists pass through
// here on config intake so "a, a , " and "a" configure the same requirement.
func Normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
