package jobs

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeKeywords flattens comma/semicolon separated keyword arguments into
// a trimmed list without case-insensitive repeats. The first spelling of each
// keyword wins and order is preserved.
func NormalizeKeywords(values []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range values {
		if raw == "" {
			continue
		}
		for _, part := range strings.Split(strings.ReplaceAll(raw, ";", ","), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := fold.String(part)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
