// Package titles holds the job-title sets used to target sales roles and the
// query syntax the job-board APIs accept for them.
package titles

import (
	"fmt"
	"sort"
	"strings"
)

// SDR covers sales/business development representative roles.
var SDR = []string{
	"bdr",
	"business development representative",
	"inside sales",
	"inside sales account executive",
	"inside sales account manager",
	"inside sales assistant",
	"inside sales associate",
	"inside sales consultant",
	"inside sales coordinator",
	"inside sales customer service",
	"inside sales engineer",
	"inside sales executive",
	"inside sales manager",
	"inside sales rep",
	"inside sales rep.",
	"inside sales representative",
	"inside sales specialist",
	"inside sales supervisor",
	"inside sales support",
	"sales developer",
	"sales development",
	"sales development executive",
	"sales development manager",
	"sales development representative",
	"sales development specialist",
	"sales representative",
	"sales representatives",
}

// AE covers account executive and account manager roles.
var AE = []string{
	"account executive",
	"account executive assistant",
	"account executive ii",
	"account executive intern",
	"account executive manager",
	"account executive officer",
	"account executive sales",
	"account manager",
	"account manager assistant",
	"account manager business development",
	"account manager emea",
	"account manager ii",
	"account manager project manager",
	"account manager recruiter",
	"account manager sales",
	"ae",
	"enterprise account executive",
	"sales executive",
	"sales executives",
}

var sets = map[string][]string{
	"sdr": SDR,
	"ae":  AE,
}

// Names returns the known title-set names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the title set registered under name (case-insensitive).
func Lookup(name string) ([]string, error) {
	set, ok := sets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown title set %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return set, nil
}

// ToORQuery joins titles into an OR query, quoting multi-word titles:
// ["bdr", "inside sales"] becomes `bdr OR "inside sales"`.
func ToORQuery(titles []string) string {
	quoted := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(t, " ") {
			quoted = append(quoted, `"`+t+`"`)
		} else {
			quoted = append(quoted, t)
		}
	}
	return strings.Join(quoted, " OR ")
}
