package rapidapi

import (
	"net/url"
	"strconv"
)

// Int returns a pointer to v, for optional integer parameters.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional boolean parameters.
func Bool(v bool) *bool { return &v }

// query builds url.Values while dropping unset parameters: empty strings and
// nil pointers are skipped, booleans render as "true"/"false".
type query url.Values

func (q query) text(key, v string) query {
	if v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

func (q query) integer(key string, v *int) query {
	if v != nil {
		url.Values(q).Set(key, strconv.Itoa(*v))
	}
	return q
}

func (q query) boolean(key string, v *bool) query {
	if v != nil {
		url.Values(q).Set(key, strconv.FormatBool(*v))
	}
	return q
}

func (q query) values() url.Values { return url.Values(q) }
