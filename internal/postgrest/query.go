package postgrest

import (
	"fmt"
	"net/url"
	"strings"
)

// RestPrefix is where PostgREST is mounted on a Supabase project
const RestPrefix = "/rest/v1/"

// Path builds a table path with query parameters
func Path(table string, params ...string) string {
	p := RestPrefix + table
	if len(params) > 0 {
		p += "?" + strings.Join(params, "&")
	}
	return p
}

// Eq filters col on equality
func Eq(col string, v any) string {
	return col + "=eq." + url.QueryEscape(fmt.Sprint(v))
}

// In filters col on a set of values
func In[V any](col string, values []V) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = url.QueryEscape(fmt.Sprint(v))
	}
	return col + "=in.(" + strings.Join(parts, ",") + ")"
}

// Select limits the returned columns; no columns selects all of them
func Select(cols ...string) string {
	if len(cols) == 0 {
		return "select=*"
	}
	return "select=" + strings.Join(cols, ",")
}

// Order sorts by one or more columns, each optionally suffixed with .asc or
// .desc
func Order(cols ...string) string {
	return "order=" + strings.Join(cols, ",")
}
