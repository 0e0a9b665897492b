package vnpay

import (
	"net/url"
	"sort"
	"strings"
)

// Canonicalize serializes fields as key=value pairs sorted by key (byte order),
// skipping empty values and query-escaping each value (space becomes "+").
// Signer and verifier hash exactly this string.
func Canonicalize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(fields[k]))
	}
	
	return sb.String()
}
