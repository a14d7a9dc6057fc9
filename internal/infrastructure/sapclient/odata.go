package sapclient

import (
	"net/url"
	"sort"
	"strings"
)

// buildODataQuery builds a query string the Service Layer's OData parser
// accepts. Keys keep their leading $ unescaped; values are percent-encoded
// except for single quotes, which OData string literals require verbatim.
// A fully escaped query string breaks $filter parsing upstream.
func buildODataQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+encodeODataValue(params[k]))
	}
	return strings.Join(parts, "&")
}

// encodeODataValue percent-encodes a value with space as %20 and the
// apostrophe restored after escaping.
func encodeODataValue(v string) string {
	escaped := url.QueryEscape(v)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "%27", "'")
	return escaped
}

// normalizeNextLink turns a server-provided continuation link into a
// relative endpoint reusable by Request. Absolute links are stripped up to
// and including the versioned API root.
func normalizeNextLink(link string) string {
	if idx := strings.Index(link, apiRoot); idx >= 0 {
		link = link[idx+len(apiRoot):]
	}
	return strings.TrimLeft(link, "/")
}
