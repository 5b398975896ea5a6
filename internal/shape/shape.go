// Package shape builds the response envelopes returned by adapter tools.
//
// Shapers sit on top of package normalize and add the cross-vendor
// sub-protocols the adapters share: resolving absolute URLs from a vendor's
// _links-style base+relative pairs, extracting opaque pagination cursors
// from "next page" URLs, and wrapping normalized objects into stable list
// and single-object envelopes.
package shape

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/arcwise/bridgeway/internal/normalize"
)

// ErrMalformedResponse reports a vendor response that is missing a top-level
// key the API contract requires. It is distinct from a legitimately empty
// list, which is valid data.
var ErrMalformedResponse = errors.New("malformed vendor response")

// PaginationTokenKey is the envelope key carrying the next-page cursor.
const PaginationTokenKey = "paginationToken"

// ResolveURL joins a vendor base URL with a relative path. Either part being
// empty yields "": a missing link is omitted from the shaped object rather
// than producing a broken URL.
func ResolveURL(base, relative string) string {
	if base == "" || relative == "" {
		return ""
	}
	return base + relative
}

// PageToken extracts the named query parameter from a vendor "next page"
// URL. The returned token is opaque: it is passed through to the next list
// request without interpretation. An absent URL, an unparseable URL, or a
// missing parameter all yield "".
func PageToken(nextURL, param string) string {
	if nextURL == "" {
		return ""
	}
	u, err := url.Parse(nextURL)
	if err != nil {
		return ""
	}
	return u.Query().Get(param)
}

// List wraps normalized items into the standard list envelope:
//
//	{"<plural>": [...], "paginationToken": token}
//
// The pagination key is omitted entirely when token is empty, reusing the
// omit-nulls contract at the envelope level.
func List(plural string, items []map[string]any, token string) map[string]any {
	if items == nil {
		items = []map[string]any{}
	}
	env := map[string]any{plural: items}
	if token != "" {
		env[PaginationTokenKey] = token
	}
	return normalize.StripNulls(env)
}

// Single wraps one normalized object into {"<singular>": obj}. A nil obj
// (vendor "not found") becomes an empty object so the envelope shape is
// stable regardless of found vs not-found; Single never returns a bare nil.
func Single(singular string, obj map[string]any) map[string]any {
	if obj == nil {
		obj = map[string]any{}
	}
	return map[string]any{singular: obj}
}

// Items pulls the list payload out of a raw vendor response. A missing key
// is a contract violation and returns ErrMalformedResponse; an explicit
// empty array is fine. A non-array value under the key is also malformed.
func Items(raw any, key string) ([]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: response is not an object", ErrMalformedResponse)
	}
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrMalformedResponse, key)
	}
	return items, nil
}
