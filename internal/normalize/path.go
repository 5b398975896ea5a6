package normalize

import "strings"

// Get traverses source along a dot-separated path ("a.b.c") and returns the
// value found at the end of the path, or nil if any segment is missing or the
// current value is not an object. It never panics, regardless of the shape of
// source.
//
// Sequences are opaque to Get: a path cannot index into an array. Callers
// that need list-element access use a Mapper or JQ rule instead.
func Get(source any, path string) any {
	current := source
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return current
}

// GetString is Get narrowed to string values. Non-string results degrade to
// the empty string.
func GetString(source any, path string) string {
	s, _ := Get(source, path).(string)
	return s
}
