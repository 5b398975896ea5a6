// Package normalize implements declarative reshaping of raw vendor API
// responses into flat, LLM-friendly objects.
//
// A RuleSet maps output field names to rules. A rule is either a dot-path
// into the source document (Path), an explicit fallback chain over several
// candidate paths (First), a pure Go function (Mapper), or a compiled jq
// expression (JQ). Apply evaluates a RuleSet against a decoded JSON value
// and returns a new map that never contains nil values: data that cannot be
// resolved is omitted, not represented as null, so consumers can treat
// "field present" as "field meaningfully known".
//
// Rule evaluation is failure-isolated per field. A Mapper that returns an
// error or panics, or a jq expression that fails at runtime, omits its own
// field and leaves the rest of the object intact.
package normalize
