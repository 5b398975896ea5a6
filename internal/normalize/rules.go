package normalize

import "fmt"

// Rule produces a value for one output field from a raw source document.
// Implementations report presence explicitly: (nil, false) means the field
// is omitted from the normalized object.
type Rule interface {
	resolve(source any) (value any, ok bool)
}

// Field pairs an output field name with the rule that produces it.
type Field struct {
	Name string
	Rule Rule
}

// RuleSet is an ordered list of output fields. Field names should be unique;
// when a name appears more than once the last entry wins and earlier entries
// are not evaluated at all.
type RuleSet []Field

// Path returns a rule that resolves a dot-separated path via Get.
func Path(path string) Rule {
	return pathRule(path)
}

type pathRule string

func (p pathRule) resolve(source any) (any, bool) {
	v := Get(source, string(p))
	return v, v != nil
}

// First returns a rule that tries each candidate path in order and yields
// the first non-nil value. It is the explicit form of a fallback chain;
// use it instead of defining the same output field twice.
func First(paths ...string) Rule {
	return firstRule(paths)
}

type firstRule []string

func (f firstRule) resolve(source any) (any, bool) {
	for _, path := range f {
		if v := Get(source, path); v != nil {
			return v, true
		}
	}
	return nil, false
}

// Mapper returns a rule backed by an arbitrary function. Errors and panics
// inside fn are contained to this field.
func Mapper(fn func(source any) (any, error)) Rule {
	return mapperRule(fn)
}

type mapperRule func(source any) (any, error)

func (m mapperRule) resolve(source any) (value any, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = nil, false
		}
	}()
	v, err := m(source)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Const returns a rule that always yields the given value.
func Const(v any) Rule {
	return Mapper(func(any) (any, error) { return v, nil })
}

// Apply evaluates rules against source and returns a fresh normalized
// object. The result contains no nil values, source is never mutated, and
// the output is deterministic for identical inputs.
func Apply(source any, rules RuleSet) map[string]any {
	// Last entry wins for duplicate names; losers are skipped entirely.
	winner := make(map[string]int, len(rules))
	for i, f := range rules {
		winner[f.Name] = i
	}

	out := make(map[string]any, len(rules))
	for i, f := range rules {
		if winner[f.Name] != i {
			continue
		}
		if v, ok := f.Rule.resolve(source); ok {
			out[f.Name] = v
		}
	}
	return out
}

// ApplyList normalizes each element of items with the same RuleSet.
func ApplyList(items []any, rules RuleSet) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, Apply(item, rules))
	}
	return out
}

// StripNulls returns a copy of m without nil-valued keys. It is the single
// omit-nulls utility shared by the normalizer and the envelope shapers.
func StripNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Validate checks a RuleSet for duplicate field names. Duplicates are legal
// (last wins) but almost always indicate a table that should use First.
func Validate(rules RuleSet) error {
	seen := make(map[string]bool, len(rules))
	for _, f := range rules {
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q in rule set", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
