// Package uritemplate resolves the subset of RFC 6570 URI templates that the
// platform's HAL links use: simple `{var}` expansion and form-style
// `{?a,b,c}` query expansion.
package uritemplate

import "strings"

// Value is a template variable. It is either a single string or a list of
// strings; use String or List to build one.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// String returns a scalar template value.
func String(s string) Value { return Value{scalar: s} }

// List returns a list template value. Lists are JSON-encoded when expanded
// in form-style position.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{list: cp, isList: true}
}

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.isList }

// Items returns a copy of the list items. It is nil for scalar values.
func (v Value) Items() []string {
	if !v.isList {
		return nil
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp
}

// Empty reports whether v carries nothing worth expanding.
func (v Value) Empty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// String renders v for simple expansion. Lists are joined with commas.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.scalar
}

// Values maps template variable names to values.
type Values map[string]Value

// Clone returns a shallow copy of vs. Value itself is immutable.
func (vs Values) Clone() Values {
	if vs == nil {
		return nil
	}
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}

// FromStrings is a convenience for the common all-scalar case.
func FromStrings(m map[string]string) Values {
	out := make(Values, len(m))
	for k, v := range m {
		out[k] = String(v)
	}
	return out
}
