package defines

import (
	"strconv"
	"strings"
)

// Define is one active define token.
type Define struct {
	Name  Name
	Value Value
}

// Set is an ordered list of active define tokens. It is only serialized to #define text
// at the compile boundary, so removing defines is a set difference rather than a string edit.
type Set []Define

// Has reports whether name is in the set.
func (s Set) Has(name Name) bool {
	for _, d := range s {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Value returns the value of name, or Unset when it is not in the set.
func (s Set) Value(name Name) Value {
	for _, d := range s {
		if d.Name == name {
			return d.Value
		}
	}
	return Unset
}

// Without returns a copy of s with every define in names removed.
func (s Set) Without(names ...Name) Set {
	drop := make(map[Name]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make(Set, 0, len(s))
	for _, d := range s {
		if _, ok := drop[d.Name]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

// With returns a copy of s with name set to v. An existing define keeps its position;
// a value that would not be emitted removes the define.
func (s Set) With(name Name, v Value) Set {
	if !v.emitted() {
		return s.Without(name)
	}
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = v
			return out
		}
	}
	return append(out, Define{Name: name, Value: v})
}

// Map returns the set as a name to value lookup.
func (s Set) Map() map[Name]Value {
	m := make(map[Name]Value, len(s))
	for _, d := range s {
		m[d.Name] = d.Value
	}
	return m
}

// String renders the set as "\n"-joined #define lines.
func (s Set) String() string {
	var b strings.Builder
	for i, d := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("#define ")
		b.WriteString(string(d.Name))
		if d.Value.IsInt() {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(d.Value.AsInt()))
		}
	}
	return b.String()
}
