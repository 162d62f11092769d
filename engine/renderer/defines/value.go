// Package defines holds the per-material preprocessor define table that
// selects a shader variant, and the structured define set handed to the
// compiler.
package defines

import "strconv"

type valueKind uint8

const (
	kindUnset valueKind = iota
	kindBool
	kindInt
)

// Value is a define value: unset, a boolean flag, or an integer.
// Unset is distinct from Bool(false); the zero Value is unset.
type Value struct {
	kind valueKind
	b    bool
	i    int
}

// Unset is the value of a define the material does not declare.
var Unset = Value{}

// Bool returns a boolean define value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// Int returns an integer define value.
func Int(i int) Value { return Value{kind: kindInt, i: i} }

// IsSet reports whether v holds a boolean or integer.
func (v Value) IsSet() bool { return v.kind != kindUnset }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.kind == kindBool }

// IsInt reports whether v holds an integer.
func (v Value) IsInt() bool { return v.kind == kindInt }

// Truthy reports whether v enables its define: a true boolean or a non-zero integer.
func (v Value) Truthy() bool {
	switch v.kind {
	case kindBool:
		return v.b
	case kindInt:
		return v.i != 0
	}
	return false
}

// AsInt returns the integer held by v. Booleans convert to 0/1, unset to 0.
func (v Value) AsInt() int {
	switch v.kind {
	case kindBool:
		if v.b {
			return 1
		}
	case kindInt:
		return v.i
	}
	return 0
}

// emitted reports whether v produces a #define line.
// Integers are always emitted, including zero.
func (v Value) emitted() bool {
	return v.kind == kindInt || (v.kind == kindBool && v.b)
}

func (v Value) String() string {
	switch v.kind {
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindInt:
		return strconv.Itoa(v.i)
	}
	return "unset"
}
