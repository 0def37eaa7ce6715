package value

import (
	"math"
	"strconv"
)

// Kind is the type tag of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObject
)

// Value is a tagged scalar or a reference to a heap Object. Values never own
// the objects they reference.
type Value struct {
	Kind Kind
	B    bool
	Num  float64
	Obj  Object
}

func Nil() Value { return Value{Kind: KindNil} }
func Bool(b bool) Value {
	return Value{Kind: KindBool, B: b}
}
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}
func FromObject(o Object) Value {
	return Value{Kind: KindObject, Obj: o}
}

func (v Value) IsNil() bool    { return v.Kind == KindNil }
func (v Value) IsBool() bool   { return v.Kind == KindBool }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }
func (v Value) IsObject() bool { return v.Kind == KindObject }

// IsString reports whether v references an ObjString.
func (v Value) IsString() bool {
	if v.Kind != KindObject {
		return false
	}
	_, ok := v.Obj.(*ObjString)
	return ok
}

// AsString returns the referenced string, or nil if v is not a string.
func (v Value) AsString() *ObjString {
	if v.Kind != KindObject {
		return nil
	}
	s, _ := v.Obj.(*ObjString)
	return s
}

// IsFalsey reports whether v counts as false in a conditional: nil and false.
func IsFalsey(v Value) bool {
	return v.Kind == KindNil || (v.Kind == KindBool && !v.B)
}

// Equal compares two values by tag. Nil is not equal to anything, itself
// included. Objects compare by identity, which for strings is content
// equality because every string is interned.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBool:
		return a.B == b.B
	case KindNil:
		return false
	case KindNumber:
		return a.Num == b.Num
	case KindObject:
		return a.Obj == b.Obj
	default:
		return false
	}
}

// String renders v the way the print statement does.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.B {
			return "true"
		}
		return "false"
	case KindNil:
		return "nil"
	case KindNumber:
		return FormatNumber(v.Num)
	case KindObject:
		if v.Obj == nil {
			return "<nil object>"
		}
		return v.Obj.String()
	default:
		return "<unknown>"
	}
}

// FormatNumber formats n like C's "%g": six significant digits, trailing
// zeros dropped, and inf/nan spelled in lower case.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', 6, 64)
}

// TypeName reports the dynamic type name for diagnostics.
func TypeName(v Value) string {
	switch v.Kind {
	case KindBool:
		return "boolean"
	case KindNil:
		return "nil"
	case KindNumber:
		return "number"
	case KindObject:
		if v.Obj != nil {
			return v.Obj.Type().String()
		}
		return "object"
	default:
		return "unknown"
	}
}
