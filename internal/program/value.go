package program

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the declared type of a variable.
type Type uint8

const (
	I32 Type = iota + 1
	I64
	F32
	F64
	String
)

func (t Type) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the declared types. The zero Type is not.
func (t Type) Valid() bool {
	return t >= I32 && t <= String
}

// ParseType accepts the names printed by Type.String ("str" is an alias for "string").
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "i32":
		return I32, nil
	case "i64":
		return I64, nil
	case "f32":
		return F32, nil
	case "f64":
		return F64, nil
	case "string", "str":
		return String, nil
	default:
		return 0, fmt.Errorf("unknown type %q (expected i32|i64|f32|f64|string)", s)
	}
}

// Numeric reports whether t is one of the integer or float types.
func (t Type) Numeric() bool {
	return t >= I32 && t <= F64
}

// Size returns the storage width in bytes for numeric types and 0 otherwise.
func (t Type) Size() int {
	switch t {
	case I32, F32:
		return 4
	case I64, F64:
		return 8
	default:
		return 0
	}
}

// Value is a typed literal. The zero Value has no type.
type Value struct {
	typ Type
	i   int64
	f   float64
	s   string
}

func I32Value(v int32) Value {
	return Value{typ: I32, i: int64(v)}
}

func I64Value(v int64) Value {
	return Value{typ: I64, i: v}
}

func F32Value(v float32) Value {
	return Value{typ: F32, f: float64(v)}
}

func F64Value(v float64) Value {
	return Value{typ: F64, f: v}
}

func StringValue(v string) Value {
	return Value{typ: String, s: v}
}

func (v Value) Type() Type { return v.typ }

// Int returns the integer payload of an I32 or I64 value.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload of an F32 or F64 value.
func (v Value) Float() float64 { return v.f }

// Str returns the payload of a String value.
func (v Value) Str() string { return v.s }

// Literal renders the value as it appears in a data declaration: numbers
// bare, strings wrapped in double quotes without escaping.
func (v Value) Literal() string {
	switch v.typ {
	case I32, I64:
		return strconv.FormatInt(v.i, 10)
	case F32:
		return floatLiteral(v.f, 32)
	case F64:
		return floatLiteral(v.f, 64)
	case String:
		return `"` + v.s + `"`
	default:
		return ""
	}
}

// floatLiteral always carries a decimal point so the assembler encodes an
// IEEE value rather than an integer.
func floatLiteral(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "__QNaN__"
	case math.IsInf(f, 1):
		return "__Infinity__"
	case math.IsInf(f, -1):
		return "-__Infinity__"
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Bytes returns the raw in-memory representation: the string bytes, or the
// little-endian encoding for numeric types.
func (v Value) Bytes() []byte {
	switch v.typ {
	case I32:
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(v.i)))
	case I64:
		return binary.LittleEndian.AppendUint64(nil, uint64(v.i))
	case F32:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v.f)))
	case F64:
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v.f))
	case String:
		return []byte(v.s)
	default:
		return nil
	}
}

func (v Value) String() string {
	return v.typ.String() + "(" + v.Literal() + ")"
}
