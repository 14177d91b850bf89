// Package programfile reads and writes programs in their two on-disk forms:
// hand-written TOML and a schema-versioned msgpack encoding.
package programfile

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"

	"coreasm/internal/program"
)

// SchemaVersion is bumped whenever the msgpack layout of File changes.
const SchemaVersion uint16 = 1

var (
	ErrSchema            = errors.New("unsupported program schema")
	ErrInvalidToken      = errors.New("token must set exactly one of text, var, newline")
	ErrValueType         = errors.New("value does not match declared type")
	ErrUnsupportedFormat = errors.New("unsupported program file format")
)

// File is the serialised shape shared by both forms.
type File struct {
	Schema uint16      `toml:"-" msgpack:"schema"`
	Exit   bool        `toml:"exit" msgpack:"exit"`
	Vars   []Var       `toml:"var" msgpack:"vars"`
	Prints []PrintStmt `toml:"print" msgpack:"prints"`
}

// Var is a declaration; Value holds an integer, float or string depending
// on Type ("i32", "i64", "f32", "f64", "string").
type Var struct {
	Name  string `toml:"name" msgpack:"name"`
	Type  string `toml:"type" msgpack:"type"`
	Value any    `toml:"value" msgpack:"value"`
}

type PrintStmt struct {
	Tokens []Token `toml:"tokens" msgpack:"tokens"`
}

// Token sets exactly one field.
type Token struct {
	Text    *string `toml:"text,omitempty" msgpack:"text,omitempty"`
	Var     string  `toml:"var,omitempty" msgpack:"var,omitempty"`
	Newline bool    `toml:"newline,omitempty" msgpack:"newline,omitempty"`
}

// Program converts f into the in-memory model.
func (f *File) Program() (*program.Program, error) {
	p := program.New()
	for i, v := range f.Vars {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return nil, fmt.Errorf("var #%d: missing name", i+1)
		}
		typ, err := program.ParseType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("var #%d (%s): %w", i+1, name, err)
		}
		val, err := convertValue(typ, v.Value)
		if err != nil {
			return nil, fmt.Errorf("var #%d (%s): %w", i+1, name, err)
		}
		p.Declare(name, val)
	}
	for i, ps := range f.Prints {
		pr := program.Print{Tokens: make([]program.Token, 0, len(ps.Tokens))}
		for j, tok := range ps.Tokens {
			t, err := tok.token()
			if err != nil {
				return nil, fmt.Errorf("print #%d token #%d: %w", i+1, j+1, err)
			}
			pr.Tokens = append(pr.Tokens, t)
		}
		p.AddPrint(pr)
	}
	p.SetExit(f.Exit)
	return p, nil
}

func (t Token) token() (program.Token, error) {
	set := 0
	if t.Text != nil {
		set++
	}
	if t.Var != "" {
		set++
	}
	if t.Newline {
		set++
	}
	if set != 1 {
		return program.Token{}, ErrInvalidToken
	}
	switch {
	case t.Text != nil:
		return program.Text(*t.Text), nil
	case t.Var != "":
		return program.VariableRef(t.Var), nil
	default:
		return program.Newline(), nil
	}
}

// FromProgram builds the serialised form of p, variables in declaration
// order.
func FromProgram(p *program.Program) *File {
	f := &File{Schema: SchemaVersion, Exit: p.Exit()}
	for _, v := range p.Variables() {
		f.Vars = append(f.Vars, Var{Name: v.Name, Type: v.Value.Type().String(), Value: rawValue(v.Value)})
	}
	for _, pr := range p.Prints() {
		stmt := PrintStmt{Tokens: make([]Token, 0, len(pr.Tokens))}
		for _, tok := range pr.Tokens {
			switch tok.Kind {
			case program.TokenText:
				text := tok.Text
				stmt.Tokens = append(stmt.Tokens, Token{Text: &text})
			case program.TokenVariable:
				stmt.Tokens = append(stmt.Tokens, Token{Var: tok.Text})
			case program.TokenNewline:
				stmt.Tokens = append(stmt.Tokens, Token{Newline: true})
			}
		}
		f.Prints = append(f.Prints, stmt)
	}
	return f
}

func rawValue(v program.Value) any {
	switch v.Type() {
	case program.I32, program.I64:
		return v.Int()
	case program.F32, program.F64:
		return v.Float()
	default:
		return v.Str()
	}
}

func convertValue(typ program.Type, raw any) (program.Value, error) {
	switch typ {
	case program.I32:
		n, err := asInt(raw)
		if err != nil {
			return program.Value{}, err
		}
		v, err := safecast.Conv[int32](n)
		if err != nil {
			return program.Value{}, fmt.Errorf("value %d out of range for i32: %w", n, err)
		}
		return program.I32Value(v), nil
	case program.I64:
		n, err := asInt(raw)
		if err != nil {
			return program.Value{}, err
		}
		return program.I64Value(n), nil
	case program.F32:
		f, err := asFloat(raw)
		if err != nil {
			return program.Value{}, err
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return program.Value{}, fmt.Errorf("value %g out of range for f32", f)
		}
		return program.F32Value(float32(f)), nil
	case program.F64:
		f, err := asFloat(raw)
		if err != nil {
			return program.Value{}, err
		}
		return program.F64Value(f), nil
	case program.String:
		s, ok := raw.(string)
		if !ok {
			return program.Value{}, fmt.Errorf("%w: want string, got %T", ErrValueType, raw)
		}
		return program.StringValue(s), nil
	}
	return program.Value{}, fmt.Errorf("%w: %s", ErrValueType, typ)
}

// asInt accepts every integer kind the TOML and msgpack decoders produce.
func asInt(raw any) (int64, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		v, err := safecast.Conv[int64](n)
		if err != nil {
			return 0, fmt.Errorf("value %d out of range for i64: %w", n, err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: want integer, got %T", ErrValueType, raw)
}

func asFloat(raw any) (float64, error) {
	switch f := raw.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	}
	n, err := asInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: want number, got %T", ErrValueType, raw)
	}
	f, err := safecast.Convert[float64](n)
	if err != nil {
		return 0, fmt.Errorf("value %d is not exactly representable as a float: %w", n, err)
	}
	return f, nil
}
