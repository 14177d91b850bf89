// Package emit lowers a program.Program into NASM text for one target.
//
// Emission is a pure function of the program, the resolved role table and
// the options: it never mutates its inputs and keeps all state, including
// the synthetic label counter, local to one call.
package emit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"coreasm/internal/diag"
	"coreasm/internal/program"
	"coreasm/internal/target"
	"coreasm/internal/trace"
)

// DefaultLabelBase seeds the synthetic text label counter.
const DefaultLabelBase = 555

const (
	dataHeader  = "SECTION .data"
	textHeader  = "SECTION .text"
	entryGlobal = "      global _start"
	entryLabel  = "_start:"
	indent      = "     "
	newlineData = "jnl: db 0x0A"
	newlineSym  = "jnl"
)

// Options tune a single emission.
type Options struct {
	// Strict turns every warning-level hazard into an error.
	Strict bool
	// LabelBase seeds str_<n> labels; zero selects DefaultLabelBase and
	// negative values are rejected.
	LabelBase int
}

func (o Options) labelBase() int {
	if o.LabelBase == 0 {
		return DefaultLabelBase
	}
	return o.LabelBase
}

// Artifact is the result of one emission.
type Artifact struct {
	Triple      target.Triple
	Text        string
	Diagnostics []diag.Diagnostic
	// Fingerprint is the xxhash of Text.
	Fingerprint uint64
}

// HasWarnings reports whether the emission recorded any warning.
func (a *Artifact) HasWarnings() bool {
	for _, d := range a.Diagnostics {
		if d.Severity >= diag.SevWarning {
			return true
		}
	}
	return false
}

// Emit lowers p using table. The error is one of the strict-mode errors of
// this package or a *target.MissingRoleError.
func Emit(p *program.Program, table *target.RoleTable, opts Options) (*Artifact, error) {
	return EmitContext(context.Background(), p, table, opts)
}

// EmitContext is Emit with the tracer (and parent span) taken from ctx.
func EmitContext(ctx context.Context, p *program.Program, table *target.RoleTable, opts Options) (*Artifact, error) {
	if p == nil {
		return nil, errors.New("emit: nil program")
	}
	if opts.LabelBase < 0 {
		return nil, fmt.Errorf("emit: %w %d (must not be negative)", ErrInvalidLabelBase, opts.LabelBase)
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "emit", trace.CurrentSpan(ctx))
	if table != nil {
		span.WithExtra("target", table.Triple().String())
	}

	regs, err := resolveRoles(table, p.Exit())
	if err != nil {
		span.End("missing role")
		return nil, err
	}

	e := &emitter{
		prog:   p,
		regs:   regs,
		opts:   opts,
		labels: labeler{base: opts.labelBase()},
		bag:    diag.NewBag(0),
		tracer: tracer,
		span:   span.ID(),
	}
	if err := e.run(); err != nil {
		span.End(err.Error())
		return nil, err
	}

	text := e.assemble()
	e.bag.Sort()
	art := &Artifact{
		Triple:      table.Triple(),
		Text:        text,
		Diagnostics: e.bag.Items(),
		Fingerprint: xxhash.Sum64String(text),
	}
	span.WithExtra("data", strconv.Itoa(len(e.data))).
		WithExtra("instrs", strconv.Itoa(len(e.entry))).
		WithExtra("warnings", strconv.Itoa(e.bag.Len()))
	span.End("")
	return art, nil
}

// roles holds every role value the emitter consults, looked up once.
type roles struct {
	mov, arg0, destIndex, write, syscall string
	i32, i64, f32, f64                   string
	rsi, rdi, rax, rdx                   string
	exit                                 string
}

func resolveRoles(table *target.RoleTable, withExit bool) (roles, error) {
	var r roles
	want := []struct {
		role target.Role
		dst  *string
	}{
		{target.RoleMov, &r.mov},
		{target.RoleArg0, &r.arg0},
		{target.RoleDestIndex, &r.destIndex},
		{target.RoleWriteSyscall, &r.write},
		{target.RoleSyscallInstr, &r.syscall},
		{target.RoleI32, &r.i32},
		{target.RoleI64, &r.i64},
		{target.RoleF32, &r.f32},
		{target.RoleF64, &r.f64},
		{target.RoleRSI, &r.rsi},
		{target.RoleRDI, &r.rdi},
		{target.RoleRAX, &r.rax},
		{target.RoleRDX, &r.rdx},
	}
	if withExit {
		want = append(want, struct {
			role target.Role
			dst  *string
		}{target.RoleExitSyscall, &r.exit})
	}
	for _, w := range want {
		v, err := table.Lookup(w.role)
		if err != nil {
			return roles{}, err
		}
		*w.dst = v
	}
	return r, nil
}

func (r roles) resultRegister(t program.Type) string {
	switch t {
	case program.I32:
		return r.i32
	case program.I64:
		return r.i64
	case program.F32:
		return r.f32
	case program.F64:
		return r.f64
	default:
		return r.arg0
	}
}

// labeler hands out str_<n> names. n grows with every text token and with
// every print ordinal, so names are strictly increasing within one call.
type labeler struct {
	base  int
	texts int
	print int
}

func (l *labeler) beginPrint() { l.print++ }

func (l *labeler) next() string {
	n := l.base + l.texts + l.print
	l.texts++
	return "str_" + strconv.Itoa(n)
}

type emitter struct {
	prog   *program.Program
	regs   roles
	opts   Options
	labels labeler
	bag    *diag.Bag
	tracer trace.Tracer
	span   uint64
	// untyped names variables left out of the data section.
	untyped map[string]bool

	data  []string
	entry []string
}

func (e *emitter) run() error {
	e.data = append(e.data, newlineData)
	for _, v := range e.prog.Variables() {
		if err := e.declare(v); err != nil {
			return err
		}
	}
	for pi, pr := range e.prog.Prints() {
		e.labels.beginPrint()
		for ti, tok := range pr.Tokens {
			loc := diag.Location{Print: pi, Token: ti}
			var err error
			switch tok.Kind {
			case program.TokenText:
				err = e.text(tok.Text, loc)
			case program.TokenVariable:
				err = e.variable(tok.Text, loc)
			case program.TokenNewline:
				e.write(e.regs.rsi, newlineSym, 1)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *emitter) declare(v program.Variable) error {
	if !v.Value.Type().Valid() {
		if e.opts.Strict {
			return &UntypedValueError{Name: v.Name, Loc: diag.NoLocation}
		}
		e.bag.Add(diag.New(diag.SevWarning, diag.EmitUntypedValue, diag.NoLocation,
			"variable %q has no typed value; declaration dropped", v.Name))
		if e.untyped == nil {
			e.untyped = make(map[string]bool)
		}
		e.untyped[v.Name] = true
		return nil
	}
	if v.Value.Type() == program.String {
		if err := e.checkText(v.Value.Str(), diag.NoLocation); err != nil {
			return err
		}
	}
	e.data = append(e.data, v.Name+" "+directive(v.Value.Type())+" "+v.Value.Literal())
	return nil
}

func (e *emitter) text(s string, loc diag.Location) error {
	if err := e.checkText(s, loc); err != nil {
		return err
	}
	label := e.labels.next()
	e.data = append(e.data, label+` db "`+s+`"`)
	e.write(e.regs.arg0, label, len(s))
	return nil
}

func (e *emitter) variable(name string, loc diag.Location) error {
	v, ok := e.prog.Lookup(name)
	if !ok {
		if e.opts.Strict {
			return &DanglingReferenceError{Name: name, Loc: loc}
		}
		e.bag.Add(diag.New(diag.SevWarning, diag.EmitDanglingReference, loc,
			"undeclared variable %q; print dropped", name))
		trace.Point(e.tracer, trace.ScopeItem, "drop", name, e.span)
		return nil
	}
	if e.untyped[name] {
		e.bag.Add(diag.New(diag.SevWarning, diag.EmitUntypedValue, loc,
			"variable %q has no typed value; print dropped", name))
		trace.Point(e.tracer, trace.ScopeItem, "drop", name, e.span)
		return nil
	}
	typ := v.Value.Type()
	if typ.Numeric() {
		if e.opts.Strict {
			return &NumericPrintError{Name: name, Type: typ.String(), Loc: loc}
		}
		e.bag.Add(diag.New(diag.SevWarning, diag.EmitNumericPrint, loc,
			"variable %q has numeric type %s; raw %d-byte storage is written", name, typ, typ.Size()))
	}
	e.write(e.regs.resultRegister(typ), name, len(v.Value.Bytes()))
	return nil
}

// checkText rejects, or warns about, text that cannot sit inside a quoted
// db operand.
func (e *emitter) checkText(s string, loc diag.Location) error {
	if !strings.ContainsAny(s, "\"\r\n") {
		return nil
	}
	if e.opts.Strict {
		return &UnrepresentableTextError{Text: s, Loc: loc}
	}
	e.bag.Add(diag.New(diag.SevWarning, diag.EmitUnrepresentableText, loc,
		"text %q contains a double quote or line break and is emitted verbatim", s))
	return nil
}

// write appends the five-instruction write syscall sequence.
func (e *emitter) write(src, operand string, length int) {
	r := e.regs
	e.mov(src, operand)
	e.mov(r.destIndex, r.write)
	e.mov(r.rdx, strconv.Itoa(length))
	e.mov(r.rax, r.write)
	e.entry = append(e.entry, r.syscall)
}

func (e *emitter) mov(dst, src string) {
	e.entry = append(e.entry, e.regs.mov+" "+dst+", "+src)
}

func (e *emitter) assemble() string {
	var b strings.Builder
	b.WriteString(dataHeader)
	b.WriteByte('\n')
	for _, line := range e.data {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(textHeader)
	b.WriteByte('\n')
	b.WriteString(entryGlobal)
	b.WriteByte('\n')
	b.WriteString(entryLabel)
	b.WriteByte('\n')
	lines := e.entry
	if e.prog.Exit() {
		r := e.regs
		lines = append(lines,
			r.mov+" "+r.rax+", "+r.exit,
			r.mov+" "+r.rdi+", 0",
			r.syscall,
		)
	}
	for _, line := range lines {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func directive(t program.Type) string {
	switch t {
	case program.I32, program.F32:
		return "dd"
	case program.I64, program.F64:
		return "dq"
	default:
		return "db"
	}
}
