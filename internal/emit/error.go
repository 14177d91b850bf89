package emit

import (
	"errors"
	"fmt"

	"coreasm/internal/diag"
	"coreasm/internal/target"
)

var (
	ErrDanglingReference   = errors.New("dangling variable reference")
	ErrNumericPrint        = errors.New("numeric variable printed")
	ErrUnrepresentableText = errors.New("unrepresentable text")
	ErrUntypedValue        = errors.New("untyped variable value")
	ErrInvalidLabelBase    = errors.New("invalid label base")
)

// DanglingReferenceError is returned in strict mode for a print token that
// names an undeclared variable.
type DanglingReferenceError struct {
	Name string
	Loc  diag.Location
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: print references undeclared variable %q", e.Loc, e.Name)
}

func (e *DanglingReferenceError) Is(target error) bool { return target == ErrDanglingReference }

// NumericPrintError is returned in strict mode when a numeric variable is
// printed; the write syscall would copy its binary storage verbatim.
type NumericPrintError struct {
	Name string
	Type string
	Loc  diag.Location
}

func (e *NumericPrintError) Error() string {
	return fmt.Sprintf("%s: variable %q has numeric type %s and cannot be printed without conversion", e.Loc, e.Name, e.Type)
}

func (e *NumericPrintError) Is(target error) bool { return target == ErrNumericPrint }

// UnrepresentableTextError is returned in strict mode for literals that
// cannot be placed inside a double-quoted db directive.
type UnrepresentableTextError struct {
	Text string
	Loc  diag.Location
}

func (e *UnrepresentableTextError) Error() string {
	return fmt.Sprintf("%s: text %q contains a double quote or line break", e.Loc, e.Text)
}

func (e *UnrepresentableTextError) Is(target error) bool { return target == ErrUnrepresentableText }

// UntypedValueError is returned in strict mode for a variable declared with
// the zero program.Value.
type UntypedValueError struct {
	Name string
	Loc  diag.Location
}

func (e *UntypedValueError) Error() string {
	return fmt.Sprintf("%s: variable %q has no typed value", e.Loc, e.Name)
}

func (e *UntypedValueError) Is(target error) bool { return target == ErrUntypedValue }

// AsDiagnostic maps an emission or target error to an error diagnostic.
func AsDiagnostic(err error) diag.Diagnostic {
	var (
		dangling *DanglingReferenceError
		numeric  *NumericPrintError
		text     *UnrepresentableTextError
		untyped  *UntypedValueError
		missing  *target.MissingRoleError
		unsup    *target.UnsupportedTargetError
	)
	switch {
	case errors.As(err, &dangling):
		return diag.New(diag.SevError, diag.EmitDanglingReference, dangling.Loc, "undeclared variable %q", dangling.Name)
	case errors.As(err, &numeric):
		return diag.New(diag.SevError, diag.EmitNumericPrint, numeric.Loc, "variable %q has numeric type %s", numeric.Name, numeric.Type)
	case errors.As(err, &text):
		return diag.New(diag.SevError, diag.EmitUnrepresentableText, text.Loc, "text %q contains a double quote or line break", text.Text)
	case errors.As(err, &untyped):
		return diag.New(diag.SevError, diag.EmitUntypedValue, untyped.Loc, "variable %q has no typed value", untyped.Name)
	case errors.Is(err, ErrInvalidLabelBase):
		return diag.New(diag.SevError, diag.ConfigInvalid, diag.NoLocation, "%v", err)
	case errors.As(err, &missing):
		return diag.New(diag.SevError, diag.TargetMissingRole, diag.NoLocation, "%s", missing.Error())
	case errors.As(err, &unsup):
		return diag.New(diag.SevError, diag.TargetUnsupported, diag.NoLocation, "%s", unsup.Error())
	default:
		return diag.New(diag.SevError, diag.UnknownCode, diag.NoLocation, "%v", err)
	}
}
