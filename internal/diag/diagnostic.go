// Package diag defines the diagnostic model shared by the emitter, the
// input loaders and the CLI.
//
// Diagnostics are plain data. Rendering lives in Format* helpers and in the
// CLI; the package performs no IO.
package diag

import "fmt"

// Location points at a token of a print statement. Negative fields mean
// "not applicable"; NoLocation marks diagnostics that are not tied to a token.
type Location struct {
	Print int
	Token int
}

var NoLocation = Location{Print: -1, Token: -1}

func (l Location) IsValid() bool { return l.Print >= 0 }

func (l Location) String() string {
	if !l.IsValid() {
		return "-"
	}
	if l.Token < 0 {
		return fmt.Sprintf("print#%d", l.Print)
	}
	return fmt.Sprintf("print#%d:%d", l.Print, l.Token)
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  loc,
	}
}

// WithNote returns a copy of d with an extra note attached.
func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Loc: loc, Msg: msg})
	return d
}
