package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Loc      Location
	Message  string
}

// FormatShortDiagnostics renders diagnostics one per line as
// "<severity> <CODE> <location> <message>", sorted deterministically.
// The origin (usually a file name or triple) prefixes every location.
func FormatShortDiagnostics(diags []Diagnostic, origin string, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	rendered := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, shortDiagnostic{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Loc:      d.Primary,
			Message:  sanitizeMessage(d.Message),
		})
		if includeNotes {
			for _, n := range d.Notes {
				rendered = append(rendered, shortDiagnostic{
					Severity: "note",
					Code:     d.Code.ID(),
					Loc:      n.Loc,
					Message:  sanitizeMessage(n.Msg),
				})
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Loc.Print != dj.Loc.Print {
			return di.Loc.Print < dj.Loc.Print
		}
		if di.Loc.Token != dj.Loc.Token {
			return di.Loc.Token < dj.Loc.Token
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Code < dj.Code
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code, locationWithOrigin(origin, d.Loc), d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Pretty writes diagnostics for terminals:
// "<origin>:<location>: <severity> <CODE>: <message>", colourised unless
// color.NoColor is set.
func Pretty(w io.Writer, diags []Diagnostic, origin string) {
	for _, d := range diags {
		sev := severityLabel(d.Severity)
		switch d.Severity {
		case SevError:
			sev = errorColor.Sprint(sev)
		case SevWarning:
			sev = warningColor.Sprint(sev)
		default:
			sev = infoColor.Sprint(sev)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n", locationWithOrigin(origin, d.Primary), sev, d.Code.ID(), sanitizeMessage(d.Message))
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", n.Loc, sanitizeMessage(n.Msg))
		}
	}
}

func locationWithOrigin(origin string, loc Location) string {
	if origin == "" {
		return loc.String()
	}
	if !loc.IsValid() {
		return origin
	}
	return origin + ":" + loc.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
