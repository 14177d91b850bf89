package target

import (
	"fmt"
	"strings"
)

// Width is the pointer width of a target in bits.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) String() string {
	switch w {
	case Width32:
		return "32"
	case Width64:
		return "64"
	default:
		return fmt.Sprintf("width(%d)", uint8(w))
	}
}

// ParseWidth accepts "32" or "64".
func ParseWidth(s string) (Width, error) {
	switch strings.TrimSpace(s) {
	case "32":
		return Width32, nil
	case "64":
		return Width64, nil
	default:
		return 0, fmt.Errorf("invalid width %q (expected 32|64)", s)
	}
}

// ISA is an instruction-set family.
type ISA uint8

const (
	X86 ISA = iota + 1
	ARM
)

func (i ISA) String() string {
	switch i {
	case X86:
		return "x86"
	case ARM:
		return "arm"
	default:
		return "unknown"
	}
}

// ParseISA accepts "x86" or "arm" (case-insensitive).
func ParseISA(s string) (ISA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86":
		return X86, nil
	case "arm":
		return ARM, nil
	default:
		return 0, fmt.Errorf("invalid instruction set %q (expected x86|arm)", s)
	}
}

// OS is a target operating system.
type OS uint8

const (
	Linux OS = iota + 1
	Windows
	Mac
)

func (o OS) String() string {
	switch o {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	case Mac:
		return "mac"
	default:
		return "unknown"
	}
}

// ParseOS accepts "linux", "windows" or "mac" (plus "darwin"/"macos").
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return Linux, nil
	case "windows", "win":
		return Windows, nil
	case "mac", "macos", "darwin":
		return Mac, nil
	default:
		return 0, fmt.Errorf("invalid operating system %q (expected linux|windows|mac)", s)
	}
}

// Triple selects exactly one role table, or none.
type Triple struct {
	Width Width
	ISA   ISA
	OS    OS
}

func NewTriple(w Width, isa ISA, os OS) Triple {
	return Triple{Width: w, ISA: isa, OS: os}
}

// String renders the triple in the conventional arch-os form, e.g. "x86_64-linux".
func (t Triple) String() string {
	return archName(t.Width, t.ISA) + "-" + t.OS.String()
}

func archName(w Width, isa ISA) string {
	switch {
	case isa == X86 && w == Width64:
		return "x86_64"
	case isa == X86 && w == Width32:
		return "i386"
	case isa == ARM && w == Width64:
		return "arm64"
	case isa == ARM && w == Width32:
		return "arm"
	default:
		return isa.String() + w.String()
	}
}

var archAliases = map[string]struct {
	w   Width
	isa ISA
}{
	"x86_64":  {Width64, X86},
	"amd64":   {Width64, X86},
	"x64":     {Width64, X86},
	"i386":    {Width32, X86},
	"i686":    {Width32, X86},
	"x86":     {Width32, X86},
	"arm64":   {Width64, ARM},
	"aarch64": {Width64, ARM},
	"arm":     {Width32, ARM},
	"arm32":   {Width32, ARM},
}

// ParseTriple parses "<arch>-<os>" ("x86_64-linux", "arm-windows", "aarch64-mac")
// or the explicit "<width>-<isa>-<os>" form ("32-x86-linux").
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "-")
	switch len(parts) {
	case 2:
		arch, ok := archAliases[parts[0]]
		if !ok {
			return Triple{}, fmt.Errorf("invalid target %q: unknown architecture %q", s, parts[0])
		}
		os, err := ParseOS(parts[1])
		if err != nil {
			return Triple{}, fmt.Errorf("invalid target %q: %w", s, err)
		}
		return NewTriple(arch.w, arch.isa, os), nil
	case 3:
		w, err := ParseWidth(parts[0])
		if err != nil {
			return Triple{}, fmt.Errorf("invalid target %q: %w", s, err)
		}
		isa, err := ParseISA(parts[1])
		if err != nil {
			return Triple{}, fmt.Errorf("invalid target %q: %w", s, err)
		}
		os, err := ParseOS(parts[2])
		if err != nil {
			return Triple{}, fmt.Errorf("invalid target %q: %w", s, err)
		}
		return NewTriple(w, isa, os), nil
	default:
		return Triple{}, fmt.Errorf("invalid target %q (expected <arch>-<os> or <width>-<isa>-<os>)", s)
	}
}

// All enumerates the full width × ISA × OS cross product, tabulated or not.
func All() []Triple {
	out := make([]Triple, 0, 12)
	for _, os := range []OS{Linux, Windows, Mac} {
		for _, isa := range []ISA{X86, ARM} {
			for _, w := range []Width{Width64, Width32} {
				out = append(out, NewTriple(w, isa, os))
			}
		}
	}
	return out
}
