package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// emission
	EmitInfo                Code = 1000
	EmitDanglingReference   Code = 1001
	EmitNumericPrint        Code = 1002
	EmitUnrepresentableText Code = 1003
	EmitUntypedValue        Code = 1004

	// target resolution
	TargetInfo        Code = 2000
	TargetUnsupported Code = 2001
	TargetMissingRole Code = 2002

	// configuration and input files
	ConfigInfo         Code = 3000
	ConfigInvalid      Code = 3001
	ConfigProgramInput Code = 3002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	EmitInfo:                "Emission information",
	EmitDanglingReference:   "Print references an undeclared variable",
	EmitNumericPrint:        "Numeric variable printed without conversion",
	EmitUnrepresentableText: "Text cannot be represented in a data directive",
	EmitUntypedValue:        "Variable has no typed value",
	TargetInfo:              "Target information",
	TargetUnsupported:       "Unsupported target",
	TargetMissingRole:       "Role table is missing a role",
	ConfigInfo:              "Configuration information",
	ConfigInvalid:           "Invalid configuration",
	ConfigProgramInput:      "Invalid program file",
}

// ID renders the stable identifier, e.g. "EMT1001".
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TGT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
