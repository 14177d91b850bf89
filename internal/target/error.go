package target

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTarget matches any *UnsupportedTargetError.
	ErrUnsupportedTarget = errors.New("unsupported target")
	// ErrMissingRole matches any *MissingRoleError.
	ErrMissingRole = errors.New("missing role")
)

// UnsupportedTargetError reports a triple with no role table.
type UnsupportedTargetError struct {
	Triple Triple
}

func (e *UnsupportedTargetError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("unsupported target %s (width=%s isa=%s os=%s)", e.Triple, e.Triple.Width, e.Triple.ISA, e.Triple.OS)
}

func (e *UnsupportedTargetError) Is(target error) bool { return target == ErrUnsupportedTarget }

// MissingRoleError reports a role table without a value for Role. Builtin
// tables are complete, so hitting this is an invariant violation.
type MissingRoleError struct {
	Triple Triple
	Role   Role
}

func (e *MissingRoleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("role table for %s has no entry for role %q", e.Triple, e.Role)
}

func (e *MissingRoleError) Is(target error) bool { return target == ErrMissingRole }
