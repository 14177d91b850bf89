package target

import (
	"fmt"
	"strings"
)

// Role is an architecture-independent name for a register, mnemonic or
// syscall constant.
type Role uint8

const (
	RoleMov Role = iota
	// RoleArg0 carries the first syscall argument (the string address).
	RoleArg0
	// RoleDestIndex carries the second syscall argument.
	RoleDestIndex
	RoleWriteSyscall
	RoleSyscallInstr
	RoleI32
	RoleI64
	RoleF32
	RoleF64
	RoleRSI
	RoleRDI
	RoleRSP
	RoleRBP
	RoleRAX
	RoleRBX
	RoleRCX
	RoleRDX
	RoleExitSyscall

	roleCount
)

var roleNames = [roleCount]string{
	RoleMov:          "mov",
	RoleArg0:         "arg0",
	RoleDestIndex:    "dest-index",
	RoleWriteSyscall: "write-syscall",
	RoleSyscallInstr: "syscall-instr",
	RoleI32:          "i32",
	RoleI64:          "i64",
	RoleF32:          "f32",
	RoleF64:          "f64",
	RoleRSI:          "rsi",
	RoleRDI:          "rdi",
	RoleRSP:          "rsp",
	RoleRBP:          "rbp",
	RoleRAX:          "rax",
	RoleRBX:          "rbx",
	RoleRCX:          "rcx",
	RoleRDX:          "rdx",
	RoleExitSyscall:  "exit-syscall",
}

func (r Role) String() string {
	if r < roleCount {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole maps a role name (as printed by String) back to the Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range roleNames {
		if n == name {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}
