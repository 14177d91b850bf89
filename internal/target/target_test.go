package target

import (
	"errors"
	"testing"
)

func TestResolve_SupportedTablesAreComplete(t *testing.T) {
	supported := Supported()
	if len(supported) != 8 {
		t.Fatalf("len(Supported()) = %d, want 8", len(supported))
	}
	for _, tr := range supported {
		rt, err := Resolve(tr)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tr, err)
		}
		if rt.Triple() != tr {
			t.Fatalf("Resolve(%s).Triple() = %s", tr, rt.Triple())
		}
		for _, role := range AllRoles() {
			v, err := rt.Lookup(role)
			if err != nil {
				t.Fatalf("%s: Lookup(%s): %v", tr, role, err)
			}
			if v == "" {
				t.Fatalf("%s: role %s is empty", tr, role)
			}
		}
	}
}

func TestResolve_UnsupportedTriples(t *testing.T) {
	supported := make(map[Triple]bool)
	for _, tr := range Supported() {
		supported[tr] = true
	}
	unsupported := 0
	for _, tr := range All() {
		if supported[tr] {
			continue
		}
		unsupported++
		_, err := Resolve(tr)
		if !errors.Is(err, ErrUnsupportedTarget) {
			t.Fatalf("Resolve(%s) err = %v, want ErrUnsupportedTarget", tr, err)
		}
		var ute *UnsupportedTargetError
		if !errors.As(err, &ute) || ute.Triple != tr {
			t.Fatalf("Resolve(%s) err = %#v, want *UnsupportedTargetError for the triple", tr, err)
		}
	}
	if unsupported != 4 {
		t.Fatalf("unsupported count = %d, want 4 (mac)", unsupported)
	}

	_, err := Resolve(Triple{Width: Width(16), ISA: X86, OS: Linux})
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Fatalf("16-bit triple err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestResolve_WidthSensitive(t *testing.T) {
	rt64, err := Resolve(NewTriple(Width64, X86, Linux))
	if err != nil {
		t.Fatal(err)
	}
	rt32, err := Resolve(NewTriple(Width32, X86, Linux))
	if err != nil {
		t.Fatal(err)
	}
	for _, role := range []Role{RoleI64, RoleRSI, RoleRDI, RoleRAX, RoleRDX} {
		v64, _ := rt64.Lookup(role)
		v32, _ := rt32.Lookup(role)
		if v64 == v32 {
			t.Fatalf("role %s: 32-bit and 64-bit both resolve to %q", role, v32)
		}
	}
	if v, _ := rt32.Lookup(RoleI64); v != "ebx" {
		t.Fatalf("32-bit i64 = %q, want ebx", v)
	}
}

func TestResolve_SyscallNumbers(t *testing.T) {
	cases := []struct {
		triple Triple
		write  string
		exit   string
		instr  string
	}{
		{NewTriple(Width64, X86, Linux), "1", "60", "syscall"},
		{NewTriple(Width64, ARM, Linux), "64", "60", "svc 0"},
		{NewTriple(Width32, X86, Linux), "4", "1", "int 0x80"},
		{NewTriple(Width32, ARM, Linux), "4", "1", "svc 0"},
		{NewTriple(Width64, X86, Windows), "0x80", "0x0", "syscall"},
	}
	for _, tc := range cases {
		rt, err := Resolve(tc.triple)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.triple, err)
		}
		if got, _ := rt.Lookup(RoleWriteSyscall); got != tc.write {
			t.Fatalf("%s write = %q, want %q", tc.triple, got, tc.write)
		}
		if got, _ := rt.Lookup(RoleExitSyscall); got != tc.exit {
			t.Fatalf("%s exit = %q, want %q", tc.triple, got, tc.exit)
		}
		if got, _ := rt.Lookup(RoleSyscallInstr); got != tc.instr {
			t.Fatalf("%s syscall = %q, want %q", tc.triple, got, tc.instr)
		}
	}
}

func TestRegistry_RejectsPartialTable(t *testing.T) {
	reg := NewRegistry()
	mac := NewTriple(Width64, X86, Mac)
	err := reg.Register(mac, map[Role]string{RoleMov: "mov"})
	var mre *MissingRoleError
	if !errors.As(err, &mre) {
		t.Fatalf("Register partial table err = %v, want *MissingRoleError", err)
	}
	if mre.Role != RoleArg0 {
		t.Fatalf("missing role = %s, want arg0", mre.Role)
	}
	if _, err := reg.Resolve(mac); !errors.Is(err, ErrUnsupportedTarget) {
		t.Fatalf("partial table must not be registered, got %v", err)
	}
}

func TestRegistry_RegisterCustomTable(t *testing.T) {
	reg := NewRegistry()
	linux, _ := Resolve(NewTriple(Width64, X86, Linux))
	entries := make(map[Role]string)
	for _, e := range linux.Entries() {
		entries[e.Role] = e.Value
	}
	entries[RoleWriteSyscall] = "0x2000004"
	entries[RoleExitSyscall] = "0x2000001"

	mac := NewTriple(Width64, X86, Mac)
	if err := reg.Register(mac, entries); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rt, err := reg.Resolve(mac)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v, _ := rt.Lookup(RoleWriteSyscall); v != "0x2000004" {
		t.Fatalf("write = %q", v)
	}
	if len(reg.Supported()) != 9 {
		t.Fatalf("len(Supported()) = %d, want 9", len(reg.Supported()))
	}
	// builtin registry stays untouched
	if _, err := Resolve(mac); !errors.Is(err, ErrUnsupportedTarget) {
		t.Fatalf("builtin Resolve(mac) = %v, want unsupported", err)
	}
}

func TestRoleTable_LookupMissing(t *testing.T) {
	var rt *RoleTable
	if _, err := rt.Lookup(RoleMov); !errors.Is(err, ErrMissingRole) {
		t.Fatalf("nil table Lookup err = %v", err)
	}
	full, _ := Resolve(NewTriple(Width64, X86, Linux))
	if _, err := full.Lookup(Role(200)); !errors.Is(err, ErrMissingRole) {
		t.Fatalf("out-of-range Lookup err = %v", err)
	}
}

func TestParseTriple(t *testing.T) {
	cases := []struct {
		in   string
		want Triple
	}{
		{"x86_64-linux", NewTriple(Width64, X86, Linux)},
		{"amd64-windows", NewTriple(Width64, X86, Windows)},
		{"i386-linux", NewTriple(Width32, X86, Linux)},
		{"aarch64-darwin", NewTriple(Width64, ARM, Mac)},
		{"arm-linux", NewTriple(Width32, ARM, Linux)},
		{"32-x86-windows", NewTriple(Width32, X86, Windows)},
		{"64-ARM-Linux", NewTriple(Width64, ARM, Linux)},
	}
	for _, tc := range cases {
		got, err := ParseTriple(tc.in)
		if err != nil {
			t.Fatalf("ParseTriple(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTriple(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "x86_64", "sparc-linux", "64-x86-plan9", "16-x86-linux"} {
		if _, err := ParseTriple(bad); err == nil {
			t.Fatalf("ParseTriple(%q) succeeded, want error", bad)
		}
	}
}

func TestTripleString_RoundTrip(t *testing.T) {
	for _, tr := range All() {
		got, err := ParseTriple(tr.String())
		if err != nil {
			t.Fatalf("ParseTriple(%q): %v", tr.String(), err)
		}
		if got != tr {
			t.Fatalf("round trip %s -> %s", tr, got)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles() {
		got, err := ParseRole(role.String())
		if err != nil || got != role {
			t.Fatalf("ParseRole(%q) = %v, %v", role.String(), got, err)
		}
	}
	if _, err := ParseRole("r15"); err == nil {
		t.Fatal("ParseRole(r15) succeeded")
	}
}
