package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coreasm/internal/target"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

// macRoles renders a full [tables.roles] block borrowing the Linux values.
func macRoles(t *testing.T, skip target.Role) string {
	t.Helper()
	rt, err := target.Resolve(target.NewTriple(target.Width64, target.X86, target.Linux))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var b strings.Builder
	b.WriteString("[[tables]]\ntriple = \"x86_64-mac\"\n[tables.roles]\n")
	for _, e := range rt.Entries() {
		if e.Role == skip {
			continue
		}
		fmt.Fprintf(&b, "%q = %q\n", e.Role.String(), e.Value)
	}
	return b.String()
}

func TestLoadManifest_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[target]\ntriple = \"arm64-linux\"\n[emit]\nstrict = true\noutput = \"out/hello.asm\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	tr, ok := m.Triple()
	if !ok || tr.String() != "arm64-linux" {
		t.Fatalf("Triple() = %s, %v", tr, ok)
	}
	if !m.Config.Emit.Strict {
		t.Fatal("strict not decoded")
	}
	if want := filepath.Join(root, "out", "hello.asm"); m.OutputPath() != want {
		t.Fatalf("OutputPath() = %q, want %q", m.OutputPath(), want)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("LoadManifest on empty dir: m=%v ok=%v err=%v", m, ok, err)
	}
	if _, ok := m.Triple(); ok {
		t.Fatal("nil manifest reports a triple")
	}
	if len(m.Registry().Supported()) != len(target.Supported()) {
		t.Fatal("nil manifest registry differs from builtins")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		is   error
	}{
		{name: "syntax", body: "[target\n", want: "failed to parse TOML"},
		{name: "bad triple", body: "[target]\ntriple = \"mips-linux\"\n", is: ErrInvalidTriple},
		{name: "label base", body: "[emit]\nlabel_base = 0\n", is: ErrInvalidLabelBase},
		{name: "unknown key", body: "[emit]\nstrcit = true\n", want: "unknown keys: emit.strcit"},
		{name: "unknown role", body: "[[tables]]\ntriple = \"x86_64-mac\"\n[tables.roles]\nbogus = \"x\"\n", want: "[[tables]] #1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), path+": ") {
				t.Fatalf("error %q lacks path prefix", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %q is not %v", err, tt.is)
			}
		})
	}
}

func TestLoad_CustomTable(t *testing.T) {
	path := writeManifest(t, t.TempDir(), macRoles(t, target.Role(255)))
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mac := target.NewTriple(target.Width64, target.X86, target.Mac)
	rt, err := m.Registry().Resolve(mac)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", mac, err)
	}
	if v, _ := rt.Lookup(target.RoleWriteSyscall); v != "1" {
		t.Fatalf("write-syscall = %q", v)
	}
	if _, err := target.Resolve(mac); !errors.Is(err, target.ErrUnsupportedTarget) {
		t.Fatalf("custom table leaked into the builtin registry: %v", err)
	}
}

func TestLoad_PartialTableRejected(t *testing.T) {
	path := writeManifest(t, t.TempDir(), macRoles(t, target.RoleExitSyscall))
	_, err := Load(path)
	if !errors.Is(err, target.ErrMissingRole) {
		t.Fatalf("err = %v, want ErrMissingRole", err)
	}
}

func TestWriteStarter(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteStarter(dir, false)
	if err != nil {
		t.Fatalf("WriteStarter: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	m, err := Load(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("starter manifest does not load: %v", err)
	}
	if m.Config.Emit.LabelBase != 555 {
		t.Fatalf("label_base = %d", m.Config.Emit.LabelBase)
	}
	if _, err := WriteStarter(dir, false); !errors.Is(err, ErrExists) {
		t.Fatalf("second WriteStarter err = %v, want ErrExists", err)
	}
	if _, err := WriteStarter(dir, true); err != nil {
		t.Fatalf("forced WriteStarter: %v", err)
	}
}
