package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"coreasm/internal/emit"
	"coreasm/internal/program"
	"coreasm/internal/target"
)

func x86Linux(t *testing.T) *target.RoleTable {
	t.Helper()
	rt, err := target.Resolve(target.NewTriple(target.Width64, target.X86, target.Linux))
	if err != nil {
		t.Fatal(err)
	}
	return rt
}

func TestKeyFor_Sensitivity(t *testing.T) {
	table := x86Linux(t)
	base, err := KeyFor(program.Example(), table, emit.Options{})
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	same, _ := KeyFor(program.Example(), table, emit.Options{LabelBase: emit.DefaultLabelBase})
	if same != base {
		t.Fatal("explicit default label base changed the key")
	}

	changed := program.Example()
	changed.AppendText("more")
	arm, err := target.Resolve(target.NewTriple(target.Width64, target.ARM, target.Linux))
	if err != nil {
		t.Fatal(err)
	}
	variants := map[string]func() (Key, error){
		"program": func() (Key, error) { return KeyFor(changed, table, emit.Options{}) },
		"table":   func() (Key, error) { return KeyFor(program.Example(), arm, emit.Options{}) },
		"strict":  func() (Key, error) { return KeyFor(program.Example(), table, emit.Options{Strict: true}) },
		"label":   func() (Key, error) { return KeyFor(program.Example(), table, emit.Options{LabelBase: 1}) },
	}
	for name, fn := range variants {
		k, err := fn()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if k == base {
			t.Fatalf("%s: key unchanged", name)
		}
	}
	if _, err := KeyFor(program.Example(), nil, emit.Options{}); err == nil {
		t.Fatal("nil table accepted")
	}
}

func TestDiskCache_PutGet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := Open("coreasm")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	p := program.Example()
	p.AppendVariable("ghost")
	table := x86Linux(t)
	art, err := emit.Emit(p, table, emit.Options{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	key, err := KeyFor(p, table, emit.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, art); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(art, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("artifact mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), "artifacts", key.String()+".mp")); err != nil {
		t.Fatalf("payload file: %v", err)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestDiskCache_Corrupt(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key(42)
	if err := os.MkdirAll(filepath.Join(c.Dir(), "artifacts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor(key), []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Get(key); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}

	art, err := emit.Emit(program.Example(), x86Linux(t), emit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	art.Fingerprint++
	if err := c.Put(key, art); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Get(key); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("tampered fingerprint: err = %v, want ErrCorrupt", err)
	}
}

func TestDiskCache_Nil(t *testing.T) {
	var c *DiskCache
	if err := c.Put(1, &emit.Artifact{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(1); ok || err != nil {
		t.Fatalf("nil Get: ok=%v err=%v", ok, err)
	}
}
