package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmit_GreetingToStdout(t *testing.T) {
	out, stderr, err := runCLI(t, "emit")
	if err != nil {
		t.Fatalf("emit: %v\n%s", err, stderr)
	}
	for _, want := range []string{"SECTION .data\n", "     str_556 db \"Hello \"\n", "     mov rdx, 6\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "     mov rax, 60\n     mov rdi, 0\n     syscall\n") {
		t.Fatalf("output lacks exit epilogue:\n%s", out)
	}
}

func TestEmit_ManifestTargetAndOutput(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	writeFile(t, filepath.Join(dir, "coreasm.toml"), "[target]\ntriple = \"arm64-linux\"\n[emit]\noutput = \"build/hello.asm\"\n")

	_, stderr, err := runCLI(t, "emit", filepath.Join(dir, "hello.toml"))
	if err != nil {
		t.Fatalf("emit: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, "build", "hello.asm"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "     svc 0\n") {
		t.Fatalf("manifest target ignored:\n%s", data)
	}

	out, _, err := runCLI(t, "emit", "--target", "i386-linux", "-o", "-", filepath.Join(dir, "hello.toml"))
	if err != nil {
		t.Fatalf("emit --target: %v", err)
	}
	if !strings.Contains(out, "     int 0x80\n") {
		t.Fatalf("--target did not override manifest:\n%s", out)
	}
}

func TestEmit_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "ghost.toml")
	writeFile(t, prog, "[[print]]\ntokens = [{ var = \"ghost\" }, { newline = true }]\n")

	_, stderr, err := runCLI(t, "emit", "-o", "-", prog)
	if err != nil {
		t.Fatalf("lenient emit: %v", err)
	}
	if !strings.Contains(stderr, "warning EMT1001") {
		t.Fatalf("stderr lacks warning:\n%s", stderr)
	}

	_, stderr, err = runCLI(t, "emit", "--strict", prog)
	if err == nil {
		t.Fatal("strict emit succeeded")
	}
	if !strings.Contains(stderr, "error EMT1001") {
		t.Fatalf("stderr lacks error diagnostic:\n%s", stderr)
	}

	_, stderr, err = runCLI(t, "emit", "--target", "x86_64-mac")
	if err == nil || !strings.Contains(stderr, "TGT2001") {
		t.Fatalf("unsupported target: err=%v stderr=%s", err, stderr)
	}

	if _, _, err := runCLI(t, "emit", "--label-base", "0"); err == nil {
		t.Fatal("--label-base 0 accepted")
	}

	_, stderr, err = runCLI(t, "emit", filepath.Join(dir, "missing.toml"))
	if err == nil || !strings.Contains(stderr, "error CFG3002") {
		t.Fatalf("missing program: err=%v stderr=%s", err, stderr)
	}

	bad := t.TempDir()
	writeFile(t, filepath.Join(bad, "coreasm.toml"), "[target]\ntriple = \"pdp11-unix\"\n")
	writeFile(t, filepath.Join(bad, "p.toml"), "exit = true\n")
	_, stderr, err = runCLI(t, "emit", filepath.Join(bad, "p.toml"))
	if err == nil || !strings.Contains(stderr, "error CFG3001") {
		t.Fatalf("bad manifest: err=%v stderr=%s", err, stderr)
	}
}

func TestBatch_WritesEveryTarget(t *testing.T) {
	outDir := t.TempDir()
	out, stderr, err := runCLI(t, "batch", "--ui", "off", "--out-dir", outDir,
		"--target", "x86_64-linux", "--target", "arm-linux")
	if err != nil {
		t.Fatalf("batch: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "emitted 2/2 (0 cached)") {
		t.Fatalf("summary missing:\n%s", out)
	}
	for _, name := range []string{"greeting-x86_64-linux.asm", "greeting-arm-linux.asm"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, "batch", "--ui", "off", "--out-dir", t.TempDir())
	if err != nil {
		t.Fatalf("batch (all targets): %v", err)
	}
	if !strings.Contains(out, "emitted 8/8") {
		t.Fatalf("default targets:\n%s", out)
	}

	_, _, err = runCLI(t, "batch", "--ui", "off", "--out-dir", t.TempDir(), "--target", "arm64-mac")
	if err == nil || !strings.Contains(err.Error(), "1 of 1 requests failed") {
		t.Fatalf("batch unsupported: err = %v", err)
	}
}

func TestTargets(t *testing.T) {
	out, _, err := runCLI(t, "targets", "--format", "json", "--roles")
	if err != nil {
		t.Fatalf("targets: %v", err)
	}
	var payload []targetPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(payload) != 8 {
		t.Fatalf("len = %d, want 8", len(payload))
	}
	if payload[0].Roles["mov"] != "mov" {
		t.Fatalf("roles of %s = %v", payload[0].Triple, payload[0].Roles)
	}

	out, _, err = runCLI(t, "targets", "--roles")
	if err != nil {
		t.Fatalf("targets pretty: %v", err)
	}
	for _, want := range []string{"Linux\n", "Windows\n", "x86_64-linux", "64-bit X86", "write-syscall"} {
		if !strings.Contains(out, want) {
			t.Fatalf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	src := filepath.Join(dir, "hello.toml")
	if _, _, err := runCLI(t, "encode", src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fromTOML, _, err := runCLI(t, "emit", "-o", "-", src)
	if err != nil {
		t.Fatal(err)
	}
	fromMsgpack, _, err := runCLI(t, "emit", "-o", "-", filepath.Join(dir, "hello.mp"))
	if err != nil {
		t.Fatal(err)
	}
	if fromTOML != fromMsgpack {
		t.Fatalf("msgpack program emits differently:\n%s\n---\n%s", fromTOML, fromMsgpack)
	}
	if _, _, err := runCLI(t, "encode", src, "-o", src); err == nil {
		t.Fatal("encode onto its input succeeded")
	}
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "coreasm" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("invalid mode accepted")
	}
}

func TestBatch_Profiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := runCLI(t, "--cpu-profile", cpu, "--mem-profile", mem,
		"batch", "--ui", "off", "--out-dir", filepath.Join(dir, "out"), "--target", "x86_64-linux"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
	}
}
