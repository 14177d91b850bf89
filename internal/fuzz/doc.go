// Package fuzztests houses Go fuzz harnesses for the program-file decoder
// and the emitter. They guard against panics and nondeterministic output on
// arbitrary program files.
//
// Seeds come from testdata/programs plus a few inline programs; no corpus is
// written back to the repository.
package fuzztests
