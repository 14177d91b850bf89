package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by WriteStarter when a file would be overwritten.
var ErrExists = errors.New("file already exists")

const starterManifest = `[target]
triple = "x86_64-linux"

[emit]
strict = false
label_base = 555
output = "hello.asm"
`

const starterProgram = `exit = true

[[var]]
name = "name"
type = "string"
value = "joy"

[[print]]
tokens = [{ text = "Hello " }, { var = "name" }, { text = "!" }, { newline = true }]
`

// StarterProgram is the file name of the program written by WriteStarter.
const StarterProgram = "hello.toml"

// WriteStarter writes coreasm.toml and hello.toml into dir. Existing files
// are kept unless force is set.
func WriteStarter(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", dir, err)
	}
	files := []struct {
		name, body string
	}{
		{ManifestName, starterManifest},
		{StarterProgram, starterProgram},
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return written, fmt.Errorf("%s: %w", path, ErrExists)
			}
		}
		if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %q: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
