package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 16 << 10
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addInlineSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "programs")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func addInlineSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("exit = true\n"))
	f.Add([]byte("[[print]]\ntokens = [{ newline = true }]\n"))
	f.Add([]byte("[[var]]\nname = \"f\"\ntype = \"f32\"\nvalue = 2\n[[print]]\ntokens = [{ var = \"f\" }]\n"))
	f.Add([]byte("[[print]]\ntokens = [{ text = \"say \\\"hi\\\"\" }]\n"))
	f.Add([]byte("[[var]]\nname = \"x\"\ntype = \"i32\"\nvalue = 3000000000\n"))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
