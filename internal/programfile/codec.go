package programfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"coreasm/internal/program"
)

// Format selects the on-disk encoding.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%s: %w (want .toml, .mp or .msgpack)", path, ErrUnsupportedFormat)
}

// Decode reads one program from r.
func Decode(r io.Reader, format Format) (*program.Program, error) {
	f, err := DecodeFile(r, format)
	if err != nil {
		return nil, err
	}
	return f.Program()
}

// DecodeFile reads the serialised form without converting it.
func DecodeFile(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		meta, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		f.Schema = SchemaVersion
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
		if f.Schema != SchemaVersion {
			return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, f.Schema, SchemaVersion)
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return &f, nil
}

// Encode writes p to w.
func Encode(w io.Writer, p *program.Program, format Format) error {
	f := FromProgram(p)
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.UseCompactInts(true)
		return enc.Encode(f)
	}
	return ErrUnsupportedFormat
}

// Load reads the program at path, choosing the format by extension.
func Load(path string) (*program.Program, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	p, err := Decode(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path atomically, choosing the format by extension.
func Save(path string, p *program.Program) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".coreasm-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, p, format); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
