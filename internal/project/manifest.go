package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"coreasm/internal/target"
)

var (
	// ErrInvalidTriple wraps target triples the manifest cannot parse.
	ErrInvalidTriple = errors.New("invalid target triple")
	// ErrInvalidLabelBase reports a non-positive [emit].label_base.
	ErrInvalidLabelBase = errors.New("[emit].label_base must be positive")
)

// Manifest is a loaded coreasm.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config

	triple    target.Triple
	hasTriple bool
	registry  *target.Registry
}

type Config struct {
	Target TargetConfig  `toml:"target"`
	Emit   EmitConfig    `toml:"emit"`
	Tables []TableConfig `toml:"tables"`
}

type TargetConfig struct {
	Triple string `toml:"triple"`
}

type EmitConfig struct {
	Strict    bool   `toml:"strict"`
	LabelBase int    `toml:"label_base"`
	Output    string `toml:"output"`
}

// TableConfig declares a custom role table; Roles is keyed by role name
// ("mov", "arg0", "write-syscall", ...).
type TableConfig struct {
	Triple string            `toml:"triple"`
	Roles  map[string]string `toml:"roles"`
}

// LoadManifest finds coreasm.toml above startDir and loads it. ok is false
// when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load parses and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	m := &Manifest{
		Path:     path,
		Root:     filepath.Dir(path),
		Config:   cfg,
		registry: target.NewRegistry(),
	}
	if meta.IsDefined("target", "triple") {
		t, err := target.ParseTriple(strings.TrimSpace(cfg.Target.Triple))
		if err != nil {
			return nil, fmt.Errorf("%s: [target].triple: %w: %w", path, ErrInvalidTriple, err)
		}
		m.triple, m.hasTriple = t, true
	}
	if meta.IsDefined("emit", "label_base") && cfg.Emit.LabelBase <= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidLabelBase)
	}
	for i, tc := range cfg.Tables {
		if err := m.registerTable(tc); err != nil {
			return nil, fmt.Errorf("%s: [[tables]] #%d: %w", path, i+1, err)
		}
	}
	return m, nil
}

func (m *Manifest) registerTable(tc TableConfig) error {
	t, err := target.ParseTriple(strings.TrimSpace(tc.Triple))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTriple, err)
	}
	entries := make(map[target.Role]string, len(tc.Roles))
	for name, value := range tc.Roles {
		role, err := target.ParseRole(name)
		if err != nil {
			return err
		}
		entries[role] = strings.TrimSpace(value)
	}
	return m.registry.Register(t, entries)
}

// Triple returns [target].triple when the manifest sets one.
func (m *Manifest) Triple() (target.Triple, bool) {
	if m == nil {
		return target.Triple{}, false
	}
	return m.triple, m.hasTriple
}

// Registry returns the builtin tables overlaid with the manifest's tables.
// A nil manifest yields a fresh builtin registry.
func (m *Manifest) Registry() *target.Registry {
	if m == nil || m.registry == nil {
		return target.NewRegistry()
	}
	return m.registry
}

// OutputPath resolves [emit].output against the project root.
func (m *Manifest) OutputPath() string {
	if m == nil || m.Config.Emit.Output == "" {
		return ""
	}
	out := filepath.FromSlash(m.Config.Emit.Output)
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, out)
}
