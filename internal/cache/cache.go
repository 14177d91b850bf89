// Package cache stores emitted artifacts on disk keyed by the xxhash of
// everything that determines the output.
package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"coreasm/internal/diag"
	"coreasm/internal/emit"
	"coreasm/internal/program"
	"coreasm/internal/programfile"
	"coreasm/internal/target"
)

// schemaVersion is bumped whenever Payload changes shape.
const schemaVersion uint16 = 1

// ErrCorrupt is returned by Get when a payload fails its fingerprint check.
var ErrCorrupt = errors.New("cache entry corrupt")

// Key identifies one (program, role table, options) combination.
type Key uint64

func (k Key) String() string { return fmt.Sprintf("%016x", uint64(k)) }

// KeyFor hashes the msgpack form of p, every entry of table and opts.
// Custom tables for the same triple therefore get distinct keys.
func KeyFor(p *program.Program, table *target.RoleTable, opts emit.Options) (Key, error) {
	if table == nil {
		return 0, errors.New("cache: nil role table")
	}
	h := xxhash.New()
	if err := programfile.Encode(h, p, programfile.FormatMsgpack); err != nil {
		return 0, fmt.Errorf("cache: encode program: %w", err)
	}
	_, _ = h.WriteString(table.Triple().String())
	for _, e := range table.Entries() {
		_, _ = h.WriteString("\x00" + e.Role.String() + "=" + e.Value)
	}
	var buf [9]byte
	if opts.Strict {
		buf[0] = 1
	}
	labelBase := opts.LabelBase
	if labelBase == 0 {
		labelBase = emit.DefaultLabelBase
	}
	binary.LittleEndian.PutUint64(buf[1:], uint64(int64(labelBase)))
	_, _ = h.Write(buf[:])
	return Key(h.Sum64()), nil
}

// Payload is the on-disk form of an artifact.
type Payload struct {
	Schema      uint16
	Triple      string
	Text        string
	Fingerprint uint64
	Diagnostics []diag.Diagnostic
	CreatedAt   time.Time
}

// DiskCache is safe for concurrent use. A nil *DiskCache is a valid no-op
// cache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir uses dir as the cache root.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Key) string {
	return filepath.Join(c.dir, "artifacts", key.String()+".mp")
}

// Put writes art under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Key, art *emit.Artifact) error {
	if c == nil || art == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := Payload{
		Schema:      schemaVersion,
		Triple:      art.Triple.String(),
		Text:        art.Text,
		Fingerprint: art.Fingerprint,
		Diagnostics: art.Diagnostics,
		CreatedAt:   time.Now().UTC(),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the artifact stored under key. Entries written by an older
// schema read as misses.
func (c *DiskCache) Get(key Key) (*emit.Artifact, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	if xxhash.Sum64String(payload.Text) != payload.Fingerprint {
		return nil, false, fmt.Errorf("%w: %s: fingerprint mismatch", ErrCorrupt, key)
	}
	triple, err := target.ParseTriple(payload.Triple)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return &emit.Artifact{
		Triple:      triple,
		Text:        payload.Text,
		Diagnostics: payload.Diagnostics,
		Fingerprint: payload.Fingerprint,
	}, true, nil
}

// DropAll removes every cached artifact.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
