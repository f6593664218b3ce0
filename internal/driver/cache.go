package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"adalower/internal/project"
)

// emitCacheSchemaVersion guards DiskPayload's shape; bump when the cached
// fields change so a stale cache entry from an older binary is ignored
// rather than decoded into a mismatched struct.
const emitCacheSchemaVersion uint16 = 1

// DiskPayload is what gets cached per library unit, keyed by its UnitHash
// (content plus every withed unit's hash, so a dependency's change
// invalidates the cache the same way the unit's own edit would). Only the
// emitted ssair text is cached. A hit only sets UnitResult.CacheHit; sema,
// lowering and the module dump still run on every run.
type DiskPayload struct {
	Schema   uint16
	UnitName string
	Dump     string
}

// DiskCache stores one DiskPayload per UnitHash under the user's standard
// cache directory, keyed by hex-encoded digest, written atomically via a
// temp-file-then-rename so a crash mid-write never leaves a corrupt entry
// for the next run to trip over.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes (creating if necessary) a disk cache rooted at
// $XDG_CACHE_HOME/<app> or $HOME/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes a payload for key.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = emitCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes a cached payload for key, reporting false
// (never an error) when nothing is cached yet.
func (c *DiskCache) Get(key project.Digest) (*DiskPayload, bool, error) {
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

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != emitCacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}
