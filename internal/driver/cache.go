package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lambda/internal/eval"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// CacheDigest identifies a cached normal form.
type CacheDigest [32]byte

// CachePayload is one cached evaluation.
type CachePayload struct {
	Schema   uint16
	Mode     string
	MaxSteps int
	Result   string // печатная нормальная форма, разбирается обратно при чтении
	Steps    int
	Captures int
	Created  time.Time
}

// ResultCache хранит нормальные формы на диске по хэшу исходника и настроек.
// Thread-safe for concurrent access.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenResultCache initializes a cache under $XDG_CACHE_HOME/<app>/nf
// (or ~/.cache/<app>/nf).
func OpenResultCache(app string) (*ResultCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenResultCacheAt(filepath.Join(base, app))
}

// OpenResultCacheAt initializes a cache rooted at dir.
func OpenResultCacheAt(dir string) (*ResultCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

// CacheKey hashes normalized source text together with everything that can
// change the normal form.
func CacheKey(content []byte, opts eval.Options) CacheDigest {
	h := sha256.New()
	var hdr [10]byte
	binary.LittleEndian.PutUint16(hdr[:2], cacheSchemaVersion)
	binary.LittleEndian.PutUint64(hdr[2:], uint64(max(opts.MaxSteps, 0)))
	h.Write(hdr[:])
	h.Write([]byte{byte(opts.Mode)})
	h.Write(content)
	var d CacheDigest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *ResultCache) pathFor(key CacheDigest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "nf" - normal forms
	return filepath.Join(c.dir, "nf", hexKey[:2], hexKey+".mp")
}

// Store serializes and writes a payload to the disk cache.
func (c *ResultCache) Store(key CacheDigest, payload *CachePayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *payload
	stored.Schema = cacheSchemaVersion
	if stored.Created.IsZero() {
		stored.Created = time.Now().UTC()
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // после rename файла уже нет

	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload. A missing entry is not an error.
func (c *ResultCache) Get(key CacheDigest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// Lookup is Get that treats every failure as a miss.
func (c *ResultCache) Lookup(key CacheDigest) (*CachePayload, bool) {
	var payload CachePayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return nil, false
	}
	return &payload, true
}

// DropAll removes every cached entry.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	nf := filepath.Join(c.dir, "nf")
	old := nf + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(nf, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// Dir returns the cache root.
func (c *ResultCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}
