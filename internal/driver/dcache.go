package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
	"mmdcheck/internal/validator"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проверки по ключу (контент + настройки) на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached check result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Valid    bool
	Message  string
	Line     *int
	Token    string
	Expected string

	// Diagnostics are stored with offsets only; the file id is assigned on
	// restore.
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diag.Diagnostic without its file reference. Notes are
// not cached.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Token    string
	Expected []string
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCache initializes a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки: подкаталог "results".
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
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
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// by another schema are reported as misses.
func (c *DiskCache) Get(key Digest) (*DiskPayload, bool, error) {
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
	defer func() { _ = f.Close() }()

	var out DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// resultToDiskPayload converts a check outcome for caching.
func resultToDiskPayload(r validator.Result, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Valid:    r.Valid,
		Message:  r.Message,
		Line:     r.Line,
		Token:    r.Token,
		Expected: r.Expected,
	}
	if bag == nil {
		return payload
	}
	for _, d := range bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Token:    d.Token,
			Expected: d.Expected,
		})
	}
	return payload
}

// diskPayloadToResult restores a cached outcome against file id.
func diskPayloadToResult(payload *DiskPayload, id source.FileID, maxDiagnostics int) (validator.Result, *diag.Bag) {
	r := validator.Result{
		Valid:    payload.Valid,
		Message:  payload.Message,
		Line:     payload.Line,
		Token:    payload.Token,
		Expected: payload.Expected,
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range payload.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: id, Start: cd.Start, End: cd.End}, cd.Message)
		bag.Add(d.WithFound(cd.Token, cd.Expected...))
	}
	return r, bag
}
