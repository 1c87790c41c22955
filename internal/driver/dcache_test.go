package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"mmdcheck/internal/diag"
	"mmdcheck/internal/source"
	"mmdcheck/internal/validator"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := cacheKey([32]byte{1}, Digest{2})

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}

	line := 1
	r := validator.Result{Message: "Parse error on line 1:", Line: &line, Token: "EOF", Expected: "'EDGE_TEXT'"}
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SynUnexpectedEOF, source.Span{File: 3, Start: 13, End: 13}, "unexpected end of input").
		WithFound("EOF", "'EDGE_TEXT'"))
	if err := c.Put(key, resultToDiskPayload(r, bag)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	payload, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	got, gotBag := diskPayloadToResult(payload, 7, 4)
	if got.Valid || got.Message != r.Message || got.Line == nil || *got.Line != 1 || got.Token != "EOF" || got.Expected != r.Expected {
		t.Errorf("result = %+v", got)
	}
	items := gotBag.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(items))
	}
	d := items[0]
	if d.Primary != (source.Span{File: 7, Start: 13, End: 13}) || d.Code != diag.SynUnexpectedEOF || d.Token != "EOF" {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	c, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Digest{9}
	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&DiskPayload{Schema: diskCacheSchemaVersion + 1, Valid: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Errorf("Get = %v, %v; want miss", ok, err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	key := Digest{1}
	if err := c.Put(key, resultToDiskPayload(validator.Result{Valid: true}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("entry survived DropAll")
	}
	if err := c.Put(key, resultToDiskPayload(validator.Result{Valid: true}, nil)); err != nil {
		t.Errorf("Put after DropAll: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Errorf("Put: %v", err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Errorf("Get = %v, %v", ok, err)
	}
}
