package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.mmd", []byte("graph TD"), 0)
	id2 := fs.Add("a.mmd", []byte("graph LR"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}

	latest, ok := fs.GetLatest("a.mmd")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "graph TD" {
		t.Errorf("old version lost, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("<stdin>", []byte("\xEF\xBB\xBFgraph TD\r\nA-->B\r\n"))
	f := fs.Get(id)

	if string(f.Content) != "graph TD\nA-->B\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if !f.Flags.Has(FileVirtual | FileHadBOM | FileNormalizedCRLF) {
		t.Errorf("flags = %b, want virtual|bom|crlf", f.Flags)
	}
	expected := []uint32{8, 14}
	if len(f.LineIdx) != len(expected) {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, expected)
	}
	for i, v := range expected {
		if f.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, f.LineIdx[i], v)
		}
	}
}

func TestResolveAndGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.mmd", []byte("graph TD\n  A-->B\n  B-->C"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{8, 1, 9},
		{9, 2, 1},
		{11, 2, 3},
		{len32(f.Content), 3, 8},
	}
	for _, tt := range tests {
		pos := f.Position(tt.off)
		if pos.Line != tt.line || pos.Col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.off, pos.Line, pos.Col, tt.line, tt.col)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 11, End: 16})
	if start.Line != 2 || end.Line != 2 || end.Col != 8 {
		t.Errorf("Resolve = %v-%v", start, end)
	}

	if got := f.GetLine(2); got != "  A-->B" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.mmd")
	if err := os.WriteFile(path, []byte("pie\r\n\"a\" : 1\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "pie\n\"a\" : 1\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags.Has(FileVirtual) {
		t.Errorf("disk file marked virtual")
	}
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.mmd")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestSpanHelpers(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 10}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 10 {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files changed span: %v", got)
	}
	if !a.Contains(Span{File: 1, Start: 5, End: 9}) || a.Contains(b) {
		t.Errorf("Contains misbehaves")
	}
	if at := a.At(); !at.Empty() || at.Start != 10 {
		t.Errorf("At = %v", at)
	}
}

func len32(b []byte) uint32 { return uint32(len(b)) }
